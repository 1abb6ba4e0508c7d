package types

// BreakingChangeKind names the reason a change was flagged as breaking.
type BreakingChangeKind string

const (
	BreakingKindRemoved       BreakingChangeKind = "removed"
	BreakingKindTypeChanged   BreakingChangeKind = "type_changed"
	BreakingKindSchemaChanged BreakingChangeKind = "schema_changed"
)

// Severity grades the compatibility risk of a breaking change.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// BreakingChange flags a component change likely to affect downstream
// reports or consumers. A component with multiple breaking reasons yields
// one entry per reason.
type BreakingChange struct {
	ComponentID   string             `json:"component_id"`
	ComponentName string             `json:"component_name"`
	Kind          BreakingChangeKind `json:"kind"`
	OldValue      any                `json:"old_value,omitempty"`
	NewValue      any                `json:"new_value,omitempty"`
	Severity      Severity           `json:"severity"`
	Description   string             `json:"description"`
}
