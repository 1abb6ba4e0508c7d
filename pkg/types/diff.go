package types

import "time"

// ChangeType classifies how a component differs between two snapshots.
type ChangeType string

const (
	ChangeTypeAdded     ChangeType = "added"
	ChangeTypeRemoved   ChangeType = "removed"
	ChangeTypeModified  ChangeType = "modified"
	ChangeTypeUnchanged ChangeType = "unchanged"
)

// Symbol returns the one-character marker used in console output.
func (c ChangeType) Symbol() string {
	switch c {
	case ChangeTypeAdded:
		return "+"
	case ChangeTypeRemoved:
		return "-"
	case ChangeTypeModified:
		return "~"
	default:
		return " "
	}
}

// ParseChangeType converts a string into a ChangeType, reporting whether it
// named a known value.
func ParseChangeType(s string) (ChangeType, bool) {
	switch ChangeType(s) {
	case ChangeTypeAdded, ChangeTypeRemoved, ChangeTypeModified, ChangeTypeUnchanged:
		return ChangeType(s), true
	}
	return "", false
}

// FieldChange holds the raw old and new values of one changed field. The
// values are reported exactly as they appeared in the snapshots, not in
// their normalized comparison form.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ComponentDiff is the result of comparing one metric or dimension across
// two snapshots.
//
// Invariants: ChangeType == added iff SourceData is nil; ChangeType ==
// removed iff TargetData is nil; ChangeType == modified iff ChangedFields
// is non-empty.
type ComponentDiff struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	ChangeType    ChangeType             `json:"change_type"`
	SourceData    ComponentRecord        `json:"source_data,omitempty"`
	TargetData    ComponentRecord        `json:"target_data,omitempty"`
	ChangedFields map[string]FieldChange `json:"changed_fields,omitempty"`
}

// MetadataDiff compares the data-view-level attributes of two snapshots.
type MetadataDiff struct {
	SourceDataViewID string                 `json:"source_data_view_id"`
	TargetDataViewID string                 `json:"target_data_view_id"`
	ChangedFields    map[string]FieldChange `json:"changed_fields,omitempty"`
}

// HasChanges reports whether any data-view attribute differs.
func (m *MetadataDiff) HasChanges() bool {
	return len(m.ChangedFields) > 0
}

// ChangeCounts holds per-category counts for one component type.
type ChangeCounts struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// Changed returns the number of components that differ in any way.
func (c ChangeCounts) Changed() int {
	return c.Added + c.Removed + c.Modified
}

// DiffSummary aggregates counts across the whole comparison. The counts
// always reflect the unfiltered comparison, regardless of any display
// filter applied to the diff lists.
type DiffSummary struct {
	SourceMetricsCount    int          `json:"source_metrics_count"`
	TargetMetricsCount    int          `json:"target_metrics_count"`
	SourceDimensionsCount int          `json:"source_dimensions_count"`
	TargetDimensionsCount int          `json:"target_dimensions_count"`
	Metrics               ChangeCounts `json:"metrics"`
	Dimensions            ChangeCounts `json:"dimensions"`
}

// HasChanges reports whether the comparison found any added, removed, or
// modified component.
func (s *DiffSummary) HasChanges() bool {
	return s.TotalChanges() > 0
}

// TotalChanges is the sum of added, removed, and modified components across
// metrics and dimensions.
func (s *DiffSummary) TotalChanges() int {
	return s.Metrics.Changed() + s.Dimensions.Changed()
}

// MetricsChangePercent is the share of metric components that changed,
// relative to the larger of the two snapshot counts. Always within
// [0, 100]; exactly 0 when both counts are 0.
func (s *DiffSummary) MetricsChangePercent() float64 {
	return changePercent(s.Metrics.Changed(), s.SourceMetricsCount, s.TargetMetricsCount)
}

// DimensionsChangePercent is the dimension counterpart of
// MetricsChangePercent.
func (s *DiffSummary) DimensionsChangePercent() float64 {
	return changePercent(s.Dimensions.Changed(), s.SourceDimensionsCount, s.TargetDimensionsCount)
}

// MaxChangePercent returns the larger of the two change percentages, the
// figure the CLI compares against its warning threshold.
func (s *DiffSummary) MaxChangePercent() float64 {
	m := s.MetricsChangePercent()
	if d := s.DimensionsChangePercent(); d > m {
		return d
	}
	return m
}

func changePercent(changed, sourceCount, targetCount int) float64 {
	denom := sourceCount
	if targetCount > denom {
		denom = targetCount
	}
	if denom == 0 {
		return 0
	}
	return float64(changed) / float64(denom) * 100
}

// DiffResult is the complete output of one snapshot comparison. It is
// built once by the comparator and never mutated afterwards; every output
// writer and the breaking-change classifier consume it read-only.
type DiffResult struct {
	Summary        DiffSummary     `json:"summary"`
	Metadata       MetadataDiff    `json:"metadata_diff"`
	MetricDiffs    []ComponentDiff `json:"metric_diffs"`
	DimensionDiffs []ComponentDiff `json:"dimension_diffs"`
	SourceLabel    string          `json:"source_label"`
	TargetLabel    string          `json:"target_label"`
	GeneratedAt    time.Time       `json:"generated_at"`
	ToolVersion    string          `json:"tool_version"`
}
