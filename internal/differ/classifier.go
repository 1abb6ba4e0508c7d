package differ

import (
	"fmt"

	"github.com/cjatools/cjadrift/pkg/types"
)

// DetectBreakingChanges scans a diff result for changes with compatibility
// risk. Removals and type changes are graded high, schema path changes
// medium; everything else (titles, descriptions, display settings) is
// considered safe. A component breaking for several reasons produces one
// entry per reason.
func DetectBreakingChanges(result *types.DiffResult) []types.BreakingChange {
	if result == nil {
		return nil
	}
	var breaking []types.BreakingChange
	for _, diff := range result.MetricDiffs {
		breaking = append(breaking, classifyComponent(diff)...)
	}
	for _, diff := range result.DimensionDiffs {
		breaking = append(breaking, classifyComponent(diff)...)
	}
	return breaking
}

func classifyComponent(diff types.ComponentDiff) []types.BreakingChange {
	switch diff.ChangeType {
	case types.ChangeTypeRemoved:
		return []types.BreakingChange{{
			ComponentID:   diff.ID,
			ComponentName: diff.Name,
			Kind:          types.BreakingKindRemoved,
			Severity:      types.SeverityHigh,
			Description:   fmt.Sprintf("Component %q was removed; reports referencing it will break", diff.Name),
		}}
	case types.ChangeTypeModified:
		var breaking []types.BreakingChange
		if change, ok := diff.ChangedFields[types.FieldType]; ok {
			breaking = append(breaking, types.BreakingChange{
				ComponentID:   diff.ID,
				ComponentName: diff.Name,
				Kind:          types.BreakingKindTypeChanged,
				OldValue:      change.Old,
				NewValue:      change.New,
				Severity:      types.SeverityHigh,
				Description: fmt.Sprintf("Component %q changed type from %v to %v",
					diff.Name, change.Old, change.New),
			})
		}
		if change, ok := diff.ChangedFields[types.FieldSchemaPath]; ok {
			breaking = append(breaking, types.BreakingChange{
				ComponentID:   diff.ID,
				ComponentName: diff.Name,
				Kind:          types.BreakingKindSchemaChanged,
				OldValue:      change.Old,
				NewValue:      change.New,
				Severity:      types.SeverityMedium,
				Description: fmt.Sprintf("Component %q moved from schema path %v to %v",
					diff.Name, change.Old, change.New),
			})
		}
		return breaking
	default:
		return nil
	}
}
