package differ

import (
	"fmt"
	"sort"
	"time"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/internal/logger"
	"github.com/cjatools/cjadrift/pkg/types"
)

// Comparator is the snapshot diff engine. Compare is a pure function of
// its two inputs and the configured options; it holds no mutable state and
// never mutates the snapshots it is given.
type Comparator struct {
	options Options
	log     logger.Logger
	now     func() time.Time
}

// New creates a comparator with the given options.
func New(options Options) *Comparator {
	return NewWithLogger(options, logger.NewSimple())
}

// NewWithLogger creates a comparator that reports per-field comparison
// anomalies through the given logger.
func NewWithLogger(options Options, log logger.Logger) *Comparator {
	return &Comparator{
		options: options,
		log:     log,
		now:     time.Now,
	}
}

// Compare diffs two snapshots and returns the fully-populated result.
// Added, removed, and modified components are normal outcomes, never
// errors; Compare fails only on malformed input.
func (c *Comparator) Compare(source, target *types.Snapshot) (*types.DiffResult, error) {
	if source == nil {
		return nil, cjaerrors.New(cjaerrors.KindComparison, "source snapshot is required")
	}
	if target == nil {
		return nil, cjaerrors.New(cjaerrors.KindComparison, "target snapshot is required")
	}

	var metricDiffs, dimensionDiffs []types.ComponentDiff
	if !c.options.DimensionsOnly {
		metricDiffs = c.compareComponents(source.Metrics, target.Metrics)
	}
	if !c.options.MetricsOnly {
		dimensionDiffs = c.compareComponents(source.Dimensions, target.Dimensions)
	}

	// Summary counts come from the unfiltered lists; the display filter
	// below must not influence them.
	summary := types.DiffSummary{
		SourceMetricsCount:    len(source.Metrics),
		TargetMetricsCount:    len(target.Metrics),
		SourceDimensionsCount: len(source.Dimensions),
		TargetDimensionsCount: len(target.Dimensions),
		Metrics:               countChanges(metricDiffs),
		Dimensions:            countChanges(dimensionDiffs),
	}

	if filter := c.options.showOnlySet(); filter != nil {
		metricDiffs = filterDiffs(metricDiffs, filter)
		dimensionDiffs = filterDiffs(dimensionDiffs, filter)
	}

	return &types.DiffResult{
		Summary:        summary,
		Metadata:       compareMetadata(source, target),
		MetricDiffs:    metricDiffs,
		DimensionDiffs: dimensionDiffs,
		SourceLabel:    snapshotLabel(source),
		TargetLabel:    snapshotLabel(target),
		GeneratedAt:    c.now(),
		ToolVersion:    c.options.ToolVersion,
	}, nil
}

// compareComponents diffs one component list pair. The union of ids from
// both sides is walked in lexicographic order, which fixes the output
// order of the diff list.
func (c *Comparator) compareComponents(source, target []types.ComponentRecord) []types.ComponentDiff {
	sourceByID := buildLookup(source)
	targetByID := buildLookup(target)

	ids := make([]string, 0, len(sourceByID)+len(targetByID))
	for id := range sourceByID {
		ids = append(ids, id)
	}
	for id := range targetByID {
		if _, seen := sourceByID[id]; !seen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	diffs := make([]types.ComponentDiff, 0, len(ids))
	for _, id := range ids {
		sourceRec, inSource := sourceByID[id]
		targetRec, inTarget := targetByID[id]

		switch {
		case !inSource:
			diffs = append(diffs, types.ComponentDiff{
				ID:         id,
				Name:       targetRec.DisplayName(),
				ChangeType: types.ChangeTypeAdded,
				TargetData: targetRec,
			})
		case !inTarget:
			diffs = append(diffs, types.ComponentDiff{
				ID:         id,
				Name:       sourceRec.DisplayName(),
				ChangeType: types.ChangeTypeRemoved,
				SourceData: sourceRec,
			})
		default:
			changed := c.compareFields(id, sourceRec, targetRec)
			changeType := types.ChangeTypeUnchanged
			if len(changed) > 0 {
				changeType = types.ChangeTypeModified
			} else {
				changed = nil
			}
			diffs = append(diffs, types.ComponentDiff{
				ID:            id,
				Name:          displayName(sourceRec, targetRec),
				ChangeType:    changeType,
				SourceData:    sourceRec,
				TargetData:    targetRec,
				ChangedFields: changed,
			})
		}
	}
	return diffs
}

// compareFields checks every configured field and records the raw old/new
// values of those that differ.
func (c *Comparator) compareFields(id string, source, target types.ComponentRecord) map[string]types.FieldChange {
	changed := make(map[string]types.FieldChange)
	for _, field := range c.options.compareFields() {
		oldValue := source[field]
		newValue := target[field]
		if c.fieldChanged(id, field, oldValue, newValue) {
			changed[field] = types.FieldChange{Old: oldValue, New: newValue}
		}
	}
	return changed
}

// fieldChanged compares one field pair through normalization. A value the
// normalizer cannot handle counts as changed rather than aborting the whole
// comparison.
func (c *Comparator) fieldChanged(id, field string, oldValue, newValue any) (changed bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(map[string]interface{}{
				"component": id,
				"field":     field,
			}).Error("field comparison failed, treating field as changed", fmt.Errorf("%v", r))
			changed = true
		}
	}()
	return !valuesEqual(oldValue, newValue)
}

// compareMetadata diffs the data-view attributes directly, without value
// normalization.
func compareMetadata(source, target *types.Snapshot) types.MetadataDiff {
	diff := types.MetadataDiff{
		SourceDataViewID: source.DataViewID,
		TargetDataViewID: target.DataViewID,
	}
	changed := make(map[string]types.FieldChange)
	if source.DataViewName != target.DataViewName {
		changed["name"] = types.FieldChange{Old: source.DataViewName, New: target.DataViewName}
	}
	if source.Owner != target.Owner {
		changed["owner"] = types.FieldChange{Old: source.Owner, New: target.Owner}
	}
	if source.Description != target.Description {
		changed["description"] = types.FieldChange{Old: source.Description, New: target.Description}
	}
	if len(changed) > 0 {
		diff.ChangedFields = changed
	}
	return diff
}

// buildLookup indexes records by id. Duplicate ids within one list are the
// caller's problem; the last record wins here.
func buildLookup(records []types.ComponentRecord) map[string]types.ComponentRecord {
	lookup := make(map[string]types.ComponentRecord, len(records))
	for _, r := range records {
		lookup[r.ID()] = r
	}
	return lookup
}

func countChanges(diffs []types.ComponentDiff) types.ChangeCounts {
	var counts types.ChangeCounts
	for _, d := range diffs {
		switch d.ChangeType {
		case types.ChangeTypeAdded:
			counts.Added++
		case types.ChangeTypeRemoved:
			counts.Removed++
		case types.ChangeTypeModified:
			counts.Modified++
		case types.ChangeTypeUnchanged:
			counts.Unchanged++
		}
	}
	return counts
}

func filterDiffs(diffs []types.ComponentDiff, keep map[types.ChangeType]bool) []types.ComponentDiff {
	filtered := make([]types.ComponentDiff, 0, len(diffs))
	for _, d := range diffs {
		if keep[d.ChangeType] {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// displayName prefers the target side's label, falling back to the source.
func displayName(source, target types.ComponentRecord) string {
	if name := target.DisplayName(); name != "" {
		return name
	}
	return source.DisplayName()
}

func snapshotLabel(s *types.Snapshot) string {
	if s.DataViewName != "" {
		return fmt.Sprintf("%s (%s)", s.DataViewName, s.CreatedAt.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s (%s)", s.DataViewID, s.CreatedAt.Format(time.RFC3339))
}
