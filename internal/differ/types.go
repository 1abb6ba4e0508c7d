package differ

import (
	"github.com/cjatools/cjadrift/pkg/types"
)

// Differ is the contract for snapshot comparison.
type Differ interface {
	Compare(source, target *types.Snapshot) (*types.DiffResult, error)
}

// FieldSet selects which curated field list the comparator inspects.
type FieldSet string

const (
	// FieldSetBasic covers the identity and typing fields every component
	// carries.
	FieldSetBasic FieldSet = "basic"
	// FieldSetExtended adds the attribution, bucketing, persistence, and
	// calculation settings.
	FieldSetExtended FieldSet = "extended"
)

// Options configures how a comparison is performed. The zero value means:
// basic field set, nothing ignored, no display filter, both component
// types compared.
type Options struct {
	// IgnoreFields are excluded from field comparison.
	IgnoreFields []string

	// CompareFields overrides the curated field list entirely. When empty,
	// FieldSet decides.
	CompareFields []string

	// FieldSet picks the curated list used when CompareFields is empty.
	FieldSet FieldSet

	// ShowOnly restricts the returned diff lists to the given change
	// types. Summary counts are unaffected; they always reflect the full
	// comparison.
	ShowOnly []types.ChangeType

	// MetricsOnly skips dimension comparison; DimensionsOnly skips metric
	// comparison. With both false, both collections are compared.
	MetricsOnly    bool
	DimensionsOnly bool

	// ToolVersion is stamped onto the result.
	ToolVersion string
}

// basicFields is the default comparison surface.
var basicFields = []string{
	types.FieldName,
	types.FieldTitle,
	types.FieldDescription,
	types.FieldType,
	types.FieldSchemaPath,
}

// extendedFields adds the configuration blocks that change less often but
// matter more when they do.
var extendedFields = append(append([]string{}, basicFields...),
	"precision",
	"format",
	"polarity",
	"summaryValueType",
	"attribution",
	"attributionModel",
	"lookbackWindow",
	"lookbackGranularity",
	"bucketing",
	"bucketingSettings",
	"persistence",
	"persistenceSettings",
	"allocationModel",
	"expirationSettings",
	"formula",
	"calculatedMetric",
	"segmentable",
	"reportable",
	"hidden",
	"includeExcludeSettings",
	"noValueOptionsSetting",
)

// compareFields resolves the effective field list: explicit override first,
// then the curated set, minus anything ignored.
func (o Options) compareFields() []string {
	fields := o.CompareFields
	if len(fields) == 0 {
		switch o.FieldSet {
		case FieldSetExtended:
			fields = extendedFields
		default:
			fields = basicFields
		}
	}
	if len(o.IgnoreFields) == 0 {
		return fields
	}
	ignored := make(map[string]bool, len(o.IgnoreFields))
	for _, f := range o.IgnoreFields {
		ignored[f] = true
	}
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if !ignored[f] {
			kept = append(kept, f)
		}
	}
	return kept
}

// showOnlySet returns the display filter as a set, or nil when unset.
func (o Options) showOnlySet() map[types.ChangeType]bool {
	if len(o.ShowOnly) == 0 {
		return nil
	}
	set := make(map[types.ChangeType]bool, len(o.ShowOnly))
	for _, ct := range o.ShowOnly {
		set[ct] = true
	}
	return set
}
