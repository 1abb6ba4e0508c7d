package differ

import (
	"math"
	"reflect"
	"strings"

	"github.com/cjatools/cjadrift/pkg/types"
)

// normalizeValue maps a raw record value onto its comparison form. The
// transform defines the equivalence classes used by the diff engine:
//
//   - nil and NaN collapse to the empty string
//   - strings lose leading/trailing whitespace
//   - maps are normalized recursively, dropping every key whose normalized
//     value is an empty string, empty map, or empty sequence
//   - sequences are normalized element-wise with order preserved
//   - all other scalars pass through unchanged
//
// Cleared-out optional config blocks ({}, "", null) therefore compare
// equal to an absent field, which keeps noisy no-op edits out of reports.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if math.IsNaN(val) {
			return ""
		}
		return val
	case float32:
		if math.IsNaN(float64(val)) {
			return ""
		}
		return val
	case map[string]any:
		return normalizeMap(val)
	case types.ComponentRecord:
		return normalizeMap(val)
	case []any:
		normalized := make([]any, len(val))
		for i, elem := range val {
			normalized[i] = normalizeValue(elem)
		}
		return normalized
	default:
		return val
	}
}

func normalizeMap(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		nv := normalizeValue(v)
		if isEmptyNormalized(nv) {
			continue
		}
		normalized[k] = nv
	}
	return normalized
}

func isEmptyNormalized(v any) bool {
	switch val := v.(type) {
	case string:
		return val == ""
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}

// valuesEqual reports whether two raw values belong to the same
// equivalence class.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(normalizeValue(a), normalizeValue(b))
}
