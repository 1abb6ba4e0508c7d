package differ

import (
	"math"
	"testing"
)

func TestValuesEqual_EmptyEquivalence(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil vs empty string", nil, "", true},
		{"nan vs empty string", math.NaN(), "", true},
		{"nil vs nan", nil, math.NaN(), true},
		{"whitespace trimmed", "  Page Views  ", "Page Views", true},
		{"whitespace only vs nil", "   ", nil, true},
		{"nil vs zero", nil, 0, false},
		{"nil vs false", nil, false, false},
		{"distinct strings", "a", "b", false},
		{"float vs same float", 1.5, 1.5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := valuesEqual(tc.a, tc.b); got != tc.want {
				t.Errorf("valuesEqual(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestValuesEqual_Maps(t *testing.T) {
	// a map entry whose value normalizes to empty compares equal to the
	// entry being absent
	a := map[string]any{"model": "lastTouch", "window": nil}
	b := map[string]any{"model": "lastTouch"}
	if !valuesEqual(a, b) {
		t.Error("map with nil-valued key should equal map without the key")
	}

	// empty nested containers disappear too
	a = map[string]any{"settings": map[string]any{}}
	b = map[string]any{}
	if !valuesEqual(a, b) {
		t.Error("empty nested map should equal absent key")
	}

	a = map[string]any{"items": []any{}}
	b = map[string]any{}
	if !valuesEqual(a, b) {
		t.Error("empty nested sequence should equal absent key")
	}

	// key order in literals is irrelevant, real differences are not
	a = map[string]any{"x": 1.0, "y": "two"}
	b = map[string]any{"y": "two", "x": 1.0}
	if !valuesEqual(a, b) {
		t.Error("same entries must compare equal regardless of declaration order")
	}

	a = map[string]any{"x": 1.0}
	b = map[string]any{"x": 2.0}
	if valuesEqual(a, b) {
		t.Error("differing values must not compare equal")
	}
}

func TestValuesEqual_SequenceOrderMatters(t *testing.T) {
	a := []any{"one", "two"}
	b := []any{"two", "one"}
	if valuesEqual(a, b) {
		t.Error("sequences differing only in order must compare unequal")
	}

	a = []any{" one ", nil}
	b = []any{"one", ""}
	if !valuesEqual(a, b) {
		t.Error("sequence elements must be normalized individually")
	}
}

func TestNormalizeValue_DoesNotMutateInput(t *testing.T) {
	original := map[string]any{"name": "  padded  ", "empty": nil}
	normalizeValue(original)
	if original["name"] != "  padded  " {
		t.Error("normalization mutated the input map")
	}
	if _, ok := original["empty"]; !ok {
		t.Error("normalization deleted a key from the input map")
	}
}
