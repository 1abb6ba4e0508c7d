package types

import "testing"

func TestDiffSummary_ChangePercent(t *testing.T) {
	cases := []struct {
		name    string
		summary DiffSummary
		want    float64
	}{
		{
			name: "half changed",
			summary: DiffSummary{
				SourceMetricsCount: 2,
				TargetMetricsCount: 2,
				Metrics:            ChangeCounts{Modified: 1, Unchanged: 1},
			},
			want: 50,
		},
		{
			name: "denominator is the larger side",
			summary: DiffSummary{
				SourceMetricsCount: 0,
				TargetMetricsCount: 4,
				Metrics:            ChangeCounts{Added: 4},
			},
			want: 100,
		},
		{
			name:    "both sides empty",
			summary: DiffSummary{},
			want:    0,
		},
		{
			name: "all removed",
			summary: DiffSummary{
				SourceMetricsCount: 3,
				TargetMetricsCount: 0,
				Metrics:            ChangeCounts{Removed: 3},
			},
			want: 100,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.summary.MetricsChangePercent()
			if got != tc.want {
				t.Errorf("MetricsChangePercent() = %v, want %v", got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("change percent %v outside [0, 100]", got)
			}
		})
	}
}

func TestDiffSummary_TotalChanges(t *testing.T) {
	s := DiffSummary{
		Metrics:    ChangeCounts{Added: 1, Removed: 2, Modified: 3, Unchanged: 10},
		Dimensions: ChangeCounts{Added: 4, Unchanged: 20},
	}
	if got := s.TotalChanges(); got != 10 {
		t.Errorf("TotalChanges() = %d, want 10", got)
	}
	if !s.HasChanges() {
		t.Error("HasChanges() = false with 10 changes")
	}

	clean := DiffSummary{
		Metrics: ChangeCounts{Unchanged: 100},
	}
	if clean.HasChanges() {
		t.Error("HasChanges() = true on an unchanged-only summary")
	}
}

func TestDiffSummary_MaxChangePercent(t *testing.T) {
	s := DiffSummary{
		SourceMetricsCount:    10,
		TargetMetricsCount:    10,
		Metrics:               ChangeCounts{Modified: 1, Unchanged: 9},
		SourceDimensionsCount: 4,
		TargetDimensionsCount: 4,
		Dimensions:            ChangeCounts{Removed: 2, Unchanged: 2},
	}
	if got := s.MaxChangePercent(); got != 50 {
		t.Errorf("MaxChangePercent() = %v, want 50 (dimensions side)", got)
	}
}

func TestParseChangeType(t *testing.T) {
	for _, valid := range []string{"added", "removed", "modified", "unchanged"} {
		if _, ok := ParseChangeType(valid); !ok {
			t.Errorf("ParseChangeType(%q) rejected a valid value", valid)
		}
	}
	if _, ok := ParseChangeType("deleted"); ok {
		t.Error("ParseChangeType accepted an unknown value")
	}
}

func TestChangeType_Symbol(t *testing.T) {
	if ChangeTypeAdded.Symbol() != "+" || ChangeTypeRemoved.Symbol() != "-" || ChangeTypeModified.Symbol() != "~" {
		t.Error("change type symbols do not match the console markers")
	}
}
