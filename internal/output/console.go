package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/cjatools/cjadrift/pkg/types"
)

// ConsoleWriter renders a human-readable report with +/-/~ markers and
// optional ANSI coloring. Multi-line text fields (descriptions, formulas)
// are rendered as unified diffs instead of a single old/new pair.
type ConsoleWriter struct {
	opts Options
}

func (cw *ConsoleWriter) Write(result *types.DiffResult, w io.Writer) error {
	paint := cw.painter()

	fmt.Fprintf(w, "Data View Comparison\n")
	fmt.Fprintf(w, "====================\n")
	fmt.Fprintf(w, "Source: %s\n", result.SourceLabel)
	fmt.Fprintf(w, "Target: %s\n\n", result.TargetLabel)

	if result.Metadata.HasChanges() {
		fmt.Fprintf(w, "Data view settings:\n")
		for _, field := range sortedFieldNames(result.Metadata.ChangedFields) {
			change := result.Metadata.ChangedFields[field]
			fmt.Fprintf(w, "  %s %s: %v %s %v\n",
				paint(types.ChangeTypeModified, "~"), field, change.Old, arrow, change.New)
		}
		fmt.Fprintln(w)
	}

	summary := result.Summary
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Metrics:    %d added, %d removed, %d modified, %d unchanged (%.1f%% changed)\n",
		summary.Metrics.Added, summary.Metrics.Removed, summary.Metrics.Modified,
		summary.Metrics.Unchanged, summary.MetricsChangePercent())
	fmt.Fprintf(w, "  Dimensions: %d added, %d removed, %d modified, %d unchanged (%.1f%% changed)\n",
		summary.Dimensions.Added, summary.Dimensions.Removed, summary.Dimensions.Modified,
		summary.Dimensions.Unchanged, summary.DimensionsChangePercent())
	fmt.Fprintf(w, "  Total changes: %d\n\n", summary.TotalChanges())

	if !summary.HasChanges() && !result.Metadata.HasChanges() {
		fmt.Fprintln(w, "No changes detected")
		return nil
	}

	cw.writeSection(w, "Metrics", result.MetricDiffs, paint)
	cw.writeSection(w, "Dimensions", result.DimensionDiffs, paint)

	if len(cw.opts.Breaking) > 0 {
		fmt.Fprintf(w, "Breaking changes:\n")
		for _, bc := range cw.opts.Breaking {
			fmt.Fprintf(w, "  %s [%s] %s\n",
				paint(types.ChangeTypeRemoved, "!"), bc.Severity, bc.Description)
		}
		fmt.Fprintln(w)
	}

	return nil
}

const arrow = "->"

func (cw *ConsoleWriter) writeSection(w io.Writer, label string, diffs []types.ComponentDiff, paint func(types.ChangeType, string) string) {
	visible := visibleDiffs(diffs, cw.opts.ChangesOnly)
	if len(visible) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", label)
	for _, d := range visible {
		symbol := paint(d.ChangeType, d.ChangeType.Symbol())
		fmt.Fprintf(w, "  %s %s (%s)\n", symbol, d.Name, d.ID)
		for _, field := range sortedFieldNames(d.ChangedFields) {
			change := d.ChangedFields[field]
			oldText := fmt.Sprintf("%v", change.Old)
			newText := fmt.Sprintf("%v", change.New)
			if isMultiline(oldText) || isMultiline(newText) {
				fmt.Fprintf(w, "      %s:\n%s", field, indent(unifiedDiff(field, oldText, newText), "        "))
			} else {
				fmt.Fprintf(w, "      %s: %v %s %v\n", field, change.Old, arrow, change.New)
			}
		}
	}
	fmt.Fprintln(w)
}

func (cw *ConsoleWriter) painter() func(types.ChangeType, string) string {
	if cw.opts.NoColor {
		return func(_ types.ChangeType, s string) string { return s }
	}
	return func(ct types.ChangeType, s string) string {
		switch ct {
		case types.ChangeTypeAdded:
			return color.GreenString(s)
		case types.ChangeTypeRemoved:
			return color.RedString(s)
		case types.ChangeTypeModified:
			return color.YellowString(s)
		default:
			return s
		}
	}
}

func isMultiline(s string) bool {
	return strings.Contains(s, "\n")
}

// unifiedDiff renders a unified diff of two text blocks.
func unifiedDiff(field, oldText, newText string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: field + " (source)",
		ToFile:   field + " (target)",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("%s %s %s\n", oldText, arrow, newText)
	}
	return text
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
