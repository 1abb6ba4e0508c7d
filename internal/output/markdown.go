package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/cjatools/cjadrift/pkg/types"
)

// MarkdownWriter renders the diff as a Markdown document with one table
// per component type.
type MarkdownWriter struct {
	opts Options
}

func (mw *MarkdownWriter) Write(result *types.DiffResult, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# Data View Comparison\n\n")
	sb.WriteString(fmt.Sprintf("- **Source**: %s\n", result.SourceLabel))
	sb.WriteString(fmt.Sprintf("- **Target**: %s\n", result.TargetLabel))
	sb.WriteString(fmt.Sprintf("- **Generated**: %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	writeMarkdownSummary(&sb, result)

	if result.Metadata.HasChanges() {
		sb.WriteString("## Data View Settings\n\n")
		sb.WriteString("| Field | Old | New |\n")
		sb.WriteString("|-------|-----|-----|\n")
		for _, field := range sortedFieldNames(result.Metadata.ChangedFields) {
			change := result.Metadata.ChangedFields[field]
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				field, mdCell(change.Old), mdCell(change.New)))
		}
		sb.WriteString("\n")
	}

	mw.writeTable(&sb, "Metrics", result.MetricDiffs)
	mw.writeTable(&sb, "Dimensions", result.DimensionDiffs)

	if len(mw.opts.Breaking) > 0 {
		sb.WriteString("## Breaking Changes\n\n")
		sb.WriteString("| Severity | Component | Change |\n")
		sb.WriteString("|----------|-----------|--------|\n")
		for _, bc := range mw.opts.Breaking {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				bc.Severity, bc.ComponentName, bc.Description))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (mw *MarkdownWriter) writeTable(sb *strings.Builder, label string, diffs []types.ComponentDiff) {
	visible := visibleDiffs(diffs, mw.opts.ChangesOnly)
	if len(visible) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("## %s\n\n", label))
	sb.WriteString("| Change | ID | Name | Changed Fields |\n")
	sb.WriteString("|--------|----|------|----------------|\n")
	for _, d := range visible {
		sb.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s |\n",
			d.ChangeType, d.ID, mdEscape(d.Name), changedFieldsCell(d)))
	}
	sb.WriteString("\n")
}

func writeMarkdownSummary(sb *strings.Builder, result *types.DiffResult) {
	summary := result.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| | Added | Removed | Modified | Unchanged | Changed % |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Metrics | %d | %d | %d | %d | %.1f%% |\n",
		summary.Metrics.Added, summary.Metrics.Removed, summary.Metrics.Modified,
		summary.Metrics.Unchanged, summary.MetricsChangePercent()))
	sb.WriteString(fmt.Sprintf("| Dimensions | %d | %d | %d | %d | %.1f%% |\n",
		summary.Dimensions.Added, summary.Dimensions.Removed, summary.Dimensions.Modified,
		summary.Dimensions.Unchanged, summary.DimensionsChangePercent()))
	sb.WriteString(fmt.Sprintf("\n**Total changes**: %d\n\n", summary.TotalChanges()))
}

func changedFieldsCell(d types.ComponentDiff) string {
	if len(d.ChangedFields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(d.ChangedFields))
	for _, field := range sortedFieldNames(d.ChangedFields) {
		change := d.ChangedFields[field]
		parts = append(parts, fmt.Sprintf("%s: %s → %s",
			field, mdCell(change.Old), mdCell(change.New)))
	}
	return strings.Join(parts, "<br>")
}

func mdCell(v any) string {
	if v == nil {
		return "_(none)_"
	}
	return mdEscape(fmt.Sprintf("%v", v))
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
