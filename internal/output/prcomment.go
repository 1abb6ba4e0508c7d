package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/cjatools/cjadrift/pkg/types"
)

// PRCommentWriter renders a condensed Markdown form meant to be posted as
// a pull-request comment: a summary line up front, details behind
// collapsible sections.
type PRCommentWriter struct {
	opts Options
}

func (pw *PRCommentWriter) Write(result *types.DiffResult, w io.Writer) error {
	var sb strings.Builder

	summary := result.Summary
	if !summary.HasChanges() && !result.Metadata.HasChanges() {
		sb.WriteString("### Data view comparison: no changes\n\n")
		sb.WriteString(fmt.Sprintf("`%s` matches `%s`.\n", result.TargetLabel, result.SourceLabel))
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString(fmt.Sprintf("### Data view comparison: %d change(s)\n\n", summary.TotalChanges()))
	sb.WriteString(fmt.Sprintf("Metrics: **+%d / -%d / ~%d** · Dimensions: **+%d / -%d / ~%d**\n\n",
		summary.Metrics.Added, summary.Metrics.Removed, summary.Metrics.Modified,
		summary.Dimensions.Added, summary.Dimensions.Removed, summary.Dimensions.Modified))

	if len(pw.opts.Breaking) > 0 {
		sb.WriteString(fmt.Sprintf("> ⚠️ **%d breaking change(s) detected**\n\n", len(pw.opts.Breaking)))
		for _, bc := range pw.opts.Breaking {
			sb.WriteString(fmt.Sprintf("> - [%s] %s\n", bc.Severity, bc.Description))
		}
		sb.WriteString("\n")
	}

	pw.writeSection(&sb, "Metrics", result.MetricDiffs)
	pw.writeSection(&sb, "Dimensions", result.DimensionDiffs)

	_, err := io.WriteString(w, sb.String())
	return err
}

func (pw *PRCommentWriter) writeSection(sb *strings.Builder, label string, diffs []types.ComponentDiff) {
	changed := visibleDiffs(diffs, true)
	if len(changed) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("<details>\n<summary>%s (%d changed)</summary>\n\n", label, len(changed)))
	for _, d := range changed {
		sb.WriteString(fmt.Sprintf("- `%s` **%s** (%s)\n", d.ChangeType.Symbol(), mdEscape(d.Name), d.ID))
		for _, field := range sortedFieldNames(d.ChangedFields) {
			change := d.ChangedFields[field]
			sb.WriteString(fmt.Sprintf("  - %s: %s → %s\n", field, mdCell(change.Old), mdCell(change.New)))
		}
	}
	sb.WriteString("\n</details>\n\n")
}
