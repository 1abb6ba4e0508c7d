package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/cjatools/cjadrift/pkg/types"
)

// Format names an output format.
type Format string

const (
	FormatConsole   Format = "console"
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
	FormatMarkdown  Format = "markdown"
	FormatPRComment Format = "pr-comment"
	FormatHTML      Format = "html"
	FormatCSV       Format = "csv"
	FormatXLSX      Format = "xlsx"
)

// Writer renders a finished diff result to a destination. Writers consume
// the result as given: they read change types, changed fields, and summary
// counts but never re-run comparison or normalization.
type Writer interface {
	Write(result *types.DiffResult, w io.Writer) error
}

// Options adjusts rendering across writers.
type Options struct {
	// NoColor disables ANSI coloring on the console writer.
	NoColor bool

	// ChangesOnly drops unchanged components from the rendered lists.
	// The filter is exactly ChangeType == unchanged; summary counts are
	// printed as given.
	ChangesOnly bool

	// Breaking is the classifier's output, rendered by the writers that
	// have a breaking-changes section. Writers never derive this
	// themselves.
	Breaking []types.BreakingChange
}

// NewWriter returns the writer for the named format.
func NewWriter(format Format, opts Options) (Writer, error) {
	switch format {
	case FormatConsole, "":
		return &ConsoleWriter{opts: opts}, nil
	case FormatJSON:
		return &JSONWriter{}, nil
	case FormatYAML:
		return &YAMLWriter{}, nil
	case FormatMarkdown:
		return &MarkdownWriter{opts: opts}, nil
	case FormatPRComment:
		return &PRCommentWriter{opts: opts}, nil
	case FormatHTML:
		return &HTMLWriter{opts: opts}, nil
	case FormatCSV:
		return &CSVWriter{opts: opts}, nil
	case FormatXLSX:
		return &XLSXWriter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// sortedFieldNames returns the keys of a changed-fields map in stable
// order for rendering.
func sortedFieldNames(fields map[string]types.FieldChange) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// visibleDiffs applies the changes-only filter.
func visibleDiffs(diffs []types.ComponentDiff, changesOnly bool) []types.ComponentDiff {
	if !changesOnly {
		return diffs
	}
	kept := make([]types.ComponentDiff, 0, len(diffs))
	for _, d := range diffs {
		if d.ChangeType != types.ChangeTypeUnchanged {
			kept = append(kept, d)
		}
	}
	return kept
}
