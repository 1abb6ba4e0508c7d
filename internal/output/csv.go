package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cjatools/cjadrift/pkg/types"
)

// CSVWriter emits one row per changed field, and a single row for added or
// removed components.
type CSVWriter struct {
	opts Options
}

func (cw *CSVWriter) Write(result *types.DiffResult, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"component_type", "id", "name", "change_type", "field", "old_value", "new_value"}); err != nil {
		return err
	}

	if err := cw.writeRows(writer, "metric", result.MetricDiffs); err != nil {
		return err
	}
	if err := cw.writeRows(writer, "dimension", result.DimensionDiffs); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func (cw *CSVWriter) writeRows(writer *csv.Writer, componentType string, diffs []types.ComponentDiff) error {
	for _, d := range visibleDiffs(diffs, cw.opts.ChangesOnly) {
		if len(d.ChangedFields) == 0 {
			row := []string{componentType, d.ID, d.Name, string(d.ChangeType), "", "", ""}
			if err := writer.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, field := range sortedFieldNames(d.ChangedFields) {
			change := d.ChangedFields[field]
			row := []string{
				componentType, d.ID, d.Name, string(d.ChangeType),
				field, csvCell(change.Old), csvCell(change.New),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvCell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
