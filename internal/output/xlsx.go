package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cjatools/cjadrift/pkg/types"
)

// XLSXWriter builds a spreadsheet workbook with a summary sheet and one
// color-coded sheet per component type.
type XLSXWriter struct {
	opts Options
}

// Row fill colors per change type.
const (
	fillAdded    = "C6EFCE"
	fillRemoved  = "FFC7CE"
	fillModified = "FFEB9C"
)

func (xw *XLSXWriter) Write(result *types.DiffResult, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := buildRowStyles(f)
	if err != nil {
		return err
	}

	if err := xw.writeSummarySheet(f, result); err != nil {
		return err
	}
	if err := xw.writeComponentSheet(f, "Metrics", result.MetricDiffs, styles); err != nil {
		return err
	}
	if err := xw.writeComponentSheet(f, "Dimensions", result.DimensionDiffs, styles); err != nil {
		return err
	}

	return f.Write(w)
}

func buildRowStyles(f *excelize.File) (map[types.ChangeType]int, error) {
	styles := make(map[types.ChangeType]int)
	for changeType, fill := range map[types.ChangeType]string{
		types.ChangeTypeAdded:    fillAdded,
		types.ChangeTypeRemoved:  fillRemoved,
		types.ChangeTypeModified: fillModified,
	} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		styles[changeType] = id
	}
	return styles, nil
}

func (xw *XLSXWriter) writeSummarySheet(f *excelize.File, result *types.DiffResult) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	summary := result.Summary
	rows := [][]any{
		{"Source", result.SourceLabel},
		{"Target", result.TargetLabel},
		{"Generated", result.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Tool version", result.ToolVersion},
		{},
		{"", "Added", "Removed", "Modified", "Unchanged", "Changed %"},
		{"Metrics", summary.Metrics.Added, summary.Metrics.Removed,
			summary.Metrics.Modified, summary.Metrics.Unchanged, summary.MetricsChangePercent()},
		{"Dimensions", summary.Dimensions.Added, summary.Dimensions.Removed,
			summary.Dimensions.Modified, summary.Dimensions.Unchanged, summary.DimensionsChangePercent()},
		{},
		{"Total changes", summary.TotalChanges()},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (xw *XLSXWriter) writeComponentSheet(f *excelize.File, sheet string, diffs []types.ComponentDiff, styles map[types.ChangeType]int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []any{"Change", "ID", "Name", "Changed Fields"}
	for j, value := range header {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}

	row := 2
	for _, d := range visibleDiffs(diffs, xw.opts.ChangesOnly) {
		values := []any{string(d.ChangeType), d.ID, d.Name, changedFieldsText(d)}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		if styleID, ok := styles[d.ChangeType]; ok {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(sheet, first, last, styleID); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

func changedFieldsText(d types.ComponentDiff) string {
	text := ""
	for _, field := range sortedFieldNames(d.ChangedFields) {
		change := d.ChangedFields[field]
		if text != "" {
			text += "; "
		}
		text += fmt.Sprintf("%s: %v -> %v", field, change.Old, change.New)
	}
	return text
}
