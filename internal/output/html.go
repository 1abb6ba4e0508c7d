package output

import (
	"html/template"
	"io"

	"github.com/cjatools/cjadrift/pkg/types"
)

// HTMLWriter renders a standalone HTML report with rows tinted by change
// type.
type HTMLWriter struct {
	opts Options
}

type htmlSection struct {
	Label string
	Diffs []htmlDiff
}

type htmlDiff struct {
	ID         string
	Name       string
	ChangeType types.ChangeType
	Fields     []htmlField
}

type htmlField struct {
	Name string
	Old  string
	New  string
}

type htmlPage struct {
	Result   *types.DiffResult
	Sections []htmlSection
	Breaking []types.BreakingChange
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Data View Comparison</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; vertical-align: top; }
tr.added { background: #e6ffe6; }
tr.removed { background: #ffe6e6; }
tr.modified { background: #fff8dc; }
.severity-high { color: #c00; font-weight: bold; }
.severity-medium { color: #b8860b; font-weight: bold; }
</style>
</head>
<body>
<h1>Data View Comparison</h1>
<p>Source: {{.Result.SourceLabel}}<br>Target: {{.Result.TargetLabel}}<br>Generated: {{.Result.GeneratedAt}}</p>
<h2>Summary</h2>
<table>
<tr><th></th><th>Added</th><th>Removed</th><th>Modified</th><th>Unchanged</th></tr>
<tr><td>Metrics</td><td>{{.Result.Summary.Metrics.Added}}</td><td>{{.Result.Summary.Metrics.Removed}}</td><td>{{.Result.Summary.Metrics.Modified}}</td><td>{{.Result.Summary.Metrics.Unchanged}}</td></tr>
<tr><td>Dimensions</td><td>{{.Result.Summary.Dimensions.Added}}</td><td>{{.Result.Summary.Dimensions.Removed}}</td><td>{{.Result.Summary.Dimensions.Modified}}</td><td>{{.Result.Summary.Dimensions.Unchanged}}</td></tr>
</table>
{{if .Breaking}}
<h2>Breaking Changes</h2>
<table>
<tr><th>Severity</th><th>Component</th><th>Description</th></tr>
{{range .Breaking}}
<tr><td class="severity-{{.Severity}}">{{.Severity}}</td><td>{{.ComponentName}}</td><td>{{.Description}}</td></tr>
{{end}}
</table>
{{end}}
{{range .Sections}}
<h2>{{.Label}}</h2>
<table>
<tr><th>Change</th><th>ID</th><th>Name</th><th>Changed Fields</th></tr>
{{range .Diffs}}
<tr class="{{.ChangeType}}"><td>{{.ChangeType}}</td><td>{{.ID}}</td><td>{{.Name}}</td><td>
{{range .Fields}}{{.Name}}: {{.Old}} &rarr; {{.New}}<br>{{end}}
</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

func (hw *HTMLWriter) Write(result *types.DiffResult, w io.Writer) error {
	page := htmlPage{
		Result:   result,
		Breaking: hw.opts.Breaking,
		Sections: []htmlSection{
			{Label: "Metrics", Diffs: hw.toHTMLDiffs(result.MetricDiffs)},
			{Label: "Dimensions", Diffs: hw.toHTMLDiffs(result.DimensionDiffs)},
		},
	}
	return htmlReport.Execute(w, page)
}

func (hw *HTMLWriter) toHTMLDiffs(diffs []types.ComponentDiff) []htmlDiff {
	visible := visibleDiffs(diffs, hw.opts.ChangesOnly)
	out := make([]htmlDiff, 0, len(visible))
	for _, d := range visible {
		hd := htmlDiff{
			ID:         d.ID,
			Name:       d.Name,
			ChangeType: d.ChangeType,
		}
		for _, field := range sortedFieldNames(d.ChangedFields) {
			change := d.ChangedFields[field]
			hd.Fields = append(hd.Fields, htmlField{
				Name: field,
				Old:  csvCell(change.Old),
				New:  csvCell(change.New),
			})
		}
		out = append(out, hd)
	}
	return out
}
