package export

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/score"
)

// csvHeader is the fixed column order of the department export.
var csvHeader = []string{
	"Department", "Score", "Rank", "Trend", "Employees",
	"Contract", "Personnel", "Budget",
}

// CSV renders the department table as CSV. The output starts with a UTF-8
// BOM so spreadsheet applications detect the encoding.
func CSV(snap *dataset.Snapshot) string {
	var b strings.Builder
	b.WriteString("\ufeff")

	w := csv.NewWriter(&b)
	w.Write(csvHeader) //nolint:errcheck
	for _, d := range snap.Departments {
		w.Write([]string{ //nolint:errcheck
			d.Name,
			strconv.FormatFloat(d.Score, 'f', 1, 64),
			strconv.Itoa(d.Rank),
			d.Trend,
			strconv.Itoa(d.EmployeeCount),
			strconv.FormatFloat(d.CategoryScores.Contract, 'f', 1, 64),
			strconv.FormatFloat(d.CategoryScores.Personnel, 'f', 1, 64),
			strconv.FormatFloat(d.CategoryScores.Budget, 'f', 1, 64),
		})
	}
	w.Flush()
	return b.String()
}

// CSVFilename returns the dated download name for a CSV export.
func CSVFilename(now time.Time) string {
	return "gongju_integrity_" + now.Format("2006-01-02") + ".csv"
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Gongju Integrity Index Report</title>
<style>
body { font-family: sans-serif; margin: 20px; }
.header { text-align: center; border-bottom: 2px solid #2E7D32; padding-bottom: 16px; }
.score-box { display: inline-block; padding: 8px 16px; background: #f0f9f0; border-radius: 8px; margin: 8px; }
table { width: 100%; border-collapse: collapse; margin: 16px 0; }
th, td { border: 1px solid #ddd; padding: 6px; text-align: center; }
th { background-color: #2E7D32; color: white; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<div class="header">
<h1>Gongju Integrity Index Dashboard</h1>
<p>Generated: {{.GeneratedAt}}</p>
</div>
<div style="text-align: center;">
<div class="score-box"><h2>{{printf "%.1f" .Index.TotalScore}} ({{.Index.Grade}})</h2></div>
<div class="score-box"><strong>Contract:</strong> {{printf "%.1f" .Index.Categories.Contract.Score}}</div>
<div class="score-box"><strong>Personnel:</strong> {{printf "%.1f" .Index.Categories.Personnel.Score}}</div>
<div class="score-box"><strong>Budget:</strong> {{printf "%.1f" .Index.Categories.Budget.Score}}</div>
</div>
<h3>Department Ranking</h3>
<table>
<thead><tr><th>Rank</th><th>Department</th><th>Score</th><th>Trend</th><th>Employees</th></tr></thead>
<tbody>
{{range .Departments}}<tr>
<td>{{.Rank}}</td><td>{{.Name}}</td><td>{{printf "%.1f" .Score}}</td><td>{{.Trend}}</td><td>{{.EmployeeCount}}</td>
</tr>
{{end}}</tbody>
</table>
<p>Average score: {{printf "%.1f" .Statistics.AverageScore}} across {{.Statistics.TotalDepartments}} departments.</p>
</body>
</html>
`))

type reportData struct {
	GeneratedAt string
	Index       dataset.IntegrationIndex
	Departments []dataset.Department
	Statistics  dataset.Statistics
}

// PrintableHTML renders a self-contained printable report page.
func PrintableHTML(snap *dataset.Snapshot, now time.Time) string {
	var b strings.Builder
	err := reportTmpl.Execute(&b, reportData{
		GeneratedAt: now.Format("2006-01-02 15:04"),
		Index:       snap.IntegrationIndex,
		Departments: snap.Departments,
		Statistics:  snap.Statistics,
	})
	if err != nil {
		// The template is static and the data plain structs; execution
		// cannot fail on well-typed input.
		return ""
	}
	return b.String()
}

// ShareText renders a plain-text summary suitable for messaging apps.
func ShareText(snap *dataset.Snapshot, now time.Time) string {
	var b strings.Builder
	idx := snap.IntegrationIndex
	fmt.Fprintf(&b, "Gongju Integrity Index (%s)\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total: %.1f (%s, %s)\n", idx.TotalScore, idx.Grade, score.GradeColorClass(idx.Grade))
	fmt.Fprintf(&b, "Contract %.1f / Personnel %.1f / Budget %.1f\n",
		idx.Categories.Contract.Score, idx.Categories.Personnel.Score, idx.Categories.Budget.Score)

	top := snap.Departments
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) > 0 {
		b.WriteString("Top departments:\n")
		for _, d := range top {
			fmt.Fprintf(&b, "  %d. %s %.1f (%s)\n", d.Rank, d.Name, d.Score, d.Trend)
		}
	}
	return b.String()
}
