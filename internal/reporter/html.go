package reporter

import (
	"html/template"
	"io"

	"github.com/ppiankov/revizor/internal/review"
)

// HTMLFormatter renders a self-contained HTML page with no external assets,
// so the file can be opened from disk or attached to a ticket.
type HTMLFormatter struct{}

func NewHTMLFormatter() *HTMLFormatter { return &HTMLFormatter{} }

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>revizor report — {{.Path}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 72rem; color: #1f2430; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.05rem; margin: 1.5rem 0 0.4rem; font-family: ui-monospace, monospace; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1rem 0; }
.card { border: 1px solid #d8dce5; border-radius: 6px; padding: 0.7rem 1.2rem; min-width: 8rem; }
.card .num { font-size: 1.6rem; font-weight: 700; }
.card .label { color: #667085; font-size: 0.8rem; }
table { border-collapse: collapse; width: 100%; font-size: 0.88rem; }
th, td { text-align: left; padding: 0.35rem 0.6rem; border-bottom: 1px solid #eceef2; vertical-align: top; }
th { color: #667085; font-weight: 600; }
.sev { font-weight: 700; font-size: 0.75rem; padding: 0.1rem 0.45rem; border-radius: 4px; white-space: nowrap; }
.sev-critical { background: #7a1020; color: #fff; }
.sev-high { background: #d92d20; color: #fff; }
.sev-medium { background: #f79009; color: #fff; }
.sev-low { background: #98a2b3; color: #fff; }
.src-ai { color: #175cd3; font-size: 0.75rem; }
.meta, .warn { color: #667085; font-size: 0.85rem; }
.warn { color: #b54708; }
.sugg { color: #475467; font-style: italic; }
</style>
</head>
<body>
<h1>revizor report</h1>
<p class="meta">{{.Path}} — {{.Timestamp.Format "2006-01-02 15:04:05"}} — {{.Duration}}</p>

<div class="cards">
  <div class="card"><div class="num">{{.FilesReviewed}}</div><div class="label">files reviewed</div></div>
  <div class="card"><div class="num">{{.IssuesFound}}</div><div class="label">issues found</div></div>
  <div class="card"><div class="num">{{.SecurityIssues}}</div><div class="label">security</div></div>
  <div class="card"><div class="num">{{.QualityIssues}}</div><div class="label">quality</div></div>
  <div class="card"><div class="num">{{.PerformanceIssues}}</div><div class="label">performance</div></div>
</div>

{{range .Warnings}}<p class="warn">⚠ {{.}}</p>{{end}}

{{range .Files}}{{if .Issues}}
<h2>{{.Path}}</h2>
<p class="meta">{{.Language}} — {{.Metrics.Lines}} lines, {{.Metrics.Functions}} functions</p>
<table>
<tr><th>Line</th><th>Severity</th><th>Category</th><th>Issue</th></tr>
{{range .Issues}}
<tr>
  <td>{{if .Line}}{{.Line}}{{else}}–{{end}}</td>
  <td><span class="sev sev-{{.Severity}}">{{.Severity}}</span></td>
  <td>{{.Category}}{{if eq .Source "ai"}} <span class="src-ai">[ai]</span>{{end}}</td>
  <td>{{.Message}}{{if .Suggestion}}<br><span class="sugg">→ {{.Suggestion}}</span>{{end}}</td>
</tr>
{{end}}
</table>
{{end}}{{end}}

{{if eq .IssuesFound 0}}<p>No issues found.</p>{{end}}
</body>
</html>
`))

func (f *HTMLFormatter) Format(w io.Writer, r *review.Report) error {
	return htmlTmpl.Execute(w, r)
}
