package report

import (
	"embed"
	"html/template"
	"io"
	"sort"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/types"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"sevClass": func(s types.Severity) string {
		switch s {
		case types.SevHigh:
			return "high"
		case types.SevMedium:
			return "medium"
		case types.SevLow:
			return "low"
		case types.SevInfo:
			return "info"
		}
		return "unknown"
	},
}).ParseFS(templateFS, "templates/report.html.tmpl"))

type severityCount struct {
	Severity types.Severity
	Count    int
}

type categoryBar struct {
	Name    string
	Count   int
	Percent int
}

type issueGroup struct {
	Type     string
	Findings []types.Finding
}

type htmlView struct {
	*analysis.Report
	Severities []severityCount
	Categories []categoryBar
	Issues     []issueGroup
}

func newHTMLView(r *analysis.Report) htmlView {
	v := htmlView{Report: r}
	for _, s := range types.Severities {
		if s == types.SevUnknown && r.Summary.BySeverity[s] == 0 {
			continue
		}
		v.Severities = append(v.Severities, severityCount{Severity: s, Count: r.Summary.BySeverity[s]})
	}

	for name, n := range r.Summary.ByCategory {
		pct := 0
		if r.Summary.Total > 0 {
			pct = n * 100 / r.Summary.Total
		}
		v.Categories = append(v.Categories, categoryBar{Name: name, Count: n, Percent: pct})
	}
	sort.Slice(v.Categories, func(i, j int) bool {
		if v.Categories[i].Count != v.Categories[j].Count {
			return v.Categories[i].Count > v.Categories[j].Count
		}
		return v.Categories[i].Name < v.Categories[j].Name
	})

	idx := map[string]int{}
	for _, f := range r.Findings {
		i, ok := idx[f.Type]
		if !ok {
			i = len(v.Issues)
			idx[f.Type] = i
			v.Issues = append(v.Issues, issueGroup{Type: f.Type})
		}
		v.Issues[i].Findings = append(v.Issues[i].Findings, f)
	}
	return v
}

// WriteHTML renders the report as a self-contained HTML page with summary,
// issue, permission, library and defense tabs.
func WriteHTML(w io.Writer, r *analysis.Report) error {
	return htmlTemplate.Execute(w, newHTMLView(r))
}
