package report

import (
	"io"
	"strings"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/owenrumney/go-sarif/v2/sarif"
)

const informationURI = "https://github.com/droidaudit/droidaudit"

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "error"
	case types.SevMedium:
		return "warning"
	case types.SevLow, types.SevInfo:
		return "note"
	default:
		return "none"
	}
}

// RuleID names the SARIF rule of a finding: its category and type.
func RuleID(f types.Finding) string {
	slug := strings.ToLower(strings.Join(strings.Fields(f.Type), "-"))
	if f.Category == "" {
		return slug
	}
	return string(f.Category) + "/" + slug
}

// WriteSARIF writes the report as SARIF 2.1.0. Each category/type pair
// becomes one rule; findings without a line carry only the artifact.
func WriteSARIF(w io.Writer, r *analysis.Report) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI(analysis.ToolName, informationURI)
	rules := map[string]bool{}
	for _, f := range r.Findings {
		id := RuleID(f)
		if !rules[id] {
			rules[id] = true
			run.AddRule(id).
				WithDescription(f.Type).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: sevToLevel(f.Severity),
				})
		}
		region := sarif.NewRegion()
		if f.Line > 0 {
			region = region.WithStartLine(f.Line)
		}
		if f.Context != "" {
			text := f.Context
			region.Snippet = &sarif.ArtifactContent{Text: &text}
		}
		loc := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.Location)).
				WithRegion(region),
		)
		result := sarif.NewRuleResult(id).
			WithMessage(sarif.NewTextMessage(f.Description)).
			WithLevel(sevToLevel(f.Severity)).
			WithLocations([]*sarif.Location{loc})
		result.PartialFingerprints = map[string]interface{}{"droidaudit/v1": Fingerprint(f)}
		result.PropertyBag = *sarif.NewPropertyBag()
		result.Add("severity", string(f.Severity))
		if f.Category != "" {
			result.Add("category", string(f.Category))
		}
		run.AddResult(result)
	}
	doc.AddRun(run)
	return doc.PrettyWrite(w)
}
