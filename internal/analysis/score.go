package analysis

import "github.com/droidaudit/droidaudit/internal/types"

// Risk score weights. INFO findings do not count.
const (
	riskHigh   = 10
	riskMedium = 5
	riskLow    = 2
)

// Defense score weights per finding of each defense category.
const (
	defenseSignature = 15
	defenseRoot      = 15
	defenseEmulator  = 10
	defenseDebugger  = 10
)

// Summarize builds the severity, category and type histograms.
func Summarize(fs []types.Finding) Summary {
	s := Summary{
		Total:      len(fs),
		BySeverity: map[types.Severity]int{},
		ByCategory: map[string]int{},
		ByType:     map[string]int{},
	}
	for _, sev := range types.Severities {
		s.BySeverity[sev] = 0
	}
	for _, f := range fs {
		sev := f.Severity
		if !sev.Known() {
			sev = types.SevUnknown
		}
		s.BySeverity[sev]++
		if f.Category != "" {
			s.ByCategory[string(f.Category)]++
		}
		s.ByType[f.Type]++
	}
	return s
}

// RiskScore starts at 100 and subtracts a weight per HIGH, MEDIUM and LOW
// finding, with a floor of 0.
func RiskScore(s Summary) Score {
	v := 100 - riskHigh*s.BySeverity[types.SevHigh] -
		riskMedium*s.BySeverity[types.SevMedium] -
		riskLow*s.BySeverity[types.SevLow]
	if v < 0 {
		v = 0
	}
	return Score{Value: v, Rating: riskRating(v)}
}

func riskRating(v int) string {
	switch {
	case v >= 70:
		return "Good"
	case v >= 40:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

// DefenseScore weighs the defensive mechanisms found in code, capped at 100.
func DefenseScore(fs []types.Finding) Defense {
	var d Defense
	for _, f := range fs {
		switch f.Category {
		case types.CatAntiTampering:
			d.Signature++
		case types.CatRootDetection:
			d.Root++
		case types.CatEmulatorDetect:
			d.Emulator++
		case types.CatDebuggerDetect:
			d.Debugger++
		}
	}
	v := defenseSignature*d.Signature + defenseRoot*d.Root +
		defenseEmulator*d.Emulator + defenseDebugger*d.Debugger
	if v > 100 {
		v = 100
	}
	d.Score = Score{Value: v, Rating: defenseRating(v)}
	return d
}

func defenseRating(v int) string {
	switch {
	case v >= 60:
		return "Strong"
	case v >= 30:
		return "Moderate"
	default:
		return "Weak"
	}
}
