package manifest

import (
	"context"
	"fmt"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/types"
)

// UsageContextWidth is the window captured around usage evidence.
const UsageContextWidth = 30

// UsageState classifies the outcome of usage correlation.
type UsageState int

const (
	UsageNoPatternSet UsageState = iota
	UsageNotObserved
	UsageObserved
)

func (s UsageState) String() string {
	switch s {
	case UsageObserved:
		return "observed"
	case UsageNotObserved:
		return "not-observed"
	default:
		return "no-pattern-set"
	}
}

// MarshalText encodes the state by name.
func (s UsageState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (s *UsageState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "observed":
		*s = UsageObserved
	case "not-observed":
		*s = UsageNotObserved
	case "no-pattern-set":
		*s = UsageNoPatternSet
	default:
		return fmt.Errorf("unknown usage state %q", b)
	}
	return nil
}

// Usage is the evidence gathered for one permission. Used is false whenever
// State is not UsageObserved, including when no pattern set exists.
type Usage struct {
	State      UsageState       `json:"state"`
	Used       bool             `json:"used"`
	UsageCount int              `json:"usage_count"`
	Evidence   []types.Evidence `json:"evidence"`
	ShortName  string           `json:"short_name"`
}

// Scanner runs a category exhaustively over the analysis root.
type Scanner interface {
	Scan(ctx context.Context, cat detectors.Category, width int) ([]types.Finding, error)
}

// Correlate fills the Usage of every capability. Permissions with a known
// API pattern become one rule each of a synthetic category, which s scans
// once; each match increments the usage count and the first MaxEvidence
// matches are kept as evidence.
func (m *Manifest) Correlate(ctx context.Context, s Scanner) error {
	cat := detectors.Category{
		ID:    types.CatPermissionUsage,
		Type:  "Permission Usage",
		Trees: []detectors.Tree{detectors.SourcesTree},
	}
	idx := map[string][]int{}
	for i := range m.Capabilities {
		c := &m.Capabilities[i]
		c.Usage = Usage{State: UsageNoPatternSet, ShortName: c.ShortName(), Evidence: []types.Evidence{}}
		if c.Custom {
			continue
		}
		re, ok := detectors.UsagePattern(c.Name)
		if !ok {
			continue
		}
		c.Usage.State = UsageNotObserved
		if _, dup := idx[c.Name]; !dup {
			cat.Rules = append(cat.Rules, detectors.Rule{ID: c.Name, Pattern: re, Label: c.Name, Severity: types.SevInfo})
		}
		idx[c.Name] = append(idx[c.Name], i)
	}
	if len(cat.Rules) == 0 {
		return nil
	}
	fs, err := s.Scan(ctx, cat, UsageContextWidth)
	if err != nil {
		return err
	}
	for _, f := range fs {
		for _, i := range idx[f.Description] {
			u := &m.Capabilities[i].Usage
			u.State = UsageObserved
			u.Used = true
			u.UsageCount++
			if len(u.Evidence) < types.MaxEvidence {
				u.Evidence = append(u.Evidence, types.Evidence{File: f.Location, Context: f.Context})
			}
		}
	}
	return nil
}

// Unused returns the requested capabilities of class cl that were not
// observed in code, in declaration order.
func (m *Manifest) Unused(cl detectors.PermissionClass) []Capability {
	var out []Capability
	for _, c := range m.Capabilities {
		if c.Kind == KindRequested && c.Class == cl && !c.Usage.Used {
			out = append(out, c)
		}
	}
	return out
}
