package detectors

import (
	"regexp"
	"strings"

	"github.com/droidaudit/droidaudit/internal/types"
)

// Kind distinguishes rules that always emit from rules whose emission
// depends on the text surrounding the match.
type Kind int

const (
	KindSimple Kind = iota
	KindContextual
)

func (k Kind) String() string {
	if k == KindContextual {
		return "contextual"
	}
	return "simple"
}

// Escalation decides the fate of a contextual match. Markers are matched
// case-sensitively against the context window.
type Escalation struct {
	Insecure []string
	Secure   []string
	Label    string
}

// Rule is one regular-expression heuristic. Patterns are compiled
// case-insensitive unless the rule says otherwise.
type Rule struct {
	ID         string
	Pattern    *regexp.Regexp
	Label      string
	Severity   types.Severity
	Kind       Kind
	Escalation *Escalation
}

// Describe returns the finding description for a match whose context window
// is ctx, and false when the match must be suppressed.
func (r Rule) Describe(ctx string) (string, bool) {
	if r.Kind != KindContextual || r.Escalation == nil {
		return r.Label, true
	}
	e := r.Escalation
	if containsAny(ctx, e.Insecure) || !containsAny(ctx, e.Secure) {
		return e.Label, true
	}
	return "", false
}

// FileCheck is a whole-file heuristic. It produces at most one finding per
// file, without a line or context.
type FileCheck struct {
	ID       string
	Tree     string
	Label    string
	Severity types.Severity
	Applies  func(content string) bool
}

// Budget caps a bounded category. Zero values mean unlimited.
type Budget struct {
	MaxMatchesPerFile   int
	MaxFilesWithMatches int
}

// Tree names a subtree of the decompiled output and the file extensions
// that are candidates within it.
type Tree struct {
	Name string
	Dir  string
	Exts []string
}

var (
	SourcesTree = Tree{Name: "sources", Dir: "sources", Exts: []string{".java", ".kt"}}
	LayoutsTree = Tree{Name: "layouts", Dir: "resources/res/layout", Exts: []string{".xml"}}
)

// Category is an ordered group of rules and file checks sharing a finding
// type. Gate, when set, restricts the category to files containing every
// listed substring.
type Category struct {
	ID     types.Category
	Type   string
	Group  string
	Trees  []Tree
	Gate   []string
	Rules  []Rule
	Checks []FileCheck
	Budget *Budget
}

// Bounded reports whether the category stops early.
func (c Category) Bounded() bool {
	return c.Budget != nil && (c.Budget.MaxMatchesPerFile > 0 || c.Budget.MaxFilesWithMatches > 0)
}

// Gated reports whether content passes the category gate.
func (c Category) Gated(content string) bool {
	for _, g := range c.Gate {
		if !strings.Contains(content, g) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func ci(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + pattern)
}

func simple(id, pattern, label string, sev types.Severity) Rule {
	return Rule{ID: id, Pattern: ci(pattern), Label: label, Severity: sev}
}
