package detectors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/droidaudit/droidaudit/internal/types"
)

// ErrInvalidRule is returned when a user rule cannot be added to the catalog.
var ErrInvalidRule = errors.New("invalid rule")

const groupCustom = "custom_rules"

// RuleSpec is a user-supplied simple rule. A rule naming an existing
// category is appended to it; otherwise a new category is created using
// Type as its finding type.
type RuleSpec struct {
	ID            string
	Category      string
	Type          string
	Pattern       string
	Description   string
	Severity      string
	CaseSensitive bool
}

// AddRules compiles specs and appends them to the registry. Nothing is added
// when any spec is invalid.
func (r *Registry) AddRules(specs []RuleSpec) error {
	type pending struct {
		cat  types.Category
		typ  string
		rule Rule
	}
	var add []pending
	for i, s := range specs {
		if strings.TrimSpace(s.Pattern) == "" || strings.TrimSpace(s.Description) == "" {
			return fmt.Errorf("%w: rule %d needs a pattern and a description", ErrInvalidRule, i)
		}
		sev := types.ParseSeverity(s.Severity)
		if s.Severity == "" {
			sev = types.SevMedium
		}
		if !sev.Known() {
			return fmt.Errorf("%w: rule %d: unknown severity %q", ErrInvalidRule, i, s.Severity)
		}
		src := s.Pattern
		if !s.CaseSensitive {
			src = "(?i)" + src
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return fmt.Errorf("%w: rule %d: %v", ErrInvalidRule, i, err)
		}
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("custom-%d", i+1)
		}
		cat := types.Category(s.Category)
		if cat == "" {
			cat = "custom"
		}
		add = append(add, pending{cat: cat, typ: s.Type, rule: Rule{ID: id, Pattern: re, Label: s.Description, Severity: sev}})
	}
	for _, p := range add {
		r.appendRule(p.cat, p.typ, p.rule)
	}
	return nil
}

func (r *Registry) appendRule(cat types.Category, typ string, rule Rule) {
	for i := range r.categories {
		if r.categories[i].ID == cat {
			r.categories[i].Rules = append(r.categories[i].Rules, rule)
			return
		}
	}
	if typ == "" {
		typ = "Custom Rule"
	}
	r.categories = append(r.categories, Category{
		ID:    cat,
		Type:  typ,
		Group: groupCustom,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{rule},
	})
}
