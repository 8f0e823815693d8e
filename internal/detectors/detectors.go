package detectors

import (
	"sort"
	"strings"

	"github.com/droidaudit/droidaudit/internal/types"
)

// Registry is the ordered catalog of detector categories. Report order
// follows catalog order, so the registry is the single source of it.
type Registry struct {
	categories []Category
}

// Default builds the built-in catalog.
func Default() *Registry {
	return New(
		logging(),
		memory(),
		authentication(),
		cryptography(),
		storage(),
		keyboardCache(),
		webView(),
		screenSecurity(),
		hardcodedSecrets(),
		antiTampering(),
		rootDetection(),
		emulatorDetection(),
		debuggerDetection(),
	)
}

// New builds a registry from the given categories, in order.
func New(cats ...Category) *Registry {
	return &Registry{categories: append([]Category(nil), cats...)}
}

// Categories returns the catalog in order.
func (r *Registry) Categories() []Category {
	return append([]Category(nil), r.categories...)
}

// IDs lists category IDs in catalog order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.categories))
	for _, c := range r.categories {
		ids = append(ids, string(c.ID))
	}
	return ids
}

// IDs lists the built-in category IDs.
func IDs() []string { return Default().IDs() }

// Lookup finds a category by ID.
func (r *Registry) Lookup(id types.Category) (Category, bool) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// GroupOf returns the result group of a category, or "" when unknown.
func (r *Registry) GroupOf(id types.Category) string {
	if c, ok := r.Lookup(id); ok {
		return c.Group
	}
	return ""
}

// RuleCount reports the number of rules and file checks across the catalog.
func (r *Registry) RuleCount() int {
	n := 0
	for _, c := range r.categories {
		n += len(c.Rules) + len(c.Checks)
	}
	return n
}

// Filter keeps categories named in enable (all when empty) and drops those
// named in disable. Both are comma-separated ID lists.
func (r *Registry) Filter(enable, disable string) *Registry {
	allow := idSet(enable)
	deny := idSet(disable)
	out := &Registry{}
	for _, c := range r.categories {
		if len(allow) > 0 && !allow[string(c.ID)] {
			continue
		}
		if deny[string(c.ID)] {
			continue
		}
		out.categories = append(out.categories, c)
	}
	return out
}

// SetBudget replaces the budget of a bounded category. It is a no-op when
// the category is unknown or unbounded.
func (r *Registry) SetBudget(id types.Category, b Budget) {
	for i, c := range r.categories {
		if c.ID == id && c.Budget != nil {
			bb := b
			r.categories[i].Budget = &bb
		}
	}
}

func idSet(list string) map[string]bool {
	m := map[string]bool{}
	for _, id := range strings.Split(list, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			m[id] = true
		}
	}
	return m
}

// Groups returns the distinct result groups of the catalog, sorted.
func (r *Registry) Groups() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range r.categories {
		if c.Group != "" && !seen[c.Group] {
			seen[c.Group] = true
			out = append(out, c.Group)
		}
	}
	sort.Strings(out)
	return out
}
