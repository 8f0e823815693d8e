package engine

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/types"
)

// DefaultContextWidth is the number of bytes captured on each side of a match.
const DefaultContextWidth = 40

// ScanCategory runs one category over its trees. Files are visited
// sequentially in provider order; a bounded category stops once its budget
// of contributing files is spent, so its output depends on that order.
func ScanCategory(ctx context.Context, p *Provider, cat detectors.Category, width int) ([]types.Finding, error) {
	if width <= 0 {
		width = DefaultContextWidth
	}
	var out []types.Finding
	filesWithMatches := 0
	for _, tree := range cat.Trees {
		for u, err := range p.Units(ctx, tree) {
			if err != nil {
				return out, err
			}
			if !cat.Gated(u.Content) {
				continue
			}
			fs, matched := scanUnit(u, tree.Name, cat, width)
			out = append(out, fs...)
			if matched {
				filesWithMatches++
			}
			if cat.Budget != nil && cat.Budget.MaxFilesWithMatches > 0 && filesWithMatches >= cat.Budget.MaxFilesWithMatches {
				return out, nil
			}
		}
	}
	return out, nil
}

// scanUnit applies the category's rules and file checks to one unit. The
// second result reports whether any rule pattern occurred in the file, even
// when the per-file cap or a suppressed contextual rule kept it from
// producing findings.
func scanUnit(u types.SourceUnit, tree string, cat detectors.Category, width int) ([]types.Finding, bool) {
	var out []types.Finding
	matched := false
	perFile := 0
	if cat.Budget != nil {
		perFile = cat.Budget.MaxMatchesPerFile
	}
	count := 0
	for _, r := range cat.Rules {
		locs := r.Pattern.FindAllStringIndex(u.Content, -1)
		if len(locs) == 0 {
			continue
		}
		matched = true
		for _, loc := range locs {
			if perFile > 0 && count >= perFile {
				break
			}
			window := Window(u.Content, loc[0], loc[1], width)
			desc, ok := r.Describe(window)
			if !ok {
				continue
			}
			count++
			out = append(out, types.Finding{
				Category:    cat.ID,
				Type:        cat.Type,
				Severity:    r.Severity,
				Description: desc,
				Location:    u.Path,
				Line:        LineAt(u.Content, loc[0]),
				Context:     window,
			})
		}
	}
	for _, c := range cat.Checks {
		if c.Tree != "" && c.Tree != tree {
			continue
		}
		if c.Applies(u.Content) {
			out = append(out, types.Finding{
				Category:    cat.ID,
				Type:        cat.Type,
				Severity:    c.Severity,
				Description: c.Label,
				Location:    u.Path,
			})
		}
	}
	return out, matched
}

// Window returns content[start-width : end+width], clipped to the content
// and to rune boundaries, with surrounding whitespace trimmed.
func Window(content string, start, end, width int) string {
	lo := start - width
	if lo < 0 {
		lo = 0
	}
	hi := end + width
	if hi > len(content) {
		hi = len(content)
	}
	for lo > 0 && !utf8.RuneStart(content[lo]) {
		lo--
	}
	for hi < len(content) && !utf8.RuneStart(content[hi]) {
		hi++
	}
	return strings.TrimSpace(content[lo:hi])
}

// LineAt returns the 1-based line number of byte offset off.
func LineAt(content string, off int) int {
	if off > len(content) {
		off = len(content)
	}
	return strings.Count(content[:off], "\n") + 1
}
