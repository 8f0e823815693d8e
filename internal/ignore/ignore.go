package ignore

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up at the analysis root.
const FileName = ".droidauditignore"

// Matcher reports whether a slash-separated relative path is ignored.
// The zero value ignores nothing.
type Matcher struct {
	dirs     []string
	patterns []string
}

// Load reads an ignore file. Blank lines and lines starting with '#' are
// skipped. A trailing '/' ignores a directory prefix, a pattern without '/'
// matches the base name at any depth, anything else is a doublestar glob
// against the whole path.
func Load(p string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(p)
	if err != nil {
		return m, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m.Add(sc.Text())
	}
	return m, sc.Err()
}

// Add appends one pattern line.
func (m *Matcher) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	line = strings.TrimPrefix(line, "/")
	if strings.HasSuffix(line, "/") {
		m.dirs = append(m.dirs, line)
		return
	}
	m.patterns = append(m.patterns, line)
}

// Match reports whether rel is ignored.
func (m Matcher) Match(rel string) bool {
	for _, d := range m.dirs {
		if strings.HasPrefix(rel, d) || strings.Contains(rel, "/"+d) {
			return true
		}
	}
	base := path.Base(rel)
	for _, p := range m.patterns {
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Append ensures pattern is a line of the ignore file at root, creating the
// file when missing. It is idempotent.
func Append(root, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	p := filepath.Join(root, FileName)
	existing := map[string]bool{}
	needsNewline := false
	if b, err := os.ReadFile(p); err == nil {
		for _, line := range strings.Split(string(b), "\n") {
			existing[strings.TrimSpace(line)] = true
		}
		needsNewline = len(b) > 0 && b[len(b)-1] != '\n'
	}
	if existing[pattern] {
		return nil
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if needsNewline {
		pattern = "\n" + pattern
	}
	_, err = f.WriteString(pattern + "\n")
	return err
}

// GeneratedPatterns are decompiler outputs that hold no app logic: resource
// ID tables and build constants.
func GeneratedPatterns() []string {
	return []string{
		"R.java",
		"R$*.java",
		"BuildConfig.java",
	}
}
