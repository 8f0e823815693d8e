package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/droidaudit/droidaudit/internal/types"
)

// Baseline is a set of accepted findings keyed by Key.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

// Key identifies a finding independently of its line number, so edits
// above a finding do not resurrect it.
func Key(f types.Finding) string {
	return f.Location + "|" + f.Type + "|" + f.Description + "|" + f.Context
}

// Fingerprint is a short stable hash of Key.
func Fingerprint(f types.Finding) string {
	return strconv.FormatUint(xxhash.Sum64String(Key(f)), 16)
}

// LoadBaseline reads a baseline file. A missing file yields an empty
// baseline and an error matching fs.ErrNotExist.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// LoadBaselineIfExists is LoadBaseline without the missing-file error.
func LoadBaselineIfExists(path string) (Baseline, error) {
	b, err := LoadBaseline(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	return b, err
}

// SaveBaseline writes the keys of findings to path.
func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[Key(f)] = true
	}
	return b.Save(path)
}

// Save writes the baseline to path.
func (b Baseline) Save(path string) error {
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(buf, '\n'), 0o644)
}

// Set adds or removes f. b must come from LoadBaseline or have Items set.
func (b Baseline) Set(f types.Finding, accepted bool) {
	if accepted {
		b.Items[Key(f)] = true
		return
	}
	delete(b.Items, Key(f))
}

// Contains reports whether f is accepted by the baseline.
func (b Baseline) Contains(f types.Finding) bool {
	return b.Items[Key(f)]
}

// Keys returns the baseline entries sorted.
func (b Baseline) Keys() []string {
	out := make([]string, 0, len(b.Items))
	for k, ok := range b.Items {
		if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// FilterNewFindings drops the findings present in base.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Contains(f) {
			out = append(out, f)
		}
	}
	return out
}

// ShouldFail reports whether any finding is at or above the failOn
// severity. Unrecognised levels select medium; "none" never fails.
func ShouldFail(findings []types.Finding, failOn string) bool {
	if failOn == "none" {
		return false
	}
	th := types.ParseSeverity(failOn).Rank()
	if th == 0 {
		th = types.SevMedium.Rank()
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th {
			return true
		}
	}
	return false
}
