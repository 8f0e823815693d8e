package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/types"
)

type permissionsFile struct {
	Permissions struct {
		Dangerous []string `json:"dangerous"`
		Signature []string `json:"signature"`
		Normal    []string `json:"normal"`
		Custom    []string `json:"custom"`
	} `json:"permissions"`
	Usage  map[string]manifest.Usage `json:"usage"`
	Issues []types.Finding           `json:"issues"`
}

// WriteResultsDir writes one JSON file per analyzer group into dir and
// returns the written file names, sorted. Plain groups hold a finding
// list; permissions.json and third_party.json hold composite documents.
func WriteResultsDir(dir string, r *analysis.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	docs := map[string]any{}
	for g, fs := range r.FindingGroups() {
		docs[g] = fs
	}

	var pf permissionsFile
	pf.Permissions.Dangerous = r.Permissions.Dangerous
	pf.Permissions.Signature = r.Permissions.Signature
	pf.Permissions.Normal = r.Permissions.Normal
	pf.Permissions.Custom = r.Permissions.Custom
	pf.Usage = map[string]manifest.Usage{}
	for _, c := range r.Permissions.Capabilities {
		if c.Kind == manifest.KindRequested {
			pf.Usage[c.Name] = c.Usage
		}
	}
	pf.Issues = r.Permissions.Issues
	docs[analysis.GroupPermissions] = pf
	docs[analysis.GroupThirdParty] = r.Libraries

	names := make([]string, 0, len(docs))
	for g := range docs {
		names = append(names, g)
	}
	sort.Strings(names)
	written := make([]string, 0, len(names))
	for _, g := range names {
		buf, err := json.MarshalIndent(docs[g], "", "  ")
		if err != nil {
			return written, fmt.Errorf("encode %s: %w", g, err)
		}
		name := g + ".json"
		if err := os.WriteFile(filepath.Join(dir, name), append(buf, '\n'), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}
