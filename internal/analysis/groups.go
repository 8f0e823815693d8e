package analysis

import (
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/types"
)

// Result groups of the per-analyzer results directory.
const (
	GroupBase        = "base_security"
	GroupStorage     = "storage_security"
	GroupPlatform    = "platform_security"
	GroupPermissions = "permissions"
	GroupThirdParty  = "third_party"
)

var manifestGroups = map[string]string{
	manifest.TypeExportedComponent:     GroupPlatform,
	manifest.TypeDeepLink:              GroupPlatform,
	manifest.TypeBackupEnabled:         GroupStorage,
	manifest.TypeInsecureNetwork:       GroupBase,
	manifest.TypeInsecureNetworkConfig: GroupBase,
}

// GroupOf names the results file a finding belongs to.
func (r *Report) GroupOf(f types.Finding) string {
	switch f.Category {
	case types.CatManifest:
		if g, ok := manifestGroups[f.Type]; ok {
			return g
		}
		return GroupPlatform
	case types.CatPermission:
		return GroupPermissions
	case types.CatThirdPartyLib, types.CatAdNetwork, types.CatTrackingLibrary:
		return GroupThirdParty
	}
	if g := r.Registry().GroupOf(f.Category); g != "" {
		return g
	}
	return GroupBase
}

// FindingGroups returns the findings of every plain-list group, keyed by
// group name. Groups of the catalog are always present, even when empty.
func (r *Report) FindingGroups() map[string][]types.Finding {
	out := map[string][]types.Finding{}
	for _, g := range r.Registry().Groups() {
		out[g] = []types.Finding{}
	}
	for _, g := range []string{GroupBase, GroupStorage, GroupPlatform} {
		out[g] = []types.Finding{}
	}
	for _, f := range r.Findings {
		g := r.GroupOf(f)
		if g == GroupPermissions || g == GroupThirdParty {
			continue
		}
		out[g] = append(out[g], f)
	}
	return out
}
