package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/droidaudit/droidaudit/internal/types"
)

// Finding types reported from the manifest.
const (
	TypeExportedComponent     = "Exported Component"
	TypeDeepLink              = "Deep Link Issue"
	TypeBackupEnabled         = "Backup Enabled"
	TypeInsecureNetwork       = "Insecure Network"
	TypeInsecureNetworkConfig = "Insecure Network Config"
)

// NetworkConfigPath is the conventional network security config location.
const NetworkConfigPath = "resources/res/xml/network_security_config.xml"

// Findings reports exposed components, deep links and risky application
// flags. root is used to read the network security config.
func (m *Manifest) Findings(root string) []types.Finding {
	var out []types.Finding
	out = append(out, m.exportedFindings()...)
	out = append(out, m.deepLinkFindings()...)
	out = append(out, m.applicationFindings(root)...)
	return out
}

func manifestFinding(typ string, sev types.Severity, desc string) types.Finding {
	return types.Finding{
		Category:    types.CatManifest,
		Type:        typ,
		Severity:    sev,
		Description: desc,
		Location:    types.LocationManifest,
	}
}

func (m *Manifest) exportedFindings() []types.Finding {
	var out []types.Finding
	for _, kind := range ComponentKinds {
		for _, c := range m.Components {
			if c.Kind != kind || !c.Exposed() || c.Protected() {
				continue
			}
			out = append(out, manifestFinding(TypeExportedComponent, types.SevHigh,
				fmt.Sprintf("%s '%s' is exported without permission protection", kind.Title(), c.Name)))
		}
	}
	return out
}

func (m *Manifest) deepLinkFindings() []types.Finding {
	var out []types.Finding
	for _, c := range m.Components {
		if !c.Exposed() || c.Protected() {
			continue
		}
		for _, f := range c.Filters {
			if !f.HasData {
				continue
			}
			out = append(out, manifestFinding(TypeDeepLink, types.SevMedium,
				fmt.Sprintf("Deep link handler '%s' is accessible without permission protection (schemes: %s, hosts: %s)",
					c.Name, joinOrAny(f.Schemes), joinOrAny(f.Hosts))))
		}
	}
	return out
}

func joinOrAny(vals []string) string {
	if len(vals) == 0 {
		return "any"
	}
	return strings.Join(vals, ", ")
}

func (m *Manifest) applicationFindings(root string) []types.Finding {
	var out []types.Finding
	app := m.Application
	if app.Present && (app.AllowBackup == FlagTrue || app.AllowBackup == FlagUnset) {
		out = append(out, manifestFinding(TypeBackupEnabled, types.SevMedium,
			"App allows backups which could expose sensitive data"))
	}
	if app.UsesCleartextTraffic == FlagTrue {
		out = append(out, manifestFinding(TypeInsecureNetwork, types.SevHigh,
			"App allows cleartext traffic which can be intercepted"))
	}
	for _, rel := range networkConfigCandidates(app.NetworkSecurityConfig) {
		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		if strings.Contains(string(b), `cleartextTrafficPermitted="true"`) {
			f := manifestFinding(TypeInsecureNetworkConfig, types.SevHigh,
				"Cleartext traffic is permitted in the network security config")
			f.Location = rel
			out = append(out, f)
		}
	}
	return out
}

// networkConfigCandidates lists the conventional config path and, when the
// application references another @xml resource, that file too.
func networkConfigCandidates(ref string) []string {
	out := []string{NetworkConfigPath}
	if name, ok := strings.CutPrefix(ref, "@xml/"); ok && name != "" && !strings.ContainsAny(name, `/\`) {
		p := path.Join("resources/res/xml", name+".xml")
		if p != NetworkConfigPath {
			out = append(out, p)
		}
	}
	return out
}
