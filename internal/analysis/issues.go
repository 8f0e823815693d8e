package analysis

import (
	"fmt"
	"strings"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/types"
)

// Thresholds for the aggregate permission and library findings.
const (
	ExcessivePermissionsThreshold = 5
	ExcessiveTrackingThreshold    = 3
	MultipleAdNetworksThreshold   = 2

	excessiveContextMax = 100
)

// Aggregate finding types.
const (
	TypeUnusedPermission     = "Unused Permission"
	TypeExcessivePermissions = "Excessive Permissions"
	TypeCustomPermissions    = "Custom Permissions"
	TypeExcessiveTracking    = "Excessive Tracking"
	TypeMultipleAdNetworks   = "Multiple Ad Networks"
	TypeNetworkLibraries     = "Network Libraries"
)

// PermissionIssues derives the permission findings of m, whose usage must
// already be correlated.
func PermissionIssues(m *manifest.Manifest) []types.Finding {
	var out []types.Finding
	perm := func(typ string, sev types.Severity, desc, ctx string) types.Finding {
		return types.Finding{
			Category:    types.CatPermission,
			Type:        typ,
			Severity:    sev,
			Description: desc,
			Location:    types.LocationManifest,
			Context:     ctx,
		}
	}
	for _, c := range m.Unused(detectors.ClassDangerous) {
		short := c.ShortName()
		out = append(out, perm(TypeUnusedPermission, types.SevMedium,
			fmt.Sprintf("Permission %s is requested but appears unused in code", short),
			fmt.Sprintf("The app requests the %s permission but no usage was detected in code", short)))
	}

	var dangerous []string
	for _, c := range m.Requested() {
		if c.Class == detectors.ClassDangerous {
			dangerous = append(dangerous, c.ShortName())
		}
	}
	if len(dangerous) >= ExcessivePermissionsThreshold {
		list := strings.Join(dangerous, ", ")
		if len(list) > excessiveContextMax {
			list = list[:excessiveContextMax]
		}
		out = append(out, perm(TypeExcessivePermissions, types.SevMedium,
			fmt.Sprintf("App requests %d dangerous permissions which may raise privacy concerns", len(dangerous)),
			"The app requests multiple dangerous permissions including: "+list+"..."))
	}

	if custom := m.ByClass(detectors.ClassCustom); len(custom) > 0 {
		out = append(out, perm(TypeCustomPermissions, types.SevInfo,
			fmt.Sprintf("App defines %d custom permissions", len(custom)),
			"Custom permissions may expose functionality to other apps if not properly protected"))
	}
	return out
}

// SplitLibraries partitions detections by kind, keeping catalog order.
func SplitLibraries(dets []types.LibraryDetection) Libraries {
	var l Libraries
	for _, d := range dets {
		switch detectors.LibraryKind(d.Kind) {
		case detectors.KindAdNetwork:
			l.AdNetworks = append(l.AdNetworks, d)
		case detectors.KindTracking:
			l.Tracking = append(l.Tracking, d)
		default:
			l.Libraries = append(l.Libraries, d)
		}
	}
	return l
}

// LibraryIssues derives the tracking, advertising and network findings.
func LibraryIssues(l Libraries) []types.Finding {
	var out []types.Finding
	lib := func(cat types.Category, typ string, sev types.Severity, desc, ctx string) types.Finding {
		return types.Finding{
			Category:    cat,
			Type:        typ,
			Severity:    sev,
			Description: desc,
			Location:    types.LocationMultiple,
			Context:     ctx,
		}
	}
	if n := len(l.Tracking); n >= ExcessiveTrackingThreshold {
		out = append(out, lib(types.CatTrackingLibrary, TypeExcessiveTracking, types.SevMedium,
			fmt.Sprintf("App uses %d different analytics/tracking libraries", n),
			"Detected tracking libraries: "+strings.Join(names(l.Tracking), ", ")))
	}
	if n := len(l.AdNetworks); n >= MultipleAdNetworksThreshold {
		out = append(out, lib(types.CatAdNetwork, TypeMultipleAdNetworks, types.SevLow,
			fmt.Sprintf("App uses %d different ad networks", n),
			"Detected ad networks: "+strings.Join(names(l.AdNetworks), ", ")))
	}
	var network []string
	detected := map[string]bool{}
	for _, d := range l.Libraries {
		detected[d.Name] = true
	}
	for _, name := range detectors.NetworkLibraries {
		if detected[name] {
			network = append(network, name)
		}
	}
	if len(network) > 0 {
		out = append(out, lib(types.CatThirdPartyLib, TypeNetworkLibraries, types.SevInfo,
			fmt.Sprintf("App uses %s for network communication", strings.Join(network, ", ")),
			"Review these implementations to ensure secure communication practices"))
	}
	return out
}

func names(dets []types.LibraryDetection) []string {
	out := make([]string, 0, len(dets))
	for _, d := range dets {
		out = append(out, d.Name)
	}
	return out
}
