package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/droidaudit/droidaudit/internal/detectors"
)

// Path is the manifest location relative to the analysis root.
const Path = "resources/AndroidManifest.xml"

var (
	// ErrManifestNotFound is returned when the root has no manifest. The
	// analysis continues with empty permission and component sets.
	ErrManifestNotFound = errors.New("AndroidManifest.xml not found")
	// ErrManifestMalformed is returned when the manifest cannot be parsed.
	ErrManifestMalformed = errors.New("AndroidManifest.xml is malformed")
)

// CapabilityKind tells how a permission appears in the manifest.
type CapabilityKind string

const (
	KindRequested CapabilityKind = "requested"
	KindGroup     CapabilityKind = "group"
	KindCustom    CapabilityKind = "custom"
)

// Capability is a permission declared in the manifest together with the
// usage evidence found for it.
type Capability struct {
	Name     string                    `json:"name"`
	Kind     CapabilityKind            `json:"kind"`
	Class    detectors.PermissionClass `json:"class"`
	Declared bool                      `json:"declared"`
	Custom   bool                      `json:"custom"`
	Usage    Usage                     `json:"usage"`
}

// ShortName is the last dot-separated segment of the name.
func (c Capability) ShortName() string { return detectors.ShortPermissionName(c.Name) }

// Application holds the <application> attributes the analysis looks at.
type Application struct {
	Present               bool
	AllowBackup           Flag
	UsesCleartextTraffic  Flag
	NetworkSecurityConfig string
}

// Manifest is the extracted view of one AndroidManifest.xml.
type Manifest struct {
	Package      string
	Capabilities []Capability
	Components   []Component
	Application  Application
}

// Load reads and extracts the manifest below root. On ErrManifestNotFound
// and ErrManifestMalformed it still returns an empty, usable Manifest.
func Load(root string) (*Manifest, error) {
	p := filepath.Join(root, filepath.FromSlash(Path))
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Manifest{}, fmt.Errorf("%w: %s", ErrManifestNotFound, p)
		}
		return &Manifest{}, fmt.Errorf("%w: %v", ErrManifestMalformed, err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return &Manifest{}, fmt.Errorf("%w: %v", ErrManifestMalformed, err)
	}
	if doc.Name != "manifest" {
		return &Manifest{}, fmt.Errorf("%w: root element is <%s>", ErrManifestMalformed, doc.Name)
	}
	return Extract(doc), nil
}

// Extract builds a Manifest from a parsed <manifest> element.
func Extract(doc *Node) *Manifest {
	m := &Manifest{}
	m.Package, _ = doc.Attr("package")
	m.Capabilities = capabilities(doc)
	m.Components = components(doc)
	if apps := doc.Find("application"); len(apps) > 0 {
		app := apps[0]
		m.Application.Present = true
		m.Application.AllowBackup = flagAttr(app, "allowBackup")
		m.Application.UsesCleartextTraffic = flagAttr(app, "usesCleartextTraffic")
		m.Application.NetworkSecurityConfig, _ = app.Attr("networkSecurityConfig")
	}
	return m
}

func capabilities(doc *Node) []Capability {
	var out []Capability
	seen := map[CapabilityKind]map[string]bool{}
	add := func(name string, kind CapabilityKind) {
		if name == "" || seen[kind][name] {
			return
		}
		if seen[kind] == nil {
			seen[kind] = map[string]bool{}
		}
		seen[kind][name] = true
		custom := kind == KindCustom
		out = append(out, Capability{
			Name:     name,
			Kind:     kind,
			Class:    detectors.ClassifyPermission(name, custom),
			Declared: true,
			Custom:   custom,
		})
	}
	// Requested permissions first, then groups, then definitions, each in
	// document order.
	for _, tag := range []string{"uses-permission", "uses-permission-sdk-23"} {
		for _, n := range doc.Find(tag) {
			name, _ := n.Attr("name")
			add(name, KindRequested)
		}
	}
	for _, n := range doc.Find("permission-group") {
		name, _ := n.Attr("name")
		add(name, KindGroup)
	}
	for _, n := range doc.Find("permission") {
		name, _ := n.Attr("name")
		add(name, KindCustom)
	}
	return out
}

// Requested returns the capabilities of kind KindRequested.
func (m *Manifest) Requested() []Capability {
	var out []Capability
	for _, c := range m.Capabilities {
		if c.Kind == KindRequested {
			out = append(out, c)
		}
	}
	return out
}

// ByClass returns the capability names of class cl in declaration order.
func (m *Manifest) ByClass(cl detectors.PermissionClass) []string {
	var out []string
	for _, c := range m.Capabilities {
		if c.Class == cl {
			out = append(out, c.Name)
		}
	}
	return out
}
