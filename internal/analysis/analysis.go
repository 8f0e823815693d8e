package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/engine"
	dalog "github.com/droidaudit/droidaudit/internal/log"
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// ToolName is reported in every Report.
const ToolName = "droidaudit"

// Options configures Analyze.
type Options struct {
	Engine  engine.Config
	Logger  hclog.Logger
	Version string

	// Skip drops findings before they are counted, e.g. baseline entries.
	Skip func(types.Finding) bool

	// Now stamps the report; defaults to time.Now.
	Now func() time.Time
}

// Analyze runs every analysis stage over opts.Engine.Root. Only an unusable
// root, a cancelled context or a scan failure abort the run; manifest
// problems become diagnostics.
func Analyze(ctx context.Context, opts Options) (*Report, error) {
	log := dalog.OrNull(opts.Logger)
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	cfg := opts.Engine
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	if cfg.Libraries == nil {
		cfg.Libraries = detectors.Libraries()
	}
	started := time.Now()

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	res, err := eng.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	log.Debug("scan finished", "findings", len(res.Findings), "files", res.FilesScanned)

	r := &Report{
		ID:            uuid.NewString(),
		SchemaVersion: SchemaVersion,
		Tool:          Tool{Name: ToolName, Version: opts.Version},
		Root:          cfg.Root,
		GeneratedAt:   now().UTC(),
		Notes:         res.Notes,
		Diagnostics:   []string{},
		registry:      eng.Registry(),
	}
	if r.Notes == nil {
		r.Notes = []types.ScanNote{}
	}

	m, err := manifest.Load(cfg.Root)
	switch {
	case errors.Is(err, manifest.ErrManifestNotFound):
		log.Warn("manifest not found, skipping declaration checks", "error", err)
		r.Diagnostics = append(r.Diagnostics, err.Error())
	case errors.Is(err, manifest.ErrManifestMalformed):
		log.Warn("manifest could not be parsed, skipping declaration checks", "error", err)
		r.Diagnostics = append(r.Diagnostics, err.Error())
	case err != nil:
		return nil, err
	}
	if err := m.Correlate(ctx, eng); err != nil {
		return nil, fmt.Errorf("permission usage: %w", err)
	}
	r.Package = m.Package

	findings := res.Findings
	findings = append(findings, m.Findings(cfg.Root)...)

	r.Permissions = permissionsOf(m)
	findings = append(findings, r.Permissions.Issues...)

	r.Libraries = SplitLibraries(res.Libraries)
	r.Libraries.Issues = LibraryIssues(r.Libraries)
	findings = append(findings, r.Libraries.Issues...)

	r.Findings = filter(findings, opts.Skip)
	r.Permissions.Issues = filter(r.Permissions.Issues, opts.Skip)
	r.Libraries.Issues = filter(r.Libraries.Issues, opts.Skip)
	r.Components = m.Components
	if r.Components == nil {
		r.Components = []manifest.Component{}
	}

	r.Summary = Summarize(r.Findings)
	r.Risk = RiskScore(r.Summary)
	r.Defense = DefenseScore(r.Findings)
	r.Stats = Stats{
		FilesScanned: res.FilesScanned,
		DurationMS:   time.Since(started).Milliseconds(),
		Rules:        eng.Registry().RuleCount(),
	}
	normalize(r)
	log.Info("analysis complete", "findings", len(r.Findings), "risk", r.Risk.Value, "defense", r.Defense.Value)
	return r, nil
}

func permissionsOf(m *manifest.Manifest) Permissions {
	p := Permissions{
		Dangerous:    m.ByClass(detectors.ClassDangerous),
		Signature:    m.ByClass(detectors.ClassSignature),
		Normal:       m.ByClass(detectors.ClassNormal),
		Custom:       m.ByClass(detectors.ClassCustom),
		Capabilities: m.Capabilities,
		Issues:       PermissionIssues(m),
	}
	for _, c := range m.Capabilities {
		if c.Usage.Used {
			p.Used++
		} else {
			p.Unused++
		}
	}
	return p
}

func filter(fs []types.Finding, skip func(types.Finding) bool) []types.Finding {
	out := make([]types.Finding, 0, len(fs))
	for _, f := range fs {
		if skip != nil && skip(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// normalize replaces nil slices so the JSON form always carries arrays.
func normalize(r *Report) {
	empty := func(s *[]string) {
		if *s == nil {
			*s = []string{}
		}
	}
	empty(&r.Permissions.Dangerous)
	empty(&r.Permissions.Signature)
	empty(&r.Permissions.Normal)
	empty(&r.Permissions.Custom)
	if r.Permissions.Capabilities == nil {
		r.Permissions.Capabilities = []manifest.Capability{}
	}
	for _, l := range []*[]types.LibraryDetection{&r.Libraries.Libraries, &r.Libraries.AdNetworks, &r.Libraries.Tracking} {
		if *l == nil {
			*l = []types.LibraryDetection{}
		}
	}
}
