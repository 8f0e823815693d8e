package core

import (
	"context"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/engine"
	"github.com/droidaudit/droidaudit/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Options = analysis.Options
type Report = analysis.Report
type Finding = types.Finding
type Severity = types.Severity

// Analyze runs the full analysis of a decompiled app tree.
func Analyze(ctx context.Context, opts Options) (*Report, error) {
	return analysis.Analyze(ctx, opts)
}

// Scan runs only the detector catalog over cfg.Root and returns its findings,
// without manifest, permission or library analysis.
func Scan(ctx context.Context, cfg Config) ([]Finding, error) {
	res, err := engine.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// DetectorIDs returns the list of built-in detector category IDs.
func DetectorIDs() []string { return engine.DetectorIDs() }
