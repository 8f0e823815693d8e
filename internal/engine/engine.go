package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/droidaudit/droidaudit/internal/cache"
	"github.com/droidaudit/droidaudit/internal/detectors"
	dalog "github.com/droidaudit/droidaudit/internal/log"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxBytes is the size above which files are skipped with a note.
const DefaultMaxBytes int64 = 1_000_000

// Config controls scanning scope, filters and parallelism.
type Config struct {
	Root         string
	IncludeGlobs string
	ExcludeGlobs string
	MaxBytes     int64
	Threads      int
	ContextWidth int
	Registry     *detectors.Registry
	Libraries    []detectors.Library
	Cache        *cache.Units
	Logger       hclog.Logger

	// Vendored globs are never scanned. Nil selects DefaultVendored; an
	// empty non-nil slice disables the denylist.
	Vendored []string

	// Progress is called once per distinct file read, possibly from
	// several goroutines.
	Progress func()
}

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	Libraries    []types.LibraryDetection
	Notes        []types.ScanNote
	FilesScanned int
	Duration     time.Duration
}

// Engine runs detector categories over one analysis root.
type Engine struct {
	cfg      Config
	reg      *detectors.Registry
	provider *Provider
	log      hclog.Logger
}

// New validates cfg and prepares the source unit provider.
func New(cfg Config) (*Engine, error) {
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if cfg.ContextWidth <= 0 {
		cfg.ContextWidth = DefaultContextWidth
	}
	reg := cfg.Registry
	if reg == nil {
		reg = detectors.Default()
	}
	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, reg: reg, provider: p, log: dalog.OrNull(cfg.Logger)}, nil
}

// Provider exposes the engine's unit provider.
func (e *Engine) Provider() *Provider { return e.provider }

// Registry returns the catalog the engine runs.
func (e *Engine) Registry() *detectors.Registry { return e.reg }

// Scan runs a single category with the given context width. Callers use it
// to run synthetic categories, such as permission usage patterns, through
// the same exhaustive scan as the catalog.
func (e *Engine) Scan(ctx context.Context, cat detectors.Category, width int) ([]types.Finding, error) {
	return ScanCategory(ctx, e.provider, cat, width)
}

// Run scans every catalog category and the library catalog. Categories run
// concurrently, each with its own accumulator, and results are merged in
// catalog order so output does not depend on scheduling.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	var res Result
	started := time.Now()
	cats := e.reg.Categories()
	perCat := make([][]types.Finding, len(cats))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Threads)
	for i, c := range cats {
		g.Go(func() error {
			fs, err := ScanCategory(gctx, e.provider, c, e.cfg.ContextWidth)
			if err != nil {
				return fmt.Errorf("scan %s: %w", c.ID, err)
			}
			perCat[i] = fs
			e.log.Debug("category scanned", "category", c.ID, "findings", len(fs))
			return nil
		})
	}
	if len(e.cfg.Libraries) > 0 {
		g.Go(func() error {
			libs, err := DetectLibraries(gctx, e.provider, e.cfg.Libraries, e.cfg.ContextWidth)
			if err != nil {
				return fmt.Errorf("detect libraries: %w", err)
			}
			res.Libraries = libs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	for _, fs := range perCat {
		res.Findings = append(res.Findings, fs...)
	}
	res.Notes = e.provider.Notes()
	res.FilesScanned = e.provider.FilesScanned()
	res.Duration = time.Since(started)
	return res, nil
}

// Run is a convenience wrapper around New and Engine.Run.
func Run(ctx context.Context, cfg Config) (Result, error) {
	e, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	return e.Run(ctx)
}

// DetectorIDs returns the built-in category IDs.
func DetectorIDs() []string {
	return detectors.IDs()
}
