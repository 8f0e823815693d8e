package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/droidaudit/droidaudit/internal/cache"
	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/ignore"
	dalog "github.com/droidaudit/droidaudit/internal/log"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/hashicorp/go-hclog"
)

// ErrRootNotFound is returned when the analysis root is missing or is not a
// directory.
var ErrRootNotFound = errors.New("analysis root not found")

// Provider enumerates candidate source units below an analysis root. Every
// call to Units re-walks the tree; the optional unit cache keeps the
// repeated walks of concurrent categories from re-reading files.
type Provider struct {
	cfg      Config
	vendored []string
	ign      ignore.Matcher
	cache    *cache.Units
	log      hclog.Logger

	mu    sync.Mutex
	seen  map[string]struct{}
	notes map[string]types.ScanNote
}

// NewProvider validates the root and loads the ignore file found there.
func NewProvider(cfg Config) (*Provider, error) {
	st, err := os.Stat(cfg.Root)
	if err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, cfg.Root)
	}
	vendored := cfg.Vendored
	if vendored == nil {
		vendored = DefaultVendored
	}
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	return &Provider{
		cfg:      cfg,
		vendored: vendored,
		ign:      ign,
		cache:    cfg.Cache,
		log:      dalog.OrNull(cfg.Logger),
		seen:     map[string]struct{}{},
		notes:    map[string]types.ScanNote{},
	}, nil
}

// Units lazily yields the units of tree. Within a directory regular files
// come first, by name, followed by subdirectories, by name. The only error
// yielded is the context error, after which the sequence ends.
func (p *Provider) Units(ctx context.Context, tree detectors.Tree) iter.Seq2[types.SourceUnit, error] {
	return func(yield func(types.SourceUnit, error) bool) {
		base := filepath.Join(p.cfg.Root, filepath.FromSlash(tree.Dir))
		p.walkDir(ctx, base, tree, yield)
	}
}

func (p *Provider) walkDir(ctx context.Context, dir string, tree detectors.Tree, yield func(types.SourceUnit, error) bool) bool {
	if err := ctx.Err(); err != nil {
		yield(types.SourceUnit{}, err)
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.log.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return true
	}
	var subdirs []string
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		unit, ok := p.load(full, e, tree)
		if !ok {
			continue
		}
		if !yield(unit, nil) {
			return false
		}
	}
	for _, sd := range subdirs {
		if !p.walkDir(ctx, sd, tree, yield) {
			return false
		}
	}
	return true
}

func (p *Provider) load(full string, e fs.DirEntry, tree detectors.Tree) (types.SourceUnit, bool) {
	rel, err := filepath.Rel(p.cfg.Root, full)
	if err != nil {
		return types.SourceUnit{}, false
	}
	rel = filepath.ToSlash(rel)
	if !hasExt(rel, tree.Exts) || isVendored(rel, p.vendored) {
		return types.SourceUnit{}, false
	}
	if !allowedByGlobs(rel, p.cfg) || p.ign.Match(rel) {
		return types.SourceUnit{}, false
	}
	info, err := e.Info()
	if err != nil {
		p.log.Debug("skipping file", "path", rel, "error", err)
		return types.SourceUnit{}, false
	}
	if p.cfg.MaxBytes > 0 && info.Size() > p.cfg.MaxBytes {
		p.note(types.ScanNote{Path: rel, Reason: "file exceeds max bytes", Size: info.Size()})
		return types.SourceUnit{}, false
	}
	key := cache.Key(rel, info.Size(), info.ModTime())
	if u, ok := p.cache.Get(key); ok {
		p.markSeen(rel)
		return u, true
	}
	b, err := os.ReadFile(full)
	if err != nil {
		p.log.Debug("skipping unreadable file", "path", rel, "error", err)
		return types.SourceUnit{}, false
	}
	u := types.SourceUnit{
		Path:    rel,
		Content: strings.ToValidUTF8(string(b), ""),
		Size:    info.Size(),
		Hash:    xxhash.Sum64(b),
	}
	p.cache.Add(key, u)
	p.markSeen(rel)
	return u, true
}

func (p *Provider) markSeen(rel string) {
	p.mu.Lock()
	_, dup := p.seen[rel]
	p.seen[rel] = struct{}{}
	p.mu.Unlock()
	if !dup && p.cfg.Progress != nil {
		p.cfg.Progress()
	}
}

func (p *Provider) note(n types.ScanNote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.notes[n.Path]; ok {
		return
	}
	p.notes[n.Path] = n
	p.log.Debug("skipping oversized file", "path", n.Path, "size", n.Size)
}

// FilesScanned reports the number of distinct files read so far.
func (p *Provider) FilesScanned() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

// Notes returns the recorded scan notes sorted by path.
func (p *Provider) Notes() []types.ScanNote {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.ScanNote, 0, len(p.notes))
	for _, n := range p.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
