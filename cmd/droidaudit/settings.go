package droidaudit

import (
	"fmt"
	"io"
	"os"

	"github.com/droidaudit/droidaudit/internal/cache"
	"github.com/droidaudit/droidaudit/internal/config"
	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/engine"
	dalog "github.com/droidaudit/droidaudit/internal/log"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"
)

// settings is the resolved configuration of one run: CLI > local > global.
type settings struct {
	local, global config.FileConfig
	logger        hclog.Logger
}

func loadSettings(dir string, logOut io.Writer) settings {
	var s settings
	if c, err := config.LoadGlobal(); err == nil {
		s.global = c
	}
	if c, err := config.LoadLocal(dir); err == nil {
		s.local = c
	}
	s.logger = dalog.New(dalog.Options{
		Level:  pickString(flagLogLevel, s.local.LogLevel, s.global.LogLevel),
		JSON:   pickBool(flagLogJSON, s.local.LogJSON, s.global.LogJSON),
		Output: logOut,
	})
	return s
}

// registry builds the detector catalog with enable/disable filters, the
// emulator budget overrides and the user rules applied.
func (s settings) registry(enable, disable string) (*detectors.Registry, error) {
	reg := detectors.Default().Filter(
		pickString(enable, s.local.Enable, s.global.Enable),
		pickString(disable, s.local.Disable, s.global.Disable),
	)
	if b, ok := s.emulatorBudget(); ok {
		reg.SetBudget(types.CatEmulatorDetect, b)
	}
	var specs []detectors.RuleSpec
	for _, r := range config.AllRules(s.local, s.global) {
		specs = append(specs, detectors.RuleSpec{
			ID:            r.ID,
			Category:      r.Category,
			Type:          r.Type,
			Pattern:       r.Pattern,
			Description:   r.Description,
			Severity:      r.Severity,
			CaseSensitive: r.CaseSensitive,
		})
	}
	if err := reg.AddRules(specs); err != nil {
		return nil, fmt.Errorf("config rules: %w", err)
	}
	return reg, nil
}

func (s settings) emulatorBudget() (detectors.Budget, bool) {
	def := detectors.Budget{MaxMatchesPerFile: 5, MaxFilesWithMatches: 20}
	if c, ok := detectors.Default().Lookup(types.CatEmulatorDetect); ok && c.Budget != nil {
		def = *c.Budget
	}
	var lc, gc config.EmulatorConfig
	if s.local.Emulator != nil {
		lc = *s.local.Emulator
	}
	if s.global.Emulator != nil {
		gc = *s.global.Emulator
	}
	if lc.MaxMatchesPerFile == nil && lc.MaxFilesWithMatches == nil && gc.MaxMatchesPerFile == nil && gc.MaxFilesWithMatches == nil {
		return def, false
	}
	b := def
	if v := pickInt(0, lc.MaxMatchesPerFile, gc.MaxMatchesPerFile); v != 0 {
		b.MaxMatchesPerFile = v
	}
	if v := pickInt(0, lc.MaxFilesWithMatches, gc.MaxFilesWithMatches); v != 0 {
		b.MaxFilesWithMatches = v
	}
	return b, true
}

// engineConfig resolves the scan scope for root.
func (s settings) engineConfig(root, include, exclude string, maxBytes int64) (engine.Config, error) {
	size := pickInt(0, s.local.CacheSize, s.global.CacheSize)
	if size == 0 {
		size = cache.DefaultSize
	}
	units, err := cache.New(size)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Root:         root,
		IncludeGlobs: pickString(include, s.local.Include, s.global.Include),
		ExcludeGlobs: pickString(exclude, s.local.Exclude, s.global.Exclude),
		MaxBytes:     pickInt64(maxBytes, s.local.MaxBytes, s.global.MaxBytes),
		Threads:      pickInt(flagThreads, s.local.Threads, s.global.Threads),
		ContextWidth: pickInt(0, s.local.ContextWidth, s.global.ContextWidth),
		Vendored:     config.PickVendored(s.local, s.global),
		Cache:        units,
		Logger:       s.logger,
	}, nil
}

// noColor reports whether colour is off: by flag, by config or because
// stdout is not a terminal.
func (s settings) noColor(out io.Writer) bool {
	if pickBool(flagNoColor, s.local.NoColor, s.global.NoColor) {
		return true
	}
	return !isTerminal(out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
