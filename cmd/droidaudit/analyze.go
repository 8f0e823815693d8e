package droidaudit

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/audit"
	"github.com/droidaudit/droidaudit/internal/decompile"
	"github.com/droidaudit/droidaudit/internal/report"
	"github.com/droidaudit/droidaudit/internal/tui"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/droidaudit/droidaudit/internal/update"
	"github.com/spf13/cobra"
)

// DefaultBaseline is the baseline file read from the working directory.
const DefaultBaseline = "droidaudit.baseline.json"

var (
	flagOutput     string
	flagHTML       string
	flagResultsDir string
	flagOutDir     string
	flagBaseline   string
	flagInclude    string
	flagExclude    string
	flagMaxBytes   int64
	flagEnable     string
	flagDisable    string
	flagText       bool
	flagJadx       string
	flagKeep       bool
	flagHistory    string
	flagTUI        bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [apk|dir]",
		Short: "Analyze an APK or a decompiled app tree",
		Long: `Analyze an APK or a directory produced by jadx (sources/ and
resources/AndroidManifest.xml). APKs are decompiled with jadx first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
		Example: `
# Decompile and analyze, writing the full output set
droidaudit analyze app.apk --out-dir audit

# Analyze an existing jadx output and keep the JSON report
droidaudit analyze decompiled_app -o report.json --html report.html`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the JSON report to this file")
	cmd.Flags().StringVar(&flagHTML, "html", "", "write the HTML report to this file")
	cmd.Flags().StringVar(&flagResultsDir, "results-dir", "", "write one JSON file per analyzer group into this directory")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "write decompiled/, results/ and security_report.html into this directory")
	cmd.Flags().StringVar(&flagBaseline, "baseline", DefaultBaseline, "baseline file of accepted findings")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = 1000000)")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only run these categories (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "disable these categories (comma-separated IDs)")
	cmd.Flags().BoolVar(&flagText, "text", false, "print findings as text blocks with highlighted context")
	cmd.Flags().StringVar(&flagJadx, "jadx", "", "path to the jadx binary")
	cmd.Flags().BoolVar(&flagKeep, "keep-decompiled", false, "keep the temporary decompiled tree")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse the findings interactively (baselined findings are shown and marked)")
	cmd.Flags().StringVar(&flagHistory, "history", "", "append a run record to this history file (or "+audit.DefaultFile+" in this directory)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	machine := flagJSON || flagSARIF

	cfgDir := abs
	if decompile.IsAPK(abs) {
		cfgDir, _ = os.Getwd()
	}
	s := loadSettings(cfgDir, stderr)

	root := abs
	if decompile.IsAPK(abs) {
		root, err = decompileAPK(cmd, s, abs)
		if err != nil {
			return err
		}
		if flagOutDir == "" && !flagKeep {
			defer os.RemoveAll(filepath.Dir(root))
		}
	}

	reg, err := s.registry(flagEnable, flagDisable)
	if err != nil {
		return err
	}
	ecfg, err := s.engineConfig(root, flagInclude, flagExclude, flagMaxBytes)
	if err != nil {
		return err
	}
	ecfg.Registry = reg

	base, err := report.LoadBaselineIfExists(flagBaseline)
	if err != nil {
		return err
	}

	// Issue lists are filtered again after the flat list, so count by key.
	baselined := map[string]struct{}{}
	skip := func(f types.Finding) bool {
		if base.Contains(f) {
			baselined[report.Key(f)] = struct{}{}
			return true
		}
		return false
	}

	var scanned atomic.Int64
	progress := !machine && isTerminal(stderr)
	if progress {
		if latest, newer, _ := update.Check(version, flagNoUpdateCheck); newer {
			_, _ = fmt.Fprintf(stderr, "(new version available: v%s)  run 'droidaudit update' to upgrade\n", latest)
		}
		_, _ = fmt.Fprintf(stderr, "Analyzing %s with %d rules...\n", root, reg.RuleCount())
		ecfg.Progress = func() {
			if n := scanned.Add(1); n%50 == 0 {
				_, _ = fmt.Fprintf(stderr, "\r%d files scanned", n)
			}
		}
	}

	opts := analysis.Options{
		Engine:  ecfg,
		Logger:  s.logger,
		Version: version,
		Skip:    skip,
	}
	if flagTUI {
		opts.Skip = nil
	}
	r, err := analysis.Analyze(cmd.Context(), opts)
	if progress {
		_, _ = fmt.Fprint(stderr, "\r")
	}
	if err != nil {
		return err
	}

	if err := writeArtifacts(r); err != nil {
		return err
	}
	if flagHistory != "" {
		rec := audit.NewRecord(r, len(baselined), flagBaseline)
		if err := audit.NewLog(flagHistory).Append(rec); err != nil {
			s.logger.Warn("could not record run", "error", err)
		}
	}

	if flagTUI {
		opts.Engine.Progress = nil
		ctx := cmd.Context()
		return tui.Run(r, tui.Options{
			Root:         root,
			BaselinePath: flagBaseline,
			Rescan:       func() (*analysis.Report, error) { return analysis.Analyze(ctx, opts) },
		})
	}

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(stdout, r); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := report.WriteJSON(stdout, r); err != nil {
			return err
		}
	case flagText:
		report.PrintText(stdout, r, report.PrintOptions{NoColor: s.noColor(stdout)})
	default:
		if err := report.PrintTable(stdout, r, report.PrintOptions{NoColor: s.noColor(stdout)}); err != nil {
			return err
		}
	}

	if report.ShouldFail(r.Findings, flagFailOn) {
		return exitCode(1)
	}
	return nil
}

// decompileAPK runs jadx into <out-dir>/decompiled, or into a temporary
// directory, and returns the decompiled root.
func decompileAPK(cmd *cobra.Command, s settings, apk string) (string, error) {
	var out string
	if flagOutDir != "" {
		out = filepath.Join(flagOutDir, "decompiled")
	} else {
		tmp, err := os.MkdirTemp("", "droidaudit-")
		if err != nil {
			return "", err
		}
		out = filepath.Join(tmp, decompile.OutputName(apk))
	}
	j := &decompile.Jadx{
		Path:   pickString(flagJadx, s.local.Decompiler, s.global.Decompiler),
		Logger: s.logger,
	}
	if !flagJSON && !flagSARIF {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Decompiling %s...\n", apk)
	}
	if err := j.Decompile(cmd.Context(), apk, out); err != nil {
		return "", fmt.Errorf("decompile: %w", err)
	}
	return out, nil
}

// writeArtifacts writes the file outputs requested by flags.
func writeArtifacts(r *analysis.Report) error {
	jsonPath, htmlPath, resultsDir := flagOutput, flagHTML, flagResultsDir
	if flagOutDir != "" {
		if resultsDir == "" {
			resultsDir = filepath.Join(flagOutDir, "results")
		}
		if htmlPath == "" {
			htmlPath = filepath.Join(flagOutDir, "security_report.html")
		}
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, func(w io.Writer) error { return report.WriteJSON(w, r) }); err != nil {
			return err
		}
	}
	if htmlPath != "" {
		if err := writeFile(htmlPath, func(w io.Writer) error { return report.WriteHTML(w, r) }); err != nil {
			return err
		}
	}
	if resultsDir != "" {
		if _, err := report.WriteResultsDir(resultsDir, r); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// findingsOf runs an analysis without baseline filtering; baseline update
// uses it.
func findingsOf(cmd *cobra.Command, root string) ([]types.Finding, error) {
	s := loadSettings(root, cmd.ErrOrStderr())
	reg, err := s.registry("", "")
	if err != nil {
		return nil, err
	}
	ecfg, err := s.engineConfig(root, "", "", 0)
	if err != nil {
		return nil, err
	}
	ecfg.Registry = reg
	r, err := analysis.Analyze(cmd.Context(), analysis.Options{Engine: ecfg, Logger: s.logger, Version: version})
	if err != nil {
		return nil, err
	}
	return r.Findings, nil
}
