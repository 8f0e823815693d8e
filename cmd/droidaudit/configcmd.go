package droidaudit

import (
	"fmt"
	"os"
	"strings"

	"github.com/droidaudit/droidaudit/internal/config"
	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgPreset       string
	cfgOutput       string
	cfgEnable       string
	cfgDisable      string
	cfgThreads      int
	cfgMaxBytes     int64
	cfgContextWidth int
	cfgNoColor      bool
	cfgForce        bool
)

// minimalPreset keeps the categories that map to concrete vulnerabilities
// and drops the defensive-mechanism inventory.
var minimalPreset = []types.Category{
	types.CatLogging,
	types.CatAuthentication,
	types.CatCryptography,
	types.CatStorage,
	types.CatWebView,
	types.CatHardcodedSecret,
}

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .droidaudit.yml with selected categories and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgPreset, "preset", "standard", "category preset: minimal | standard")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".droidaudit.yml", "output file path")
	initCmd.Flags().StringVar(&cfgEnable, "enable", "", "comma-separated category IDs to enable (overrides preset if set)")
	initCmd.Flags().StringVar(&cfgDisable, "disable", "", "comma-separated category IDs to disable")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1_000_000, "skip files larger than this")
	initCmd.Flags().IntVar(&cfgContextWidth, "context-width", 40, "bytes of context kept on each side of a match")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	enable := strings.TrimSpace(cfgEnable)
	if enable == "" {
		switch strings.ToLower(cfgPreset) {
		case "minimal":
			ids := make([]string, len(minimalPreset))
			for i, c := range minimalPreset {
				ids[i] = string(c)
			}
			enable = strings.Join(ids, ",")
		case "standard":
			enable = strings.Join(detectors.IDs(), ",")
		default:
			return fmt.Errorf("unknown preset %q (minimal | standard)", cfgPreset)
		}
	}
	if !cfgForce {
		if _, err := os.Stat(cfgOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
		}
	}

	fc := config.FileConfig{
		MaxBytes:     int64Ptr(cfgMaxBytes),
		Enable:       strPtr(enable),
		Disable:      optStrPtr(cfgDisable),
		Threads:      intPtr(cfgThreads),
		ContextWidth: intPtr(cfgContextWidth),
		NoColor:      boolPtr(cfgNoColor),
		Emulator: &config.EmulatorConfig{
			MaxMatchesPerFile:   intPtr(5),
			MaxFilesWithMatches: intPtr(20),
		},
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
