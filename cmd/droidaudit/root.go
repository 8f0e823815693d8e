package droidaudit

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON     bool
	flagSARIF    bool
	flagThreads  int
	flagFailOn   string
	flagNoColor  bool
	flagLogLevel string
	flagLogJSON  bool

	flagNoUpdateCheck bool

	version = "0.1.0"
)

// exitCode carries a non-error process status, such as a --fail-on hit.
type exitCode int

func (c exitCode) Error() string { return fmt.Sprintf("exit status %d", int(c)) }

// rootCmd is the base Cobra command for the droidaudit CLI.
var rootCmd = &cobra.Command{
	Use:           "droidaudit",
	Short:         "Static security analysis for Android apps",
	Long:          "droidaudit decompiles an APK (or reads an already decompiled tree) and reports insecure code patterns, manifest misconfigurations, permission usage and third-party SDKs.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the droidaudit CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit the JSON report on stdout")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0 on stdout")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "none", "exit 1 when a finding is at or above: none|low|medium|high")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable the release check on interactive runs")
}
