package droidaudit

import (
	"os"

	"github.com/droidaudit/droidaudit/internal/tui"
	"github.com/droidaudit/droidaudit/pkg/core"
	"github.com/spf13/cobra"
)

func init() {
	var root, baseline string
	cmd := &cobra.Command{
		Use:   "view <report.json>",
		Short: "Browse a saved JSON report interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadReport(args[0])
			if err != nil {
				return err
			}
			if root == "" {
				root = r.Root
			}
			return tui.Run(r, tui.Options{Root: root, BaselinePath: baseline})
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "decompiled tree the report locations refer to (default: the report's root)")
	cmd.Flags().StringVar(&baseline, "baseline", DefaultBaseline, "baseline file toggled with 'b'")
	rootCmd.AddCommand(cmd)
}

func loadReport(path string) (*core.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.UnmarshalReport(f)
}
