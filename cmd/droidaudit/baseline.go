package droidaudit

import (
	"fmt"
	"path/filepath"

	"github.com/droidaudit/droidaudit/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var out string
	update := &cobra.Command{
		Use:   "update [dir]",
		Short: "Update baseline from the current analysis of a decompiled tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return err
			}
			findings, err := findingsOf(cmd, abs)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(out, findings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d findings in %s\n", len(findings), out)
			return nil
		},
	}
	update.Flags().StringVar(&out, "file", DefaultBaseline, "baseline file to write")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
