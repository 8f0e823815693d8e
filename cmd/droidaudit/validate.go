package droidaudit

import (
	"fmt"
	"os"

	"github.com/droidaudit/droidaudit/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	var printSchema bool
	cmd := &cobra.Command{
		Use:   "validate [report.json]",
		Short: "Check a JSON report against the report schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				_, err := cmd.OutOrStdout().Write(report.Schema())
				return err
			}
			if len(args) != 1 {
				return fmt.Errorf("validate needs a report file")
			}
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := report.ValidateReport(b); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid:", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&printSchema, "schema", false, "print the report schema instead")
	rootCmd.AddCommand(cmd)
}
