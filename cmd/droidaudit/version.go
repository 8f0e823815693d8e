package droidaudit

import (
	"fmt"

	"github.com/droidaudit/droidaudit/internal/update"
	"github.com/spf13/cobra"
)

func init() {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the droidaudit version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "droidaudit", version)
			if !check {
				return
			}
			latest, newer, err := update.Check(version, flagNoUpdateCheck)
			switch {
			case err != nil:
				fmt.Fprintln(cmd.ErrOrStderr(), "update check failed:", err)
			case newer:
				fmt.Fprintf(cmd.OutOrStdout(), "new version available: v%s (run 'droidaudit update')\n", latest)
			}
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "also check GitHub for a newer release")
	rootCmd.AddCommand(cmd)
}
