package droidaudit

import (
	"fmt"

	"github.com/droidaudit/droidaudit/internal/update"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update droidaudit to the latest GitHub release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := update.Apply(version)
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			if v == "" || !update.Newer(v, version) {
				fmt.Fprintf(cmd.OutOrStdout(), "droidaudit %s is up to date\n", version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated droidaudit %s -> %s\n", version, v)
			return nil
		},
	})
}
