package droidaudit

import (
	"fmt"

	"github.com/droidaudit/droidaudit/internal/ignore"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{Use: "ignore", Short: "Manage the " + ignore.FileName + " file of an app tree"}
	rootCmd.AddCommand(cmd)

	var root string
	var generated bool
	add := &cobra.Command{
		Use:   "add [pattern...]",
		Short: "Append patterns to the ignore file",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if generated {
				patterns = append(patterns, ignore.GeneratedPatterns()...)
			}
			if len(patterns) == 0 {
				return fmt.Errorf("no patterns given")
			}
			for _, p := range patterns {
				if err := ignore.Append(root, p); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", ignore.FileName)
			return nil
		},
	}
	add.Flags().StringVar(&root, "root", ".", "analysis root holding the ignore file")
	add.Flags().BoolVar(&generated, "generated", false, "add patterns for decompiler-generated R and BuildConfig classes")
	cmd.AddCommand(add)
}
