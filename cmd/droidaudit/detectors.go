package droidaudit

import (
	"fmt"
	"strconv"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	var idsOnly bool
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List available detector categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			reg := detectors.Default()
			if idsOnly {
				for _, id := range reg.IDs() {
					fmt.Fprintln(out, id)
				}
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("ID", "Type", "Group", "Rules", "Bounded")
			for _, c := range reg.Categories() {
				bounded := ""
				if c.Bounded() {
					bounded = fmt.Sprintf("%d/file, %d files", c.Budget.MaxMatchesPerFile, c.Budget.MaxFilesWithMatches)
				}
				row := []string{string(c.ID), c.Type, c.Group, strconv.Itoa(len(c.Rules) + len(c.Checks)), bounded}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print only category IDs")
	rootCmd.AddCommand(cmd)
}
