package droidaudit

import (
	"fmt"
	"strconv"

	"github.com/droidaudit/droidaudit/internal/audit"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	var del int
	cmd := &cobra.Command{
		Use:   "history [file|dir]",
		Short: "Show runs recorded with analyze --history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			l := audit.NewLog(path)
			if del >= 0 {
				if err := l.Delete(del); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d from %s\n", del, l.Path())
				return nil
			}
			records, err := l.History()
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("#", "When", "Package", "Findings", "Baselined", "Security", "Defense")
			for i, r := range records {
				row := []string{
					strconv.Itoa(i),
					r.Timestamp.Local().Format("2006-01-02 15:04"),
					r.Package,
					strconv.Itoa(r.TotalFindings),
					strconv.Itoa(r.BaselinedCount),
					fmt.Sprintf("%d %s", r.Risk.Value, r.Risk.Rating),
					fmt.Sprintf("%d %s", r.Defense.Value, r.Defense.Rating),
				}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().IntVar(&del, "delete", -1, "delete the record with this index (newest is 0)")
	rootCmd.AddCommand(cmd)
}
