package droidaudit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/engine"
	"github.com/droidaudit/droidaudit/internal/report"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "test-detector <category>",
		Short: "Run one detector category against Java/Kotlin source on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := detectors.Default()
			cat, ok := reg.Lookup(types.Category(args[0]))
			if !ok {
				return fmt.Errorf("unknown detector id: %s (available: %s)", args[0], strings.Join(reg.IDs(), ", "))
			}
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			findings, err := runOnSnippet(cmd, cat, data)
			if err != nil {
				return err
			}
			s := analysis.Summarize(findings)
			r := &analysis.Report{Findings: findings, Summary: s, Risk: analysis.RiskScore(s), Defense: analysis.DefenseScore(findings)}
			return report.PrintTable(cmd.OutOrStdout(), r, report.PrintOptions{NoColor: true})
		},
	}
	cmd.Long = "Available detectors: " + strings.Join(detectors.IDs(), ", ")
	rootCmd.AddCommand(cmd)
}

// runOnSnippet places data in every tree of cat inside a scratch root and
// scans it with that category alone.
func runOnSnippet(cmd *cobra.Command, cat detectors.Category, data []byte) ([]types.Finding, error) {
	root, err := os.MkdirTemp("", "droidaudit-snippet-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(root)
	for _, t := range cat.Trees {
		dir := filepath.Join(root, filepath.FromSlash(t.Dir))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, "Snippet"+t.Exts[0]), data, 0o644); err != nil {
			return nil, err
		}
	}
	e, err := engine.New(engine.Config{Root: root, Registry: detectors.New(cat)})
	if err != nil {
		return nil, err
	}
	res, err := e.Run(cmd.Context())
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}
