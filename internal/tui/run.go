package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/droidaudit/droidaudit/internal/analysis"
)

// Run browses r full-screen until the user quits.
func Run(r *analysis.Report, opts Options) error {
	if _, err := tea.NewProgram(NewModel(r, opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
