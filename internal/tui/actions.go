package tui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/droidaudit/droidaudit/internal/ignore"
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/types"
)

func status(format string, args ...any) tea.Cmd {
	msg := statusMsg(fmt.Sprintf(format, args...))
	return func() tea.Msg { return msg }
}

// toggleBaseline adds the selected finding to the baseline file, or removes
// it when it is already accepted.
func (m *Model) toggleBaseline() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}
	if m.baselinePath == "" {
		return status("No baseline file configured")
	}
	accepted := !m.baseline.Contains(*f)
	m.baseline.Set(*f, accepted)
	if err := m.baseline.Save(m.baselinePath); err != nil {
		m.baseline.Set(*f, !accepted)
		return status("Error writing baseline: %v", err)
	}
	if accepted {
		return status("Added finding to %s", m.baselinePath)
	}
	return status("Removed finding from %s", m.baselinePath)
}

// ignoreFile appends the selected finding's file to the root ignore file.
func (m *Model) ignoreFile() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}
	loc := f.Location
	switch loc {
	case types.LocationMultiple:
		return status("Finding spans multiple files")
	case types.LocationManifest:
		loc = manifest.Path
	}
	if err := ignore.Append(m.root, loc); err != nil {
		return status("Error updating %s: %v", ignore.FileName, err)
	}
	return status("Added %s to %s", loc, ignore.FileName)
}

func (m *Model) copyLocation() tea.Cmd {
	f := m.selected()
	if f == nil {
		return status("No finding selected")
	}
	loc := f.Location
	if f.Line > 0 {
		loc = fmt.Sprintf("%s:%d", f.Location, f.Line)
	}
	if err := m.copy(loc); err != nil {
		return status("Clipboard error: %v", err)
	}
	return status("Copied: %s", loc)
}

// findingDetails is the plain-text form copied by "Y".
func (m *Model) findingDetails(f types.Finding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type: %s\n", f.Type)
	fmt.Fprintf(&sb, "Severity: %s\n", f.Severity)
	fmt.Fprintf(&sb, "Location: %s\n", f.Location)
	if f.Line > 0 {
		fmt.Fprintf(&sb, "Line: %d\n", f.Line)
	}
	fmt.Fprintf(&sb, "Description: %s\n", f.Description)
	if f.Context != "" {
		fmt.Fprintf(&sb, "\nContext:\n%s\n", m.masked(f, f.Context))
	}
	return sb.String()
}

func (m *Model) copyFinding() tea.Cmd {
	f := m.selected()
	if f == nil {
		return status("No finding selected")
	}
	if err := m.copy(m.findingDetails(*f)); err != nil {
		return status("Clipboard error: %v", err)
	}
	return status("Copied finding details to clipboard")
}

// editorArgs builds the command line that opens path at line in editor.
func editorArgs(editor, path string, line int) []string {
	if line < 1 {
		line = 1
	}
	switch filepath.Base(editor) {
	case "code", "code-insiders":
		return []string{"-g", fmt.Sprintf("%s:%d", path, line)}
	case "subl", "sublime", "sublime_text":
		return []string{fmt.Sprintf("%s:%d", path, line)}
	default:
		return []string{fmt.Sprintf("+%d", line), path}
	}
}

func (m *Model) openEditor() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}
	path := m.resolve(f.Location)
	if path == "" {
		return status("Finding has no single file to open")
	}
	if _, err := os.Stat(path); err != nil {
		return status("Cannot open %s: %v", f.Location, err)
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	c := exec.Command(editor, editorArgs(editor, path, f.Line)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return statusMsg(fmt.Sprintf("Error opening editor: %v", err))
		}
		return statusMsg("Editor closed")
	})
}
