package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/olekukonko/tablewriter"
)

type PrintOptions struct {
	NoColor bool
	// Width bounds the context column of the table; 0 selects 60.
	Width int
}

var (
	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sevInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func colorSeverity(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return sevHighStyle.Render(string(s))
	case types.SevMedium:
		return sevMedStyle.Render(string(s))
	case types.SevLow:
		return sevLowStyle.Render(string(s))
	case types.SevInfo:
		return sevInfoStyle.Render(string(s))
	default:
		return string(s)
	}
}

func severityText(s types.Severity, noColor bool) string {
	if s == "" {
		s = types.SevUnknown
	}
	if noColor {
		return string(s)
	}
	return colorSeverity(s)
}

func location(f types.Finding) string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.Location, f.Line)
	}
	return f.Location
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// PrintTable renders findings as a bordered table followed by the summary
// footer.
func PrintTable(w io.Writer, r *analysis.Report, opts PrintOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 60
	}
	if len(r.Findings) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Severity", "Type", "Location", "Description")
		for _, f := range r.Findings {
			row := []string{
				severityText(f.Severity, opts.NoColor),
				f.Type,
				location(f),
				truncate(f.Description, width),
			}
			if err := table.Append(row); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	printFooter(w, r, opts)
	return nil
}

// PrintText renders one block per finding with its highlighted context.
func PrintText(w io.Writer, r *analysis.Report, opts PrintOptions) {
	if len(r.Findings) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		fmt.Fprintf(w, "Findings: %d\n", len(r.Findings))
		for _, f := range r.Findings {
			fmt.Fprintf(w, "\n[%s] %s: %s\n", severityText(f.Severity, opts.NoColor), f.Type, f.Description)
			loc := "  at " + location(f)
			if !opts.NoColor {
				loc = dimStyle.Render(loc)
			}
			fmt.Fprintln(w, loc)
			if f.Context != "" {
				ctx := f.Context
				if !opts.NoColor {
					ctx = highlightLine(ctx, f.Location)
				}
				fmt.Fprintf(w, "    %s\n", ctx)
			}
		}
	}
	printFooter(w, r, opts)
}

func printFooter(w io.Writer, r *analysis.Report, opts PrintOptions) {
	s := r.Summary
	fmt.Fprintln(w)
	title := "Summary"
	if !opts.NoColor {
		title = titleStyle.Render(title)
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d, info: %d",
		s.Total, s.BySeverity[types.SevHigh], s.BySeverity[types.SevMedium], s.BySeverity[types.SevLow], s.BySeverity[types.SevInfo])
	if n := s.BySeverity[types.SevUnknown]; n > 0 {
		fmt.Fprintf(w, ", unknown: %d", n)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Security score: %d (%s)\n", r.Risk.Value, r.Risk.Rating)
	fmt.Fprintf(w, "Defense score: %d (%s)\n", r.Defense.Value, r.Defense.Rating)
	if r.Stats.DurationMS > 0 {
		fmt.Fprintf(w, "Analysis duration: %.2fs\n", (time.Duration(r.Stats.DurationMS) * time.Millisecond).Seconds())
	}
	if r.Stats.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", r.Stats.FilesScanned)
	}
	for _, n := range r.Notes {
		fmt.Fprintf(w, "Skipped %s: %s (%d bytes)\n", n.Path, n.Reason, n.Size)
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintf(w, "Warning: %s\n", d)
	}
}

func highlightLine(line string, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Get("java")
	}
	if lexer == nil {
		return line
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return line
	}
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
