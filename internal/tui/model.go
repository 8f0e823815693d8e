package tui

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/droidaudit/droidaudit/internal/analysis"
	"github.com/droidaudit/droidaudit/internal/manifest"
	"github.com/droidaudit/droidaudit/internal/report"
	"github.com/droidaudit/droidaudit/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sevInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const defaultStatus = "q: quit | ?: help | j/k: navigate | /: search | b: baseline | i: ignore | y: copy"

// Sort columns, cycled with "s".
const (
	SortDefault  = ""
	SortSeverity = "severity"
	SortLocation = "location"
	SortType     = "type"
)

// severityText returns plain text for severity (ANSI codes break table truncation).
func severityText(s types.Severity) string {
	switch s {
	case types.SevMedium:
		return "MED"
	case "":
		return string(types.SevUnknown)
	default:
		return string(s)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// Options wires the model to the analysis it displays.
type Options struct {
	// Root is the analysis root that finding locations are relative to.
	Root string
	// BaselinePath is read to mark accepted findings and written by "b".
	BaselinePath string
	// Rescan re-runs the analysis; nil disables "r".
	Rescan func() (*analysis.Report, error)
	// Prefs overrides the preferences stored on disk.
	Prefs *Prefs
}

// Model is the findings browser.
type Model struct {
	table       table.Model
	viewport    viewport.Model
	spinner     spinner.Model
	searchInput textinput.Model

	report   *analysis.Report
	findings []types.Finding
	visible  []int // indices into findings after filter and sort

	root         string
	baseline     report.Baseline
	baselinePath string
	rescanFunc   func() (*analysis.Report, error)
	prefs        Prefs
	copy         func(string) error
	now          func() time.Time

	ready      bool
	quitting   bool
	scanning   bool
	showHelp   bool
	searchMode bool
	width      int
	height     int

	statusMessage string
	statusTimeout *time.Time

	searchQuery    string
	severityFilter types.Severity
	sortColumn     string
	sortReverse    bool
	contextLines   int
}

type (
	statusMsg string
	reportMsg struct {
		report *analysis.Report
		err    error
	}
)

// NewModel builds a browser over r.
func NewModel(r *analysis.Report, opts Options) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 8},
		{Title: "Type", Width: 24},
		{Title: "Location", Width: 40},
		{Title: "Description", Width: 35},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search location, type, description or context..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	var prefs Prefs
	if opts.Prefs != nil {
		prefs = *opts.Prefs
	} else {
		prefs = LoadPrefs()
	}
	base := report.Baseline{Items: map[string]bool{}}
	if opts.BaselinePath != "" {
		if b, err := report.LoadBaselineIfExists(opts.BaselinePath); err == nil {
			base = b
		}
	}

	m := Model{
		table:         t,
		spinner:       sp,
		searchInput:   ti,
		root:          opts.Root,
		baseline:      base,
		baselinePath:  opts.BaselinePath,
		rescanFunc:    opts.Rescan,
		prefs:         prefs,
		copy:          clipboard.WriteAll,
		now:           time.Now,
		contextLines:  3,
		statusMessage: defaultStatus,
	}
	m.setReport(r)
	return m
}

func (m *Model) setReport(r *analysis.Report) {
	m.report = r
	m.findings = nil
	if r != nil {
		m.findings = r.Findings
		if m.root == "" {
			m.root = r.Root
		}
	}
	m.applyFilters()
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) rescan() tea.Cmd {
	fn := m.rescanFunc
	return func() tea.Msg {
		r, err := fn()
		return reportMsg{report: r, err: err}
	}
}

// applyFilters recomputes the visible rows from the search query, the
// severity filter and the sort order.
func (m *Model) applyFilters() {
	query := strings.ToLower(m.searchQuery)
	m.visible = make([]int, 0, len(m.findings))
	for i, f := range m.findings {
		if m.severityFilter != "" && f.Severity != m.severityFilter {
			continue
		}
		if query != "" {
			hay := strings.ToLower(f.Location + "\x00" + f.Type + "\x00" + f.Description + "\x00" + f.Context)
			if !strings.Contains(hay, query) {
				continue
			}
		}
		m.visible = append(m.visible, i)
	}
	m.sortVisible()
	m.rebuildTableRows()
}

func (m *Model) sortVisible() {
	if m.sortColumn == SortDefault {
		if m.sortReverse {
			for i, j := 0, len(m.visible)-1; i < j; i, j = i+1, j-1 {
				m.visible[i], m.visible[j] = m.visible[j], m.visible[i]
			}
		}
		return
	}
	less := func(a, b types.Finding) bool {
		switch m.sortColumn {
		case SortSeverity:
			if a.Severity.Rank() != b.Severity.Rank() {
				return a.Severity.Rank() > b.Severity.Rank()
			}
		case SortLocation:
			if a.Location != b.Location {
				return a.Location < b.Location
			}
			return a.Line < b.Line
		case SortType:
			if a.Type != b.Type {
				return a.Type < b.Type
			}
		}
		return false
	}
	sort.SliceStable(m.visible, func(i, j int) bool {
		a, b := m.findings[m.visible[i]], m.findings[m.visible[j]]
		if m.sortReverse {
			return less(b, a)
		}
		return less(a, b)
	})
}

func (m *Model) cycleSortColumn() {
	switch m.sortColumn {
	case SortDefault:
		m.sortColumn = SortSeverity
	case SortSeverity:
		m.sortColumn = SortLocation
	case SortLocation:
		m.sortColumn = SortType
	default:
		m.sortColumn = SortDefault
	}
	m.applyFilters()
}

func (m *Model) getSortIndicator() string {
	if m.sortColumn == SortDefault {
		return ""
	}
	dir := "asc"
	if m.sortReverse {
		dir = "desc"
	}
	return fmt.Sprintf("  [SORT: %s %s]", m.sortColumn, dir)
}

func (m *Model) rebuildTableRows() {
	rows := make([]table.Row, len(m.visible))
	for i, idx := range m.visible {
		f := m.findings[idx]
		sev := severityText(f.Severity)
		if m.baseline.Contains(f) {
			sev = "(b) " + sev
		}
		loc := f.Location
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.Location, f.Line)
		}
		rows[i] = table.Row{sev, f.Type, loc, f.Description}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
	m.updateViewportContent()
}

// selected returns the finding under the cursor.
func (m *Model) selected() *types.Finding {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return nil
	}
	return &m.findings[m.visible[c]]
}

// jumpToSeverity moves the cursor to the next visible finding of sev in
// direction dir (1 forward, -1 backward).
func (m *Model) jumpToSeverity(sev types.Severity, dir int) bool {
	n := len(m.visible)
	for i := m.table.Cursor() + dir; i >= 0 && i < n; i += dir {
		if m.findings[m.visible[i]].Severity == sev {
			m.table.SetCursor(i)
			return true
		}
	}
	return false
}

// resolve maps a finding location to a file under the analysis root.
func (m *Model) resolve(loc string) string {
	switch loc {
	case "", types.LocationMultiple:
		return ""
	case types.LocationManifest:
		loc = manifest.Path
	}
	return filepath.Join(m.root, filepath.FromSlash(loc))
}

// readFileContext returns up to n lines either side of line together with
// the number of the first returned line.
func readFileContext(path string, line, n int) ([]string, int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = fh.Close() }()

	start := line - n
	if start < 1 {
		start = 1
	}
	end := line + n
	var lines []string
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for i := 1; sc.Scan(); i++ {
		if i < start {
			continue
		}
		if i > end {
			break
		}
		lines = append(lines, sc.Text())
	}
	return lines, start, sc.Err()
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

func (m *Model) masked(f types.Finding, line string) string {
	if m.prefs.HideSecrets && f.Category == types.CatHardcodedSecret {
		return redactLiterals(line)
	}
	return line
}

func (m *Model) updateViewportContent() {
	f := m.selected()
	if f == nil || !m.ready {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Finding Details"))
	if m.baseline.Contains(*f) {
		b.WriteString(dimStyle.Italic(true).Render("BASELINED: this finding is accepted. Press 'b' to remove it from the baseline."))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Type:"), f.Type)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Severity:"), f.Severity)
	if f.Category != "" {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Category:"), f.Category)
	}
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Location:"), f.Location)
	if f.Line > 0 {
		fmt.Fprintf(&b, "%s %d\n", keyStyle.Render("Line:"), f.Line)
	}
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Description:"), f.Description)

	hint := fmt.Sprintf(" (+/- to expand/contract, showing %d lines)", m.contextLines*2+1)
	fmt.Fprintf(&b, "\n%s%s\n", keyStyle.Render("Context:"), dimStyle.Render(hint))

	if path := m.resolve(f.Location); path != "" && f.Line > 0 {
		if lines, start, err := readFileContext(path, f.Line, m.contextLines); err == nil && len(lines) > 0 {
			current := lipgloss.NewStyle().Background(lipgloss.Color("236"))
			for i, line := range lines {
				n := start + i
				num := dimStyle.Render(fmt.Sprintf("%4d ", n))
				text := highlightLine(m.masked(*f, line), path)
				if n == f.Line {
					text = current.Render(text)
				}
				b.WriteString(num + text + "\n")
			}
			m.viewport.SetContent(b.String())
			return
		}
	}
	if f.Context != "" {
		b.WriteString(highlightLine(m.masked(*f, f.Context), f.Location))
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) setStatus(msg string, d time.Duration) {
	timeout := m.now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = msg
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchMode = false
				m.searchQuery = strings.TrimSpace(m.searchInput.Value())
				m.searchInput.Blur()
				m.applyFilters()
				m.setStatus(fmt.Sprintf("%d findings match", len(m.visible)), 3*time.Second)
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				return m, nil
			}
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?", "h":
			m.showHelp = true
			return m, nil
		case "/":
			m.searchMode = true
			m.searchInput.SetValue(m.searchQuery)
			return m, m.searchInput.Focus()
		case "1", "2", "3", "4":
			sev := []types.Severity{types.SevHigh, types.SevMedium, types.SevLow, types.SevInfo}[msg.String()[0]-'1']
			m.severityFilter = sev
			m.applyFilters()
			m.setStatus(fmt.Sprintf("Showing %s severity only (Esc to clear)", sev), 3*time.Second)
			return m, nil
		case "esc":
			if m.searchQuery != "" || m.severityFilter != "" {
				m.searchQuery = ""
				m.severityFilter = ""
				m.applyFilters()
				m.setStatus("Filters cleared", 3*time.Second)
			}
			return m, nil
		case "n", "N":
			dir := 1
			if msg.String() == "N" {
				dir = -1
			}
			if m.jumpToSeverity(types.SevHigh, dir) {
				m.updateViewportContent()
			} else {
				m.setStatus("No more HIGH findings", 2*time.Second)
			}
			return m, nil
		case "s":
			m.cycleSortColumn()
			return m, nil
		case "S":
			m.sortReverse = !m.sortReverse
			m.applyFilters()
			return m, nil
		case "+", "=":
			if m.contextLines < 20 {
				m.contextLines++
				m.updateViewportContent()
			}
			return m, nil
		case "-", "_":
			if m.contextLines > 0 {
				m.contextLines--
				m.updateViewportContent()
			}
			return m, nil
		case "H":
			m.prefs.HideSecrets = !m.prefs.HideSecrets
			_ = SavePrefs(m.prefs)
			m.updateViewportContent()
			state := "shown"
			if m.prefs.HideSecrets {
				state = "hidden"
			}
			m.setStatus("Secrets "+state, 3*time.Second)
			return m, nil
		case "b":
			return m, m.toggleBaseline()
		case "i":
			return m, m.ignoreFile()
		case "y":
			return m, m.copyLocation()
		case "Y":
			return m, m.copyFinding()
		case "o", "enter":
			return m, m.openEditor()
		case "r":
			if m.rescanFunc == nil {
				m.setStatus("Rescan not available", 3*time.Second)
				return m, nil
			}
			m.scanning = true
			return m, m.rescan()
		case "g", "home":
			m.table.GotoTop()
			m.updateViewportContent()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			m.updateViewportContent()
			return m, nil
		case "down", "j":
			m.table.MoveDown(1)
			m.updateViewportContent()
			return m, nil
		case "up", "k":
			m.table.MoveUp(1)
			m.updateViewportContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		usable := m.width - 10
		sevWidth, typeWidth := 8, 24
		remaining := usable - sevWidth - typeWidth
		locWidth := int(float64(remaining) * 0.45)
		descWidth := remaining - locWidth
		if locWidth < 25 {
			locWidth = 25
		}
		if descWidth < 25 {
			descWidth = 25
		}
		cols := m.table.Columns()
		cols[0].Width = sevWidth
		cols[1].Width = typeWidth
		cols[2].Width = locWidth
		cols[3].Width = descWidth
		m.table.SetColumns(cols)

		available := m.height - lipgloss.Height(statusStyle.Render("")) - 1
		tableHeight := int(float64(available) * 0.45)
		viewportHeight := available - tableHeight - detailPaneBorderStyle.GetVerticalFrameSize() - 1
		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)
		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case reportMsg:
		m.scanning = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Analysis error: %v", msg.err), 5*time.Second)
			return m, nil
		}
		m.setReport(msg.report)
		m.setStatus(fmt.Sprintf("Analysis complete - %d findings", len(m.findings)), 5*time.Second)
		return m, nil

	case statusMsg:
		m.setStatus(string(msg), 3*time.Second)
		m.rebuildTableRows()
		return m, nil

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && m.now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			m.statusMessage = defaultStatus
		}
		return m, spinCmd
	}

	if !m.quitting && len(m.visible) > 0 {
		m.table, cmd = m.table.Update(msg)
		m.updateViewportContent()
	}
	return m, cmd
}

func (m Model) statsLine() string {
	if len(m.findings) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("[OK] No issues found")
	}
	counts := map[types.Severity]int{}
	for _, i := range m.visible {
		counts[m.findings[i].Severity]++
	}
	total := fmt.Sprintf("Total: %-4d", len(m.findings))
	if len(m.visible) != len(m.findings) {
		total = fmt.Sprintf("Showing: %d/%d", len(m.visible), len(m.findings))
	}
	line := fmt.Sprintf("%s  |  %s %-4d  |  %s %-4d  |  %s %-4d  |  %s %-4d",
		total,
		sevHighStyle.Render("High:"), counts[types.SevHigh],
		sevMedStyle.Render("Med:"), counts[types.SevMedium],
		sevLowStyle.Render("Low:"), counts[types.SevLow],
		sevInfoStyle.Render("Info:"), counts[types.SevInfo],
	)
	if m.report != nil {
		line += fmt.Sprintf("  |  Security %d (%s)  Defense %d (%s)",
			m.report.Risk.Value, m.report.Risk.Rating, m.report.Defense.Value, m.report.Defense.Rating)
	}
	var filters []string
	if m.searchQuery != "" {
		filters = append(filters, fmt.Sprintf("search:'%s'", m.searchQuery))
	}
	if m.severityFilter != "" {
		filters = append(filters, "sev:"+severityText(m.severityFilter))
	}
	if len(filters) > 0 {
		line += fmt.Sprintf("  [FILTER: %s]", strings.Join(filters, ", "))
	}
	return line + m.getSortIndicator()
}

func (m Model) helpView() string {
	section := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	row := func(key, desc string) string {
		pad := 12 - len(key)
		if pad < 1 {
			pad = 1
		}
		return "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(key) +
			strings.Repeat(" ", pad) + lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render(desc)
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Keyboard Shortcuts"),
		"",
		section.Render("Navigation"),
		row("j / k", "Move down / up"),
		row("g / G", "First / last row"),
		row("n / N", "Next / prev HIGH finding"),
		"",
		section.Render("Search & Filter"),
		row("/", "Search findings"),
		row("1-4", "Only HIGH / MEDIUM / LOW / INFO"),
		row("Esc", "Clear filters"),
		row("s / S", "Cycle sort column / reverse"),
		"",
		section.Render("Actions"),
		row("o / Enter", "Open in $EDITOR"),
		row("b", "Toggle baseline"),
		row("i", "Ignore the file"),
		row("y / Y", "Copy location / details"),
		row("+ / -", "More / less context"),
		row("H", "Show or hide secrets"),
		row("r", "Re-run the analysis"),
		row("q", "Quit"),
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.scanning {
		box := popupStyle.Width(55).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s  Analyzing...\n\nPlease wait", m.spinner.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpView())
	}

	header := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(m.statsLine())

	tableRender := tableBorderStyle.Width(m.width).Height(m.table.Height()).Render(m.table.View())

	var detail string
	if len(m.visible) == 0 {
		msg := "No issues to review.\n\nPress '?' for help"
		if len(m.findings) > 0 {
			msg = "No findings match filter.\n\nPress 'Esc' to clear filter"
		}
		detail = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(msg))
	} else {
		detail = m.viewport.View()
	}
	detailRender := detailPaneBorderStyle.Width(m.width).Height(m.viewport.Height).Render(detail)

	status := m.statusMessage
	if m.searchMode {
		status = m.searchInput.View()
	} else if m.report != nil && !m.report.GeneratedAt.IsZero() {
		status += "  |  analyzed " + formatDuration(m.now().Sub(m.report.GeneratedAt)) + " ago"
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, tableRender, detailRender, statusStyle.Width(m.width).Render(status))
}
