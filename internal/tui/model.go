package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
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

	removedCharStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	trailingWSStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	blankLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// kindText returns plain text for a change kind (ANSI codes break table truncation).
func kindText(k scrub.Kind) string {
	switch k {
	case scrub.KindRemovedChar:
		return "CHAR"
	case scrub.KindTrailingWhitespaceTrimmed:
		return "TRAIL"
	case scrub.KindWhitespaceOnlyToEmpty:
		return "BLANK"
	default:
		return string(k)
	}
}

// kindLong is the spelled-out form used in the detail pane.
func kindLong(k scrub.Kind) string {
	switch k {
	case scrub.KindRemovedChar:
		return "removed character"
	case scrub.KindTrailingWhitespaceTrimmed:
		return "trailing whitespace trimmed"
	case scrub.KindWhitespaceOnlyToEmpty:
		return "whitespace-only line collapsed"
	default:
		return string(k)
	}
}

func kindStyle(k scrub.Kind) lipgloss.Style {
	switch k {
	case scrub.KindRemovedChar:
		return removedCharStyle
	case scrub.KindTrailingWhitespaceTrimmed:
		return trailingWSStyle
	default:
		return blankLineStyle
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

// Model is the state of the interactive results browser.
type Model struct {
	table           table.Model
	viewport        viewport.Model
	spinner         spinner.Model
	changes         []scrub.Change
	filteredChanges []scrub.Change // changes after filters applied (nil = no filter)
	filteredIndices []int          // maps filtered index to original changes index
	stats           engine.Stats
	prefs           Prefs
	quitting        bool
	ready           bool      // terminal dimensions are known
	scanning        bool      // rescan in progress
	hasScannedOnce  bool      // first scan has completed
	viewingCached   bool      // browsing a saved run, not a live one
	cachedTimestamp time.Time // timestamp of the saved run
	lastScanTime    time.Time
	height          int
	width           int
	statusMessage   string
	statusTimeout   *time.Time // when to restore the default status line
	rescanFunc      func() (engine.Result, error)
	showEmpty       bool
	showHelp        bool

	// Search & filter state
	searchMode  bool            // search input is active
	searchInput textinput.Model // text input for search
	searchQuery string          // current committed query
	kindFilter  scrub.Kind      // filter by kind ("" = no filter)

	// Sort state
	sortColumn  string // "path", "kind", "label", "" (path+line default)
	sortReverse bool

	// Export mode state
	showExportMenu bool
}

type statusMsg string

// changesMsg carries a completed rescan back into the model.
type changesMsg engine.Result

// Sort column constants
const (
	SortDefault = ""
	SortPath    = "path"
	SortKind    = "kind"
	SortLabel   = "label"
)

const defaultStatusLine = "q: quit | ?: help | j/k: navigate | enter: open | c: copy | e: export | r: rescan"

// NewModel initializes the browser over a completed run.
func NewModel(res engine.Result, rescanFunc func() (engine.Result, error)) Model {
	columns := []table.Column{
		{Title: "File", Width: 40},
		{Title: "Line", Width: 6},
		{Title: "Kind", Width: 7},
		{Title: "Label", Width: 14},
	}

	changes := res.Changes
	rows := make([]table.Row, len(changes))
	for i, c := range changes {
		rows[i] = changeRow(c)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
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

	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)

	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search path, label, or text..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	m := Model{
		table:          t,
		spinner:        sp,
		changes:        changes,
		stats:          res.Stats,
		prefs:          LoadPrefs(),
		rescanFunc:     rescanFunc,
		showEmpty:      len(changes) == 0,
		hasScannedOnce: true,
		lastScanTime:   time.Now(),
		searchInput:    ti,
	}

	if m.showEmpty {
		m.statusMessage = "q: quit | r: rescan"
	} else {
		m.statusMessage = defaultStatusLine
	}

	return m
}

func changeRow(c scrub.Change) table.Row {
	return table.Row{
		c.Path,
		strconv.Itoa(c.Line),
		kindText(c.Kind),
		c.Label,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) rescan() tea.Cmd {
	return func() tea.Msg {
		if m.rescanFunc == nil {
			return statusMsg("Rescan not available")
		}

		res, err := m.rescanFunc()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}

		return changesMsg(res)
	}
}

// getDisplayChanges returns the slice the table is currently showing.
func (m *Model) getDisplayChanges() []scrub.Change {
	if m.filteredChanges != nil {
		return m.filteredChanges
	}
	return m.changes
}

// getOriginalIndex maps a display row back to m.changes.
func (m *Model) getOriginalIndex(displayIdx int) int {
	if m.filteredChanges == nil {
		if displayIdx >= 0 && displayIdx < len(m.changes) {
			return displayIdx
		}
		return -1
	}
	if displayIdx >= 0 && displayIdx < len(m.filteredIndices) {
		return m.filteredIndices[displayIdx]
	}
	return -1
}

// applyFilters recomputes filteredChanges from the search query and kind filter.
func (m *Model) applyFilters() {
	if m.searchQuery == "" && m.kindFilter == "" {
		m.filteredChanges = nil
		m.filteredIndices = nil
		m.rebuildTableRows()
		return
	}

	query := strings.ToLower(m.searchQuery)
	filtered := []scrub.Change{}
	indices := []int{}
	for i, c := range m.changes {
		if m.kindFilter != "" && c.Kind != m.kindFilter {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(c.Path + " " + c.Label + " " + c.Codepoint + " " + c.Original)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		filtered = append(filtered, c)
		indices = append(indices, i)
	}

	m.filteredChanges = filtered
	m.filteredIndices = indices
	m.rebuildTableRows()
}

func (m *Model) clearFilters() {
	m.searchQuery = ""
	m.kindFilter = ""
	m.searchInput.SetValue("")
	m.filteredChanges = nil
	m.filteredIndices = nil
	m.rebuildTableRows()
}

func (m *Model) rebuildTableRows() {
	display := m.getDisplayChanges()
	rows := make([]table.Row, len(display))
	for i, c := range display {
		rows[i] = changeRow(c)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
	m.updateViewportContent()
}

func (m *Model) toggleKindFilter(k scrub.Kind) {
	if m.kindFilter == k {
		m.kindFilter = ""
	} else {
		m.kindFilter = k
	}
	m.applyFilters()
}

// cycleSortColumn advances default -> path -> kind -> label -> default.
func (m *Model) cycleSortColumn() {
	switch m.sortColumn {
	case SortDefault:
		m.sortColumn = SortPath
	case SortPath:
		m.sortColumn = SortKind
	case SortKind:
		m.sortColumn = SortLabel
	default:
		m.sortColumn = SortDefault
	}
	m.sortChanges()
}

func (m *Model) toggleSortReverse() {
	m.sortReverse = !m.sortReverse
	m.sortChanges()
}

// sortChanges reorders m.changes in place and reapplies any active filter.
func (m *Model) sortChanges() {
	less := func(a, b scrub.Change) bool {
		switch m.sortColumn {
		case SortKind:
			if a.Kind != b.Kind {
				return a.Kind < b.Kind
			}
			return a.Path < b.Path
		case SortLabel:
			if a.Label != b.Label {
				return a.Label < b.Label
			}
			return a.Path < b.Path
		default:
			if a.Path != b.Path {
				return a.Path < b.Path
			}
			return a.Line < b.Line
		}
	}
	sort.SliceStable(m.changes, func(i, j int) bool {
		if m.sortReverse {
			return less(m.changes[j], m.changes[i])
		}
		return less(m.changes[i], m.changes[j])
	})
	m.applyFilters()
}

func (m *Model) getSortIndicator() string {
	if m.sortColumn == SortDefault && !m.sortReverse {
		return ""
	}
	name := m.sortColumn
	if name == "" {
		name = "path"
	}
	dir := "asc"
	if m.sortReverse {
		dir = "desc"
	}
	return fmt.Sprintf("  |  Sort: %s (%s)", name, dir)
}

// kindCounts tallies the full change set, not just the filtered view.
func (m *Model) kindCounts() (removed, trailing, blank int) {
	for _, c := range m.changes {
		switch c.Kind {
		case scrub.KindRemovedChar:
			removed++
		case scrub.KindTrailingWhitespaceTrimmed:
			trailing++
		case scrub.KindWhitespaceOnlyToEmpty:
			blank++
		}
	}
	return
}

// highlightLine applies syntax highlighting to a single line based on the
// filename extension. Returns the input unchanged when no lexer matches.
func highlightLine(line, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := ""
		if idx := strings.LastIndex(filename, "."); idx != -1 {
			ext = filename[idx:]
		}
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
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

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *Model) updateViewportContent() {
	display := m.getDisplayChanges()
	if len(display) == 0 || !m.ready {
		m.viewport.SetContent("")
		return
	}

	idx := m.table.Cursor()
	if idx >= 0 && idx < len(display) {
		m.viewport.SetContent(m.detailContent(display[idx]))
	}
}

// detailContent renders the lower pane for one change.
func (m *Model) detailContent(c scrub.Change) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n\n", titleStyle.Render("Change Details")))

	b.WriteString(fmt.Sprintf("%s %s:%d\n", keyStyle.Render("File:"), c.Path, c.Line))
	b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Kind:"), kindStyle(c.Kind).Render(kindLong(c.Kind))))
	if c.Label != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Label:"), c.Label))
	}
	if c.Codepoint != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Codepoint:"), c.Codepoint))
	}
	b.WriteString("\n")

	// Markers render removed content as visible placeholders. With markers
	// off, only the cleaned line is shown, highlighted for its file type.
	if m.prefs.ShowMarkers && c.Original != "" {
		b.WriteString(fmt.Sprintf("%s\n", keyStyle.Render("Original:")))
		b.WriteString(fmt.Sprintf("  %s\n\n", kindStyle(c.Kind).Render(c.Original)))
	}
	b.WriteString(fmt.Sprintf("%s\n", keyStyle.Render("Cleaned:")))
	if c.Cleaned == "" {
		b.WriteString(fmt.Sprintf("  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true).Render("(empty line)")))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", highlightLine(c.Cleaned, c.Path)))
	}

	return b.String()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Help overlay swallows every key.
	if m.showHelp {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.showHelp = false
			return m, nil
		}
	}

	// Export menu is modal.
	if m.showExportMenu {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "1", "j":
				m.showExportMenu = false
				return m, m.exportChanges("json")
			case "2", "c":
				m.showExportMenu = false
				return m, m.exportChanges("csv")
			case "esc", "q":
				m.showExportMenu = false
				return m, nil
			}
			return m, nil
		}
	}

	// Search input captures keys until committed or cancelled.
	if m.searchMode {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				m.clearFilters()
				return m, nil
			case "enter":
				m.searchMode = false
				m.searchInput.Blur()
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				return m, nil
			default:
				var cmd tea.Cmd
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				return m, cmd
			}
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "esc":
			if m.searchQuery != "" || m.kindFilter != "" {
				m.clearFilters()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case "?":
			m.showHelp = true
			return m, nil

		case "/":
			m.searchMode = true
			m.searchInput.Focus()
			return m, textinput.Blink

		case "1":
			m.toggleKindFilter(scrub.KindRemovedChar)
			return m, nil
		case "2":
			m.toggleKindFilter(scrub.KindTrailingWhitespaceTrimmed)
			return m, nil
		case "3":
			m.toggleKindFilter(scrub.KindWhitespaceOnlyToEmpty)
			return m, nil

		case "s":
			m.cycleSortColumn()
			return m, nil
		case "S":
			m.toggleSortReverse()
			return m, nil

		case "r":
			if m.scanning {
				return m, nil
			}
			m.scanning = true
			m.statusMessage = "Rescanning..."
			return m, tea.Batch(m.rescan(), m.spinner.Tick)

		case "c", "y":
			return m, m.copyCleanedLine()
		case "C", "Y":
			return m, m.copyChangeDetails()

		case "e", "x":
			m.showExportMenu = true
			return m, nil

		case "m":
			m.prefs.ShowMarkers = !m.prefs.ShowMarkers
			if err := SavePrefs(m.prefs); err != nil {
				m.statusMessage = fmt.Sprintf("Could not save prefs: %v", err)
			} else if m.prefs.ShowMarkers {
				m.statusMessage = "Markers on: removed content shown as placeholders"
			} else {
				m.statusMessage = "Markers off: showing cleaned lines only"
			}
			timeout := time.Now().Add(3 * time.Second)
			m.statusTimeout = &timeout
			m.updateViewportContent()
			return m, nil

		case "enter", "o":
			return m, m.openEditor()

		case "g", "home":
			m.table.SetCursor(0)
			m.updateViewportContent()
			return m, nil
		case "G", "end":
			if n := len(m.getDisplayChanges()); n > 0 {
				m.table.SetCursor(n - 1)
			}
			m.updateViewportContent()
			return m, nil

		case "down", "j", "up", "k":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			m.updateViewportContent()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		usableWidth := m.width - 10
		lineWidth := 6
		kindWidth := 7
		labelWidth := 14
		fileWidth := usableWidth - lineWidth - kindWidth - labelWidth
		if fileWidth < 25 {
			fileWidth = 25
		}

		cols := m.table.Columns()
		cols[0].Width = fileWidth
		cols[1].Width = lineWidth
		cols[2].Width = kindWidth
		cols[3].Width = labelWidth
		m.table.SetColumns(cols)

		statsHeaderHeight := 1
		availableHeight := m.height - lipgloss.Height(statusStyle.Render("")) - statsHeaderHeight
		tableHeight := int(float64(availableHeight) * 0.45)
		viewportHeight := availableHeight - tableHeight - detailPaneBorderStyle.GetVerticalFrameSize() - 1

		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)

		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()
		statusStyle = statusStyle.Width(m.width)

	case changesMsg:
		m.changes = msg.Changes
		m.stats = msg.Stats
		m.showEmpty = len(m.changes) == 0
		m.lastScanTime = time.Now()
		m.viewingCached = false

		m.sortChanges()
		if m.showEmpty {
			m.table.SetCursor(0)
		}
		m.updateViewportContent()

		m.scanning = false
		m.hasScannedOnce = true
		timeout := time.Now().Add(5 * time.Second)
		m.statusTimeout = &timeout
		if m.showEmpty {
			m.statusMessage = "Rescan complete - no invisible characters found"
		} else {
			m.statusMessage = fmt.Sprintf("Rescan complete - %d changes across %d files", len(m.changes), m.stats.FilesScanned)
		}

	case statusMsg:
		timeout := time.Now().Add(3 * time.Second)
		m.statusTimeout = &timeout
		m.statusMessage = string(msg)

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			if m.showEmpty {
				m.statusMessage = "q: quit | r: rescan"
			} else {
				m.statusMessage = defaultStatusLine
			}
		}
		return m, spinCmd
	}

	if !m.quitting && !m.showEmpty {
		shouldUpdate := true
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			key := keyMsg.String()
			if key == "down" || key == "j" || key == "up" || key == "k" {
				shouldUpdate = false
			}
		}
		if shouldUpdate {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp {
		return m.helpView()
	}
	if m.showExportMenu {
		return m.exportMenuView()
	}

	if m.scanning {
		popup := popupStyle.Render(fmt.Sprintf("%s Rescanning files...", m.spinner.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
	}

	display := m.getDisplayChanges()
	removed, trailing, blank := m.kindCounts()

	var filterInfo string
	if m.kindFilter != "" {
		filterInfo = fmt.Sprintf("  |  Filter: %s", kindText(m.kindFilter))
	}
	if m.searchQuery != "" {
		filterInfo += fmt.Sprintf("  |  Search: %q", m.searchQuery)
	}

	var cachedInfo string
	if m.viewingCached {
		cachedInfo = fmt.Sprintf("  |  Saved run from %s", m.cachedTimestamp.Format("Jan 2, 15:04"))
	}

	var statsContent string
	if len(m.changes) == 0 {
		statsContent = "No invisible characters found"
	} else if m.filteredChanges != nil {
		statsContent = fmt.Sprintf(
			"Showing: %d/%d  |  %s %-4d  |  %s %-4d  |  %s %-4d%s%s%s",
			len(display),
			len(m.changes),
			removedCharStyle.Render("Char:"),
			removed,
			trailingWSStyle.Render("Trail:"),
			trailing,
			blankLineStyle.Render("Blank:"),
			blank,
			filterInfo,
			m.getSortIndicator(),
			cachedInfo,
		)
	} else {
		statsContent = fmt.Sprintf(
			"Total: %-4d  |  %s %-4d  |  %s %-4d  |  %s %-4d%s%s",
			len(m.changes),
			removedCharStyle.Render("Char:"),
			removed,
			trailingWSStyle.Render("Trail:"),
			trailing,
			blankLineStyle.Render("Blank:"),
			blank,
			m.getSortIndicator(),
			cachedInfo,
		)
	}

	statsHeader := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(statsContent)

	tableRender := tableBorderStyle.
		Width(m.width).
		Height(m.table.Height()).
		Render(m.table.View())

	var detailContent string
	if len(display) == 0 {
		var emptyMsg string
		if len(m.changes) == 0 {
			emptyMsg = "Nothing to review.\n\nPress 'r' to rescan\nPress '?' for help"
		} else {
			emptyMsg = "No changes match filter.\n\nPress 'Esc' to clear filter"
		}
		detailContent = lipgloss.Place(
			m.width,
			m.viewport.Height,
			lipgloss.Center,
			lipgloss.Center,
			emptyTextStyle.Render(emptyMsg),
		)
	} else {
		detailContent = m.viewport.View()
	}

	detailRender := detailPaneBorderStyle.
		Width(m.width).
		Height(m.viewport.Height).
		Render(detailContent)

	var timeInfo string
	if m.viewingCached {
		timeInfo = fmt.Sprintf("Viewing: %s", m.cachedTimestamp.Format("Jan 2, 15:04"))
	} else if !m.lastScanTime.IsZero() {
		timeAgo := time.Since(m.lastScanTime)
		timeInfo = fmt.Sprintf("Scanned: %s ago", formatDuration(timeAgo))
	}

	statusLeft := m.statusMessage
	statusRight := timeInfo
	leftWidth := lipgloss.Width(statusLeft)
	rightWidth := lipgloss.Width(statusRight)
	availWidth := m.width - 4
	spacer := availWidth - leftWidth - rightWidth
	if spacer < 1 {
		spacer = 1
	}

	var statusContent string
	if timeInfo != "" {
		statusContent = statusLeft + strings.Repeat(" ", spacer) + statusRight
	} else {
		statusContent = statusLeft
	}

	statusRender := statusStyle.
		Width(m.width).
		Padding(0, 2).
		Render(statusContent)

	var bottomBar string
	if m.searchMode {
		matchCount := len(m.getDisplayChanges())
		searchStatus := fmt.Sprintf(" (%d matches)", matchCount)
		searchBarStyle := lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("15")).
			Width(m.width).
			Padding(0, 1)
		bottomBar = searchBarStyle.Render(m.searchInput.View() + searchStatus)
	} else {
		bottomBar = statusRender
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statsHeader,
		tableRender,
		detailRender,
		bottomBar,
	)
}

func (m Model) helpView() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyColor := lipgloss.Color("10")
	descColor := lipgloss.Color("250")

	formatRow := func(key, desc string) string {
		keyStyled := lipgloss.NewStyle().Foreground(keyColor).Render(key)
		descStyled := lipgloss.NewStyle().Foreground(descColor).Render(desc)
		padding := 12 - len(key)
		if padding < 1 {
			padding = 1
		}
		return "  " + keyStyled + strings.Repeat(" ", padding) + descStyled
	}

	var lines []string
	lines = append(lines, headerStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Navigation"))
	lines = append(lines, formatRow("j / k", "Move down / up"))
	lines = append(lines, formatRow("g / G", "First / last row"))
	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Search & Filter"))
	lines = append(lines, formatRow("/", "Search changes"))
	lines = append(lines, formatRow("1 / 2 / 3", "Filter CHAR / TRAIL / BLANK"))
	lines = append(lines, formatRow("s / S", "Sort / reverse sort"))
	lines = append(lines, formatRow("Esc", "Clear filters"))
	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Export & Copy"))
	lines = append(lines, formatRow("e", "Export (JSON/CSV)"))
	lines = append(lines, formatRow("c / C", "Copy cleaned line / details"))
	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Actions"))
	lines = append(lines, formatRow("Enter", "Open in $EDITOR"))
	lines = append(lines, formatRow("m", "Toggle whitespace markers"))
	lines = append(lines, formatRow("r", "Rescan"))
	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Other"))
	lines = append(lines, formatRow("?", "Toggle help"))
	lines = append(lines, formatRow("q", "Quit"))
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true).
		Render("Press any key to close"))

	helpContent := lipgloss.JoinVertical(lipgloss.Left, lines...)
	helpBox := popupStyle.Width(44).Padding(1, 3).Render(helpContent)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}

func (m Model) exportMenuView() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))

	keyColor := lipgloss.Color("10")

	var lines []string
	lines = append(lines, headerStyle.Render("Export Changes"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  %s  JSON  (full change records)",
		lipgloss.NewStyle().Foreground(keyColor).Bold(true).Render("1/j")))
	lines = append(lines, fmt.Sprintf("  %s  CSV   (spreadsheet friendly)",
		lipgloss.NewStyle().Foreground(keyColor).Bold(true).Render("2/c")))
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true).
		Render("Esc to cancel"))

	menuContent := lipgloss.JoinVertical(lipgloss.Left, lines...)
	menuBox := popupStyle.Width(40).Render(menuContent)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, menuBox)
}
