package tui

import (
	"strings"
	"testing"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

func sampleChanges() []scrub.Change {
	return []scrub.Change{
		{Path: "src/config.go", Line: 3, Kind: scrub.KindRemovedChar, Codepoint: "U+200B", Label: "ZWS", Original: "x\u2983ZWS\u2984y", Cleaned: "xy"},
		{Path: "src/main.go", Line: 10, Kind: scrub.KindTrailingWhitespaceTrimmed, Label: "SP+SP", Original: "ok\u2983TRAILING: SP+SP\u2984", Cleaned: "ok"},
		{Path: "docs/readme.md", Line: 7, Kind: scrub.KindWhitespaceOnlyToEmpty, Label: "TAB+TAB", Original: "\u2983WHITESPACE-ONLY: TAB+TAB\u2984", Cleaned: ""},
	}
}

func newTestModel(changes []scrub.Change) Model {
	return NewModel(engine.Result{Changes: changes}, nil)
}

// =============================================================================
// Search & Filter Tests
// =============================================================================

func TestApplyFilters_SearchQuery(t *testing.T) {
	m := newTestModel(sampleChanges())

	// Search by path
	m.searchQuery = "config"
	m.applyFilters()

	if len(m.filteredChanges) != 1 {
		t.Errorf("expected 1 change matching 'config', got %d", len(m.filteredChanges))
	}
	if m.filteredChanges[0].Path != "src/config.go" {
		t.Errorf("expected src/config.go, got %s", m.filteredChanges[0].Path)
	}

	// Search by label
	m.searchQuery = "ZWS"
	m.applyFilters()

	if len(m.filteredChanges) != 1 {
		t.Errorf("expected 1 change matching 'ZWS', got %d", len(m.filteredChanges))
	}

	// Search by codepoint
	m.searchQuery = "u+200b"
	m.applyFilters()

	if len(m.filteredChanges) != 1 {
		t.Errorf("expected 1 change matching 'u+200b' (case insensitive), got %d", len(m.filteredChanges))
	}

	// Search by visualized original text
	m.searchQuery = "trailing"
	m.applyFilters()

	if len(m.filteredChanges) != 1 {
		t.Errorf("expected 1 change matching 'trailing', got %d", len(m.filteredChanges))
	}

	// Both .go paths
	m.searchQuery = "src/"
	m.applyFilters()

	if len(m.filteredChanges) != 2 {
		t.Errorf("expected 2 changes matching 'src/', got %d", len(m.filteredChanges))
	}
}

func TestApplyFilters_KindFilter(t *testing.T) {
	m := newTestModel(sampleChanges())

	m.kindFilter = scrub.KindTrailingWhitespaceTrimmed
	m.applyFilters()

	if len(m.filteredChanges) != 1 {
		t.Fatalf("expected 1 trailing change, got %d", len(m.filteredChanges))
	}
	if m.filteredChanges[0].Path != "src/main.go" {
		t.Errorf("expected src/main.go, got %s", m.filteredChanges[0].Path)
	}
}

func TestApplyFilters_Combined(t *testing.T) {
	m := newTestModel(sampleChanges())

	m.searchQuery = "src"
	m.kindFilter = scrub.KindRemovedChar
	m.applyFilters()

	if len(m.filteredChanges) != 1 {
		t.Fatalf("expected 1 change for combined filter, got %d", len(m.filteredChanges))
	}
	if m.filteredChanges[0].Label != "ZWS" {
		t.Errorf("expected the ZWS change, got %s", m.filteredChanges[0].Label)
	}
}

func TestApplyFilters_NoMatchesIsEmptyNotNil(t *testing.T) {
	m := newTestModel(sampleChanges())

	m.searchQuery = "does-not-exist"
	m.applyFilters()

	if m.filteredChanges == nil {
		t.Fatal("no matches should produce an empty filtered slice, not nil")
	}
	if len(m.getDisplayChanges()) != 0 {
		t.Errorf("expected 0 displayed changes, got %d", len(m.getDisplayChanges()))
	}
}

func TestClearFilters(t *testing.T) {
	m := newTestModel(sampleChanges())

	m.searchQuery = "config"
	m.kindFilter = scrub.KindRemovedChar
	m.applyFilters()

	if len(m.getDisplayChanges()) != 1 {
		t.Fatalf("setup: expected 1 filtered change, got %d", len(m.getDisplayChanges()))
	}

	m.clearFilters()

	if m.searchQuery != "" || m.kindFilter != "" {
		t.Error("clearFilters should reset query and kind filter")
	}
	if m.filteredChanges != nil {
		t.Error("clearFilters should drop the filtered slice")
	}
	if len(m.getDisplayChanges()) != 3 {
		t.Errorf("expected all 3 changes after clear, got %d", len(m.getDisplayChanges()))
	}
}

func TestToggleKindFilter(t *testing.T) {
	m := newTestModel(sampleChanges())

	m.toggleKindFilter(scrub.KindRemovedChar)
	if m.kindFilter != scrub.KindRemovedChar {
		t.Error("first toggle should set the filter")
	}

	m.toggleKindFilter(scrub.KindRemovedChar)
	if m.kindFilter != "" {
		t.Error("second toggle of the same kind should clear the filter")
	}

	m.toggleKindFilter(scrub.KindRemovedChar)
	m.toggleKindFilter(scrub.KindWhitespaceOnlyToEmpty)
	if m.kindFilter != scrub.KindWhitespaceOnlyToEmpty {
		t.Error("toggling a different kind should switch the filter")
	}
}

func TestGetOriginalIndex(t *testing.T) {
	m := newTestModel(sampleChanges())

	// No filter: identity mapping
	if got := m.getOriginalIndex(1); got != 1 {
		t.Errorf("unfiltered index 1 should map to 1, got %d", got)
	}
	if got := m.getOriginalIndex(99); got != -1 {
		t.Errorf("out of range should map to -1, got %d", got)
	}

	// Filtered: display 0 maps back to changes index 2
	m.kindFilter = scrub.KindWhitespaceOnlyToEmpty
	m.applyFilters()

	if got := m.getOriginalIndex(0); got != 2 {
		t.Errorf("filtered index 0 should map to 2, got %d", got)
	}
	if got := m.getOriginalIndex(1); got != -1 {
		t.Errorf("past end of filter should map to -1, got %d", got)
	}
}

// =============================================================================
// Sort Tests
// =============================================================================

func TestCycleSortColumn(t *testing.T) {
	m := newTestModel(sampleChanges())

	want := []string{SortPath, SortKind, SortLabel, SortDefault}
	for _, expected := range want {
		m.cycleSortColumn()
		if m.sortColumn != expected {
			t.Errorf("expected sort column %q, got %q", expected, m.sortColumn)
		}
	}
}

func TestToggleSortReverse(t *testing.T) {
	m := newTestModel(sampleChanges())

	m.toggleSortReverse()
	if !m.sortReverse {
		t.Error("first toggle should enable reverse sort")
	}

	m.toggleSortReverse()
	if m.sortReverse {
		t.Error("second toggle should disable reverse sort")
	}
}

func TestSortChanges_DefaultIsPathThenLine(t *testing.T) {
	changes := []scrub.Change{
		{Path: "b.go", Line: 5, Kind: scrub.KindRemovedChar},
		{Path: "a.go", Line: 9, Kind: scrub.KindRemovedChar},
		{Path: "a.go", Line: 2, Kind: scrub.KindRemovedChar},
	}
	m := newTestModel(changes)

	m.sortChanges()

	if m.changes[0].Path != "a.go" || m.changes[0].Line != 2 {
		t.Errorf("expected a.go:2 first, got %s:%d", m.changes[0].Path, m.changes[0].Line)
	}
	if m.changes[2].Path != "b.go" {
		t.Errorf("expected b.go last, got %s", m.changes[2].Path)
	}
}

func TestSortChanges_ByLabelReversed(t *testing.T) {
	m := newTestModel(sampleChanges())

	m.sortColumn = SortLabel
	m.sortReverse = true
	m.sortChanges()

	// Labels: ZWS > TAB+TAB > SP+SP in reverse order
	if m.changes[0].Label != "ZWS" {
		t.Errorf("expected ZWS first in reversed label sort, got %s", m.changes[0].Label)
	}
	if m.changes[2].Label != "SP+SP" {
		t.Errorf("expected SP+SP last, got %s", m.changes[2].Label)
	}
}

func TestGetSortIndicator(t *testing.T) {
	m := newTestModel(sampleChanges())

	if got := m.getSortIndicator(); got != "" {
		t.Errorf("default sort should have no indicator, got %q", got)
	}

	m.sortColumn = SortKind
	if got := m.getSortIndicator(); !strings.Contains(got, "kind") || !strings.Contains(got, "asc") {
		t.Errorf("expected kind/asc indicator, got %q", got)
	}

	m.sortReverse = true
	if got := m.getSortIndicator(); !strings.Contains(got, "desc") {
		t.Errorf("expected desc indicator, got %q", got)
	}
}

// =============================================================================
// Display Helper Tests
// =============================================================================

func TestKindText(t *testing.T) {
	tests := []struct {
		kind     scrub.Kind
		expected string
	}{
		{scrub.KindRemovedChar, "CHAR"},
		{scrub.KindTrailingWhitespaceTrimmed, "TRAIL"},
		{scrub.KindWhitespaceOnlyToEmpty, "BLANK"},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := kindText(tt.kind); got != tt.expected {
				t.Errorf("kindText(%s) = %s, want %s", tt.kind, got, tt.expected)
			}
		})
	}
}

func TestKindLong(t *testing.T) {
	tests := []struct {
		kind     scrub.Kind
		expected string
	}{
		{scrub.KindRemovedChar, "removed character"},
		{scrub.KindTrailingWhitespaceTrimmed, "trailing whitespace trimmed"},
		{scrub.KindWhitespaceOnlyToEmpty, "whitespace-only line collapsed"},
	}

	for _, tt := range tests {
		if got := kindLong(tt.kind); got != tt.expected {
			t.Errorf("kindLong(%s) = %s, want %s", tt.kind, got, tt.expected)
		}
	}
}

func TestKindCounts(t *testing.T) {
	changes := append(sampleChanges(), scrub.Change{Path: "x.go", Line: 1, Kind: scrub.KindRemovedChar, Label: "BOM"})
	m := newTestModel(changes)

	removed, trailing, blank := m.kindCounts()
	if removed != 2 || trailing != 1 || blank != 1 {
		t.Errorf("kindCounts = (%d, %d, %d), want (2, 1, 1)", removed, trailing, blank)
	}

	// Counts cover the full set even while filtered
	m.kindFilter = scrub.KindRemovedChar
	m.applyFilters()
	removed, trailing, blank = m.kindCounts()
	if removed != 2 || trailing != 1 || blank != 1 {
		t.Errorf("filtered kindCounts = (%d, %d, %d), want (2, 1, 1)", removed, trailing, blank)
	}
}

func TestChangeRow(t *testing.T) {
	c := scrub.Change{Path: "a.go", Line: 42, Kind: scrub.KindRemovedChar, Label: "NBSP"}
	row := changeRow(c)

	if row[0] != "a.go" || row[1] != "42" || row[2] != "CHAR" || row[3] != "NBSP" {
		t.Errorf("unexpected row: %v", row)
	}
}

// =============================================================================
// Syntax Highlighting Tests
// =============================================================================

func TestHighlightLine_Go(t *testing.T) {
	code := `func main() { fmt.Println("hello") }`
	result := highlightLine(code, "main.go")

	// Result should contain ANSI escape codes (syntax highlighting)
	if !strings.Contains(result, "\x1b[") {
		t.Error("expected ANSI escape codes in highlighted Go code")
	}

	// Should still contain the original text
	if !strings.Contains(result, "func") {
		t.Error("highlighted code should contain 'func'")
	}
}

func TestHighlightLine_UnknownExtension(t *testing.T) {
	code := "some random text"
	result := highlightLine(code, "file.unknown")

	// Unknown extensions should return original code
	if result != code {
		t.Errorf("unknown extension should return original code, got: %s", result)
	}
}

// =============================================================================
// Detail Pane Tests
// =============================================================================

func TestDetailContent_WithMarkers(t *testing.T) {
	m := newTestModel(sampleChanges())
	m.prefs.ShowMarkers = true

	content := m.detailContent(m.changes[0])

	if !strings.Contains(content, "src/config.go:3") {
		t.Error("detail should include file and line")
	}
	if !strings.Contains(content, "removed character") {
		t.Error("detail should spell out the kind")
	}
	if !strings.Contains(content, "U+200B") {
		t.Error("detail should include the codepoint")
	}
	if !strings.Contains(content, "\u2983ZWS\u2984") {
		t.Error("detail should include the marker rendering of the original line")
	}
	if !strings.Contains(content, "Cleaned:") {
		t.Error("detail should include the cleaned line")
	}
}

func TestDetailContent_MarkersOff(t *testing.T) {
	m := newTestModel(sampleChanges())
	m.prefs.ShowMarkers = false

	content := m.detailContent(m.changes[0])

	if strings.Contains(content, "Original:") {
		t.Error("markers off should hide the original rendering")
	}
	if !strings.Contains(content, "Cleaned:") {
		t.Error("markers off should still show the cleaned line")
	}
}

func TestDetailContent_EmptyCleanedLine(t *testing.T) {
	m := newTestModel(sampleChanges())

	// The whitespace-only change collapses to an empty line
	content := m.detailContent(m.changes[2])

	if !strings.Contains(content, "(empty line)") {
		t.Error("empty cleaned line should render a placeholder")
	}
}

// =============================================================================
// Action Helper Tests
// =============================================================================

func TestGetSelectedChange(t *testing.T) {
	m := newTestModel(sampleChanges())

	c := m.getSelectedChange()
	if c == nil {
		t.Fatal("expected a selected change with cursor at 0")
	}
	if c.Path != "src/config.go" {
		t.Errorf("expected first change selected, got %s", c.Path)
	}
}

func TestGetSelectedChange_Empty(t *testing.T) {
	m := newTestModel(nil)

	if c := m.getSelectedChange(); c != nil {
		t.Errorf("empty model should have no selection, got %+v", c)
	}
}

func TestFormatChangeDetails(t *testing.T) {
	c := sampleChanges()[0]
	details := formatChangeDetails(c)

	for _, want := range []string{"File: src/config.go:3", "Kind: removed character", "Label: ZWS", "Codepoint: U+200B", "Cleaned: xy"} {
		if !strings.Contains(details, want) {
			t.Errorf("details missing %q:\n%s", want, details)
		}
	}
}

func TestChangesToCSV(t *testing.T) {
	data, err := changesToCSV(sampleChanges())
	if err != nil {
		t.Fatalf("changesToCSV failed: %v", err)
	}

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 records, got %d lines", len(lines))
	}
	if lines[0] != "file,line,kind,label,codepoint,original,cleaned" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "src/config.go,3,removed_char,ZWS,U+200B") {
		t.Errorf("unexpected first record: %s", lines[1])
	}
}

func TestExportChanges_Empty(t *testing.T) {
	m := newTestModel(nil)

	cmd := m.exportChanges("json")
	if cmd == nil {
		t.Fatal("exportChanges should return a command even when empty")
	}

	msg := cmd()
	status, ok := msg.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", msg)
	}
	if !strings.Contains(string(status), "No changes to export") {
		t.Errorf("unexpected status: %s", status)
	}
}

// =============================================================================
// Sequential Operation Tests
// =============================================================================
// Bubble Tea models are single-threaded by design: every update goes through
// Update sequentially. These verify rapid operation sequences stay consistent.

func TestRapidFilterOperations(t *testing.T) {
	changes := make([]scrub.Change, 100)
	for i := range changes {
		changes[i] = scrub.Change{Path: "file.go", Line: i + 1, Kind: scrub.KindRemovedChar, Label: "ZWS"}
	}
	m := newTestModel(changes)

	for i := 0; i < 50; i++ {
		m.searchQuery = "file"
		m.applyFilters()
		m.kindFilter = scrub.KindRemovedChar
		m.applyFilters()
		m.clearFilters()
	}

	if len(m.getDisplayChanges()) != 100 {
		t.Errorf("expected all changes after rapid operations, got %d", len(m.getDisplayChanges()))
	}
}

func TestEmptyChanges(t *testing.T) {
	m := newTestModel(nil)

	if !m.showEmpty {
		t.Error("model over no changes should mark showEmpty")
	}

	m.applyFilters()
	m.clearFilters()
	m.sortChanges()

	if len(m.getDisplayChanges()) != 0 {
		t.Errorf("expected 0 display changes, got %d", len(m.getDisplayChanges()))
	}
}
