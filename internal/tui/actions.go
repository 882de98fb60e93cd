package tui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// getSelectedChange returns the change under the cursor in the current view.
func (m *Model) getSelectedChange() *scrub.Change {
	display := m.getDisplayChanges()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(display) {
		return nil
	}
	return &display[idx]
}

// copyCleanedLine puts the cleaned rendering of the selected line on the
// system clipboard.
func (m Model) copyCleanedLine() tea.Cmd {
	c := m.getSelectedChange()
	if c == nil {
		return nil
	}

	return func() tea.Msg {
		if err := clipboard.WriteAll(c.Cleaned); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg("Copied cleaned line to clipboard")
	}
}

// copyChangeDetails copies a small text block describing the selected change.
func (m Model) copyChangeDetails() tea.Cmd {
	c := m.getSelectedChange()
	if c == nil {
		return nil
	}

	details := formatChangeDetails(*c)
	return func() tea.Msg {
		if err := clipboard.WriteAll(details); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg("Copied change details to clipboard")
	}
}

func formatChangeDetails(c scrub.Change) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s:%d\n", c.Path, c.Line)
	fmt.Fprintf(&b, "Kind: %s\n", kindLong(c.Kind))
	if c.Label != "" {
		fmt.Fprintf(&b, "Label: %s\n", c.Label)
	}
	if c.Codepoint != "" {
		fmt.Fprintf(&b, "Codepoint: %s\n", c.Codepoint)
	}
	if c.Original != "" {
		fmt.Fprintf(&b, "Original: %s\n", c.Original)
	}
	fmt.Fprintf(&b, "Cleaned: %s\n", c.Cleaned)
	return b.String()
}

// exportChanges writes the currently displayed changes to a timestamped file
// in the working directory.
func (m Model) exportChanges(format string) tea.Cmd {
	changes := m.getDisplayChanges()
	if len(changes) == 0 {
		return func() tea.Msg {
			return statusMsg("No changes to export")
		}
	}

	// Copy before the command runs so later filtering can't change the set.
	snapshot := make([]scrub.Change, len(changes))
	copy(snapshot, changes)

	return func() tea.Msg {
		timestamp := time.Now().Format("20060102-150405")
		filename := fmt.Sprintf("ghost-scrub-export-%s.%s", timestamp, format)

		var data []byte
		var err error
		switch format {
		case "json":
			data, err = json.MarshalIndent(snapshot, "", "  ")
		case "csv":
			data, err = changesToCSV(snapshot)
		default:
			return statusMsg(fmt.Sprintf("Unknown export format: %s", format))
		}
		if err != nil {
			return statusMsg(fmt.Sprintf("Export error: %v", err))
		}

		if err := os.WriteFile(filename, data, 0644); err != nil {
			return statusMsg(fmt.Sprintf("Export error: %v", err))
		}
		return statusMsg(fmt.Sprintf("Exported %d changes to %s", len(snapshot), filename))
	}
}

func changesToCSV(changes []scrub.Change) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"file", "line", "kind", "label", "codepoint", "original", "cleaned"}); err != nil {
		return nil, err
	}
	for _, c := range changes {
		record := []string{
			c.Path,
			strconv.Itoa(c.Line),
			string(c.Kind),
			c.Label,
			c.Codepoint,
			c.Original,
			c.Cleaned,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// openEditor suspends the TUI and opens the selected change in $EDITOR,
// positioned on the affected line where the editor supports it.
func (m Model) openEditor() tea.Cmd {
	c := m.getSelectedChange()
	if c == nil {
		return nil
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	editorBase := editor
	if idx := strings.LastIndex(editor, "/"); idx != -1 {
		editorBase = editor[idx+1:]
	}

	var args []string
	switch editorBase {
	case "code", "code-insiders":
		args = []string{"-g", fmt.Sprintf("%s:%d", c.Path, c.Line)}
	case "subl", "sublime", "sublime_text":
		args = []string{fmt.Sprintf("%s:%d", c.Path, c.Line)}
	case "emacs", "emacsclient":
		args = []string{fmt.Sprintf("+%d", c.Line), c.Path}
	case "nano":
		args = []string{fmt.Sprintf("+%d", c.Line), c.Path}
	case "vi", "vim", "nvim":
		args = []string{fmt.Sprintf("+%d", c.Line), c.Path}
	default:
		args = []string{fmt.Sprintf("+%d", c.Line), c.Path}
	}

	cmd := exec.Command(editor, args...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return statusMsg(fmt.Sprintf("Error opening editor: %v", err))
		}
		return statusMsg("Editor closed")
	})
}
