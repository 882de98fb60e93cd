package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmvrbanac/ghost-scrub/internal/engine"
)

// Run starts the interactive browser over a freshly completed run.
func Run(res engine.Result, rescanFunc func() (engine.Result, error)) error {
	m := NewModel(res, rescanFunc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// RunCached starts the browser over saved results from an earlier run.
func RunCached(res engine.Result, rescanFunc func() (engine.Result, error), timestamp time.Time) error {
	m := NewModel(res, rescanFunc)
	m.viewingCached = true
	m.cachedTimestamp = timestamp
	m.lastScanTime = timestamp // saved-run age, not TUI start time
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
