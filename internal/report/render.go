package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// PrintOptions controls the text and table renderers. Apply switches the
// per-file language from "Would clean" to "Cleaned"; Verbose adds the
// original/cleaned line pairs with invisible characters made visible.
type PrintOptions struct {
	NoColor bool
	Verbose bool
	Apply   bool
	Stats   engine.Stats
}

var (
	removedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	trailingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	collapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

func styleFor(k scrub.Kind) lipgloss.Style {
	switch k {
	case scrub.KindRemovedChar:
		return removedStyle
	case scrub.KindTrailingWhitespaceTrimmed:
		return trailingStyle
	default:
		return collapsedStyle
	}
}

// PrintText renders changes grouped by file, one row per change, followed by
// a summary footer.
func PrintText(w io.Writer, changes []scrub.Change, opts PrintOptions) {
	sortByPathLine(changes)
	if len(changes) == 0 {
		fmt.Fprintln(w, "No invisible characters found ✅")
		printFooter(w, changes, opts)
		return
	}
	action := "Would clean"
	if opts.Apply {
		action = "Cleaned"
	}
	for start := 0; start < len(changes); {
		end := start
		for end < len(changes) && changes[end].Path == changes[start].Path {
			end++
		}
		group := changes[start:end]
		path := group[0].Path
		if !opts.NoColor {
			path = pathStyle.Render(path)
		}
		fmt.Fprintf(w, "%s %d invisible characters from: %s\n", action, len(group), path)
		if opts.Verbose {
			fmt.Fprintln(w, "--- Original")
			fmt.Fprintln(w, "+++ Cleaned")
			for _, c := range group {
				fmt.Fprintf(w, "-%d: %s\n", c.Line, c.Original)
				fmt.Fprintf(w, "+%d: %s\n", c.Line, c.Cleaned)
			}
		} else {
			maxLabel := 4
			for _, c := range group {
				if l := len(c.Label); l > maxLabel {
					maxLabel = l
				}
			}
			for _, c := range group {
				// Pad before styling so ANSI codes don't skew alignment.
				label := fmt.Sprintf("%-*s", maxLabel, c.Label)
				if !opts.NoColor {
					label = styleFor(c.Kind).Render(label)
				}
				fmt.Fprintf(w, "  %4d  %s  %s\n", c.Line, label, describe(c))
			}
		}
		fmt.Fprintln(w)
		start = end
	}
	printFooter(w, changes, opts)
}

func describe(c scrub.Change) string {
	switch c.Kind {
	case scrub.KindRemovedChar:
		return "removed " + c.Codepoint
	case scrub.KindTrailingWhitespaceTrimmed:
		return "trimmed trailing whitespace"
	default:
		return "collapsed whitespace-only line"
	}
}

// PrintTable renders changes as a bordered table, one row per change.
func PrintTable(w io.Writer, changes []scrub.Change, opts PrintOptions) {
	sortByPathLine(changes)
	if len(changes) == 0 {
		fmt.Fprintln(w, "No invisible characters found ✅")
		printFooter(w, changes, opts)
		return
	}
	tbl := tablewriter.NewTable(w)
	tbl.Header([]string{"FILE", "LINE", "KIND", "LABEL"})
	for _, c := range changes {
		tbl.Append([]string{c.Path, strconv.Itoa(c.Line), string(c.Kind), c.Label})
	}
	tbl.Render()
	printFooter(w, changes, opts)
}

// Report is the JSON envelope for machine consumers.
type Report struct {
	Changes []scrub.Change `json:"changes"`
	Stats   engine.Stats   `json:"stats"`
}

// WriteJSON writes the changes and run statistics as indented JSON. A run
// with no changes emits an empty array rather than null.
func WriteJSON(w io.Writer, changes []scrub.Change, stats engine.Stats) error {
	sortByPathLine(changes)
	if changes == nil {
		changes = []scrub.Change{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Report{Changes: changes, Stats: stats})
}

// Summary condenses a run into one line, for quiet mode and log records.
func Summary(st engine.Stats) string {
	return fmt.Sprintf("%d files scanned, %d modified, %d changes, %d errors in %s",
		st.FilesScanned, st.FilesModified, st.TotalChanges, len(st.Errors),
		st.Duration.Round(time.Millisecond))
}

func printFooter(w io.Writer, changes []scrub.Change, opts PrintOptions) {
	st := opts.Stats
	if st.Duration <= 0 && st.FilesScanned == 0 && len(st.Errors) == 0 {
		return
	}
	removed, trimmed, collapsed := 0, 0, 0
	for _, c := range changes {
		switch c.Kind {
		case scrub.KindRemovedChar:
			removed++
		case scrub.KindTrailingWhitespaceTrimmed:
			trimmed++
		default:
			collapsed++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Changes: %d (removed: %d, trimmed: %d, collapsed: %d)\n", len(changes), removed, trimmed, collapsed)
	if st.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", st.Duration.Seconds())
	}
	if st.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", st.FilesScanned)
	}
	if st.FilesModified > 0 {
		fmt.Fprintf(w, "Files modified: %d\n", st.FilesModified)
	}
	if len(st.Errors) > 0 {
		fmt.Fprintf(w, "Errors: %d\n", len(st.Errors))
		if opts.Verbose {
			for _, e := range st.Errors {
				fmt.Fprintf(w, "  %s: %s (%s)\n", e.Path, e.Err, e.Kind)
			}
		}
	}
}

func sortByPathLine(changes []scrub.Change) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Path == changes[j].Path {
			return changes[i].Line < changes[j].Line
		}
		return changes[i].Path < changes[j].Path
	})
}
