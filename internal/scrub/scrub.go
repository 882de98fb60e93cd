package scrub

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a file's bytes do not decode as UTF-8. The
// caller reports it against the offending path and leaves the file untouched;
// the engine never partially processes a file.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Inline suppression markers. A marker line itself is always passed through
// verbatim and produces no changes.
const (
	markerIgnore     = "ghost-scrub:ignore"
	markerIgnoreNext = "ghost-scrub:ignore-next-line"
	markerStart      = "ghost-scrub:ignore-start"
	markerEnd        = "ghost-scrub:ignore-end"
)

// MarkerIgnoreFile anywhere in a file excludes the whole file. The engine
// checks for it after reading, before handing content to Scrub.
const MarkerIgnoreFile = "ghost-scrub:ignore-file"

// rawLine is one line with its original terminator ("\n", "\r\n", or "" for
// a final line without one). Terminators are preserved per line on output.
type rawLine struct {
	text string
	term string
}

// Scrub cleans one file's bytes under the policy and reports every change
// with 1-based global line numbers. When nothing changes, Cleaned is the
// input slice itself, so unmodified files round-trip byte-identically.
func Scrub(data []byte, p Policy) (Result, error) {
	if len(data) == 0 {
		return Result{Cleaned: data}, nil
	}
	if !utf8.Valid(data) {
		return Result{}, ErrInvalidUTF8
	}

	lines := splitLines(data)
	var buf bytes.Buffer
	buf.Grow(len(data))
	var changes []Change

	inRegion := false
	skipNext := false
	for i, ln := range lines {
		verbatim := false
		switch {
		case strings.Contains(ln.text, markerStart):
			inRegion = true
			verbatim = true
		case strings.Contains(ln.text, markerEnd):
			inRegion = false
			verbatim = true
		case inRegion:
			verbatim = true
		case strings.Contains(ln.text, markerIgnoreNext):
			skipNext = true
			verbatim = true
		case skipNext:
			skipNext = false
			verbatim = true
		case strings.Contains(ln.text, markerIgnore):
			verbatim = true
		}
		if verbatim {
			buf.WriteString(ln.text)
			buf.WriteString(ln.term)
			continue
		}

		cleaned, lineChanges := processLine(ln.text, p)
		for j := range lineChanges {
			lineChanges[j].Line = i + 1
		}
		changes = append(changes, lineChanges...)
		buf.WriteString(cleaned)
		buf.WriteString(ln.term)
	}

	if len(changes) == 0 {
		return Result{Cleaned: data}, nil
	}
	return Result{Cleaned: buf.Bytes(), Changes: changes, WasModified: true}, nil
}

// splitLines splits on LF while keeping each line's terminator style. A CR
// immediately before LF belongs to the terminator; a stray mid-line CR is
// content and survives untouched.
func splitLines(data []byte) []rawLine {
	var lines []rawLine
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}
		text := data[start:i]
		term := "\n"
		if len(text) > 0 && text[len(text)-1] == '\r' {
			text = text[:len(text)-1]
			term = "\r\n"
		}
		lines = append(lines, rawLine{text: string(text), term: term})
		start = i + 1
	}
	if start < len(data) {
		lines = append(lines, rawLine{text: string(data[start:])})
	}
	return lines
}
