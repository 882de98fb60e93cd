package scrub

import (
	"fmt"
	"strings"
	"unicode"
)

// Visualize renders a line with every invisible character made visible using
// ⦃…⦄ markers, for diff-style reporting. Whitespace-only lines render as
// their full composition, empty lines as ⦃EMPTY⦄, and trailing whitespace as
// an explicit ⦃TRAILING: …⦄ suffix.
func Visualize(line string) string {
	if line == "" {
		return "⦃EMPTY⦄"
	}
	if strings.TrimSpace(line) == "" {
		return "⦃WHITESPACE-ONLY: " + composition(line) + "⦄"
	}
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	head := visualizeRunes(trimmed)
	if trimmed == line {
		return head
	}
	return head + "⦃TRAILING: " + composition(line[len(trimmed):]) + "⦄"
}

func visualizeRunes(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\u200B', r == '\u200C', r == '\u200D', r == '\uFEFF', r == runeNBSP, r == '\t':
			b.WriteString("⦃" + Label(r) + "⦄")
		case r == ' ':
			b.WriteByte(' ')
		case r != '\n' && r != '\r' && unicode.IsControl(r):
			fmt.Fprintf(&b, "⦃%s⦄", FormatCodepoint(r))
		case unicode.IsSpace(r):
			fmt.Fprintf(&b, "⦃WS:%s⦄", FormatCodepoint(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// composition spells out a whitespace run character by character, e.g.
// "SP+SP+TAB".
func composition(run string) string {
	parts := make([]string, 0, len(run))
	for _, r := range run {
		parts = append(parts, whitespaceToken(r))
	}
	return strings.Join(parts, "+")
}

func whitespaceToken(r rune) string {
	switch r {
	case ' ':
		return "SP"
	case '\t':
		return "TAB"
	case runeNBSP:
		return "NBSP"
	}
	if unicode.IsSpace(r) {
		return "WS:" + FormatCodepoint(r)
	}
	return FormatCodepoint(r)
}
