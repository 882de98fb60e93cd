package scrub

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const runeNBSP = '\u00A0'

// Class identifies which character class matched a code point.
type Class int

const (
	ClassNone Class = iota
	ClassZeroWidth
	ClassNonBreakingSpace
	ClassControl
	ClassUnicodeWhitespace
	ClassCustom
)

// Classification is the outcome of classifying one code point under a policy.
type Classification struct {
	Class     Class
	Removable bool
	Label     string
}

// Classify decides whether a single code point is removable under the policy
// and assigns its reporting label. Classes are checked in priority order; a
// class whose gate is off does not capture the code point, so a later class
// (ultimately CustomChars) may still claim it. Line terminators are
// structural and never removable here; horizontal tab is a control character
// for labeling purposes but is exempt from class-3 removal because tabs
// participate in whitespace-only-line detection. The class-4 whitespace set
// is Go's unicode.IsSpace, pinned to the stdlib Unicode tables
// (unicode.Version).
func Classify(r rune, p Policy) Classification {
	if isZeroWidth(r) && p.StripZeroWidth {
		return Classification{Class: ClassZeroWidth, Removable: true, Label: Label(r)}
	}
	if r == runeNBSP && p.StripNonBreakingSpace {
		return Classification{Class: ClassNonBreakingSpace, Removable: true, Label: Label(r)}
	}
	if isBareControl(r) && p.StripControlChars {
		return Classification{Class: ClassControl, Removable: true, Label: Label(r)}
	}
	if isOtherWhitespace(r) && p.StripUnicodeWhitespace {
		return Classification{Class: ClassUnicodeWhitespace, Removable: true, Label: Label(r)}
	}
	if p.CustomChars[r] {
		return Classification{Class: ClassCustom, Removable: true, Label: Label(r)}
	}
	return Classification{Class: ClassNone, Label: Label(r)}
}

// Label returns the exact reporting label for a code point: a dedicated name
// for the well-known invisibles, otherwise "U+XXXX" with at least four
// uppercase hex digits.
func Label(r rune) string {
	switch r {
	case '\u200B':
		return "ZWS"
	case '\u200C':
		return "ZWNJ"
	case '\u200D':
		return "ZWJ"
	case '\uFEFF':
		return "BOM"
	case runeNBSP:
		return "NBSP"
	case '\t':
		return "TAB"
	}
	return FormatCodepoint(r)
}

// FormatCodepoint renders a code point as "U+XXXX" (uppercase, zero-padded
// to at least four hex digits).
func FormatCodepoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF':
		return true
	}
	return false
}

// isBareControl reports ASCII controls minus tab and the line terminators.
func isBareControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7F
}

// isOtherWhitespace reports Unicode White_Space beyond ASCII space, tab, and
// the line terminators.
func isOtherWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return false
	}
	return unicode.IsSpace(r)
}

// ClassInfo describes one policy knob for listings.
type ClassInfo struct {
	ID      string
	Desc    string
	Members string
	Enabled bool
}

// Classes lists the policy's character classes with their enabled state,
// in classifier priority order, for rendering by the chars command.
func Classes(p Policy) []ClassInfo {
	custom := make([]string, 0, len(p.CustomChars))
	for r, on := range p.CustomChars {
		if on {
			custom = append(custom, FormatCodepoint(r))
		}
	}
	sort.Strings(custom)
	members := strings.Join(custom, ", ")
	if members == "" {
		members = "(none)"
	}
	return []ClassInfo{
		{ID: "zero-width", Desc: "zero-width characters", Members: "U+200B (ZWS), U+200C (ZWNJ), U+200D (ZWJ), U+FEFF (BOM)", Enabled: p.StripZeroWidth},
		{ID: "non-breaking-space", Desc: "non-breaking space", Members: "U+00A0 (NBSP)", Enabled: p.StripNonBreakingSpace},
		{ID: "control", Desc: "ASCII control characters", Members: "U+0000-U+001F, U+007F (tab and line terminators kept)", Enabled: p.StripControlChars},
		{ID: "unicode-whitespace", Desc: "other Unicode whitespace", Members: "White_Space minus space, tab, line terminators", Enabled: p.StripUnicodeWhitespace},
		{ID: "trailing-whitespace", Desc: "trailing space/tab runs and whitespace-only lines", Members: "line rule, not a code-point class", Enabled: p.StripTrailingWhitespace},
		{ID: "custom", Desc: "configured custom code points", Members: members, Enabled: len(custom) > 0},
	}
}
