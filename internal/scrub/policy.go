package scrub

import (
	"sort"
	"strings"
)

// Policy selects which character classes the engine removes. It is immutable
// for the duration of a run and shared read-only across files; there is no
// process-wide default, every engine call receives its policy explicitly.
type Policy struct {
	StripZeroWidth          bool
	StripNonBreakingSpace   bool
	StripControlChars       bool
	StripUnicodeWhitespace  bool
	StripTrailingWhitespace bool

	// CustomChars are additional code points to strip. They are always
	// removable when present, independent of the class gates above.
	CustomChars map[rune]bool
}

// DefaultPolicy enables every class with no custom code points.
func DefaultPolicy() Policy {
	return Policy{
		StripZeroWidth:          true,
		StripNonBreakingSpace:   true,
		StripControlChars:       true,
		StripUnicodeWhitespace:  true,
		StripTrailingWhitespace: true,
	}
}

// Fingerprint returns a stable textual identity for the policy, used to bind
// cache entries to the policy that produced them.
func (p Policy) Fingerprint() string {
	var b strings.Builder
	for _, on := range []bool{
		p.StripZeroWidth,
		p.StripNonBreakingSpace,
		p.StripControlChars,
		p.StripUnicodeWhitespace,
		p.StripTrailingWhitespace,
	} {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	if len(p.CustomChars) > 0 {
		chars := make([]string, 0, len(p.CustomChars))
		for r, on := range p.CustomChars {
			if on {
				chars = append(chars, FormatCodepoint(r))
			}
		}
		sort.Strings(chars)
		b.WriteByte('|')
		b.WriteString(strings.Join(chars, "+"))
	}
	return b.String()
}
