package validate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseCodepoint parses a "U+XXXX" notation (case-insensitive, bare hex also
// accepted) into a rune. Surrogates and out-of-range values are rejected.
func ParseCodepoint(s string) (rune, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = strings.TrimPrefix(t, "U+")
	if t == "" {
		return 0, fmt.Errorf("invalid code point %q: empty", s)
	}
	n, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code point %q: %w", s, err)
	}
	r := rune(n)
	if n > unicode.MaxRune || !utf8.ValidRune(r) {
		return 0, fmt.Errorf("invalid code point %q: out of range", s)
	}
	return r, nil
}

// ParseCodepointSet parses a list of "U+XXXX" entries into a rune set.
// Empty entries are skipped; any malformed entry fails the whole list so a
// half-parsed policy never takes effect.
func ParseCodepointSet(items []string) (map[rune]bool, error) {
	if len(items) == 0 {
		return nil, nil
	}
	set := make(map[rune]bool, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		r, err := ParseCodepoint(it)
		if err != nil {
			return nil, err
		}
		set[r] = true
	}
	if len(set) == 0 {
		return nil, nil
	}
	return set, nil
}

// SplitCodepointFlag splits a comma-separated CLI value ("U+2028,U+2060")
// into entries for ParseCodepointSet.
func SplitCodepointFlag(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsVerbosity reports whether s names a recognized verbosity level.
func IsVerbosity(s string) bool {
	switch s {
	case "silent", "normal", "verbose":
		return true
	}
	return false
}
