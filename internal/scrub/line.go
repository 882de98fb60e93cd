package scrub

import "strings"

// processLine transforms one line (terminator excluded) into its cleaned form
// plus the Changes it produced. Change.Line is left zero; the orchestrator
// stamps global line numbers and renumbers nothing afterwards.
//
// Order matters: code-point removal first, then the trailing/whitespace-only
// rules evaluate the post-removal content, so a line made whitespace-only by
// removals still collapses. A line whose trailing trim would erase it
// entirely is reported as one whitespace-only collapse, not as a trailing
// trim.
func processLine(text string, p Policy) (string, []Change) {
	if text == "" {
		return text, nil
	}

	var changes []Change
	var b strings.Builder
	removed := false
	for _, r := range text {
		c := Classify(r, p)
		if !c.Removable {
			b.WriteRune(r)
			continue
		}
		removed = true
		changes = append(changes, Change{
			Kind:      KindRemovedChar,
			Codepoint: FormatCodepoint(r),
			Label:     c.Label,
		})
	}
	out := text
	if removed {
		out = b.String()
	}

	if p.StripTrailingWhitespace {
		trimmed := strings.TrimRight(out, " \t")
		switch {
		case trimmed == out:
			// nothing trailing
		case trimmed == "":
			changes = append(changes, Change{
				Kind:  KindWhitespaceOnlyToEmpty,
				Label: composition(out),
			})
			out = ""
		default:
			changes = append(changes, Change{
				Kind:  KindTrailingWhitespaceTrimmed,
				Label: composition(out[len(trimmed):]),
			})
			out = trimmed
		}
	}

	if len(changes) > 0 {
		orig := Visualize(text)
		clean := Visualize(out)
		for i := range changes {
			changes[i].Original = orig
			changes[i].Cleaned = clean
		}
	}
	return out, changes
}
