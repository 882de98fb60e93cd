package scrub

import "testing"

func TestProcessLineRemovesZeroWidth(t *testing.T) {
	out, changes := processLine("a\u200Bb", DefaultPolicy())
	if out != "ab" {
		t.Fatalf("expected %q, got %q", "ab", out)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Kind != KindRemovedChar || c.Label != "ZWS" || c.Codepoint != "U+200B" {
		t.Fatalf("unexpected change: %+v", c)
	}
	if c.Original != "a⦃ZWS⦄b" || c.Cleaned != "ab" {
		t.Fatalf("unexpected renderings: %q -> %q", c.Original, c.Cleaned)
	}
}

func TestProcessLineWhitespaceOnly(t *testing.T) {
	out, changes := processLine("   \t  ", DefaultPolicy())
	if out != "" {
		t.Fatalf("expected empty line, got %q", out)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Kind != KindWhitespaceOnlyToEmpty {
		t.Fatalf("expected whitespace-only collapse, got %s", c.Kind)
	}
	if c.Label != "SP+SP+SP+TAB+SP+SP" {
		t.Fatalf("unexpected composition: %q", c.Label)
	}
	if c.Cleaned != "⦃EMPTY⦄" {
		t.Fatalf("unexpected cleaned rendering: %q", c.Cleaned)
	}
}

func TestProcessLineNBSPWithControlOff(t *testing.T) {
	p := Policy{StripNonBreakingSpace: true}
	out, changes := processLine("x\u00A0y", p)
	if out != "xy" {
		t.Fatalf("expected %q, got %q", "xy", out)
	}
	if len(changes) != 1 || changes[0].Label != "NBSP" {
		t.Fatalf("expected one NBSP change, got %+v", changes)
	}
}

func TestProcessLineTrailingWhitespace(t *testing.T) {
	out, changes := processLine("code\t  ", DefaultPolicy())
	if out != "code" {
		t.Fatalf("expected %q, got %q", "code", out)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Kind != KindTrailingWhitespaceTrimmed || c.Label != "TAB+SP+SP" {
		t.Fatalf("unexpected change: %+v", c)
	}
}

func TestProcessLineRemovalAndTrailingCoOccur(t *testing.T) {
	out, changes := processLine("a\u200B  ", DefaultPolicy())
	if out != "a" {
		t.Fatalf("expected %q, got %q", "a", out)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0].Kind != KindRemovedChar || changes[1].Kind != KindTrailingWhitespaceTrimmed {
		t.Fatalf("unexpected kinds: %s, %s", changes[0].Kind, changes[1].Kind)
	}
}

func TestProcessLineOnlyInvisibles(t *testing.T) {
	// Every character is removed, so the line is empty, not whitespace-only;
	// no collapse change is emitted.
	out, changes := processLine("\u200B\uFEFF", DefaultPolicy())
	if out != "" {
		t.Fatalf("expected empty line, got %q", out)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	for _, c := range changes {
		if c.Kind != KindRemovedChar {
			t.Fatalf("unexpected kind: %s", c.Kind)
		}
	}
}

func TestProcessLineWhitespaceOnlyAfterRemoval(t *testing.T) {
	// The ZWS removal leaves "    ", which still collapses: step 3 looks at
	// post-removal content.
	out, changes := processLine("  \u200B  ", DefaultPolicy())
	if out != "" {
		t.Fatalf("expected empty line, got %q", out)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0].Kind != KindRemovedChar {
		t.Fatalf("expected removal first, got %s", changes[0].Kind)
	}
	last := changes[1]
	if last.Kind != KindWhitespaceOnlyToEmpty || last.Label != "SP+SP+SP+SP" {
		t.Fatalf("unexpected collapse change: %+v", last)
	}
}

func TestProcessLineEmptyAndPlain(t *testing.T) {
	if out, changes := processLine("", DefaultPolicy()); out != "" || len(changes) != 0 {
		t.Fatalf("empty line must pass through, got %q with %d changes", out, len(changes))
	}
	if out, changes := processLine("plain text", DefaultPolicy()); out != "plain text" || len(changes) != 0 {
		t.Fatalf("clean line must pass through, got %q with %d changes", out, len(changes))
	}
}

func TestProcessLineAllGatesOff(t *testing.T) {
	in := "a\u200B \u00A0\t  "
	out, changes := processLine(in, Policy{})
	if out != in || len(changes) != 0 {
		t.Fatalf("expected pass-through, got %q with %d changes", out, len(changes))
	}
}

func TestProcessLineCustomChar(t *testing.T) {
	p := Policy{CustomChars: map[rune]bool{0x2028: true}}
	out, changes := processLine("a\u2028b", p)
	if out != "ab" {
		t.Fatalf("expected %q, got %q", "ab", out)
	}
	if len(changes) != 1 || changes[0].Label != "U+2028" || changes[0].Codepoint != "U+2028" {
		t.Fatalf("unexpected change: %+v", changes)
	}
}
