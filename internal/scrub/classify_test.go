package scrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPriorityAndGates(t *testing.T) {
	all := DefaultPolicy()
	none := Policy{}

	tests := []struct {
		name      string
		r         rune
		policy    Policy
		removable bool
		class     Class
		label     string
	}{
		{"zws removed", '\u200B', all, true, ClassZeroWidth, "ZWS"},
		{"zwnj removed", '\u200C', all, true, ClassZeroWidth, "ZWNJ"},
		{"zwj removed", '\u200D', all, true, ClassZeroWidth, "ZWJ"},
		{"bom removed", '\uFEFF', all, true, ClassZeroWidth, "BOM"},
		{"zws gate off", '\u200B', none, false, ClassNone, "ZWS"},
		{"nbsp removed", '\u00A0', all, true, ClassNonBreakingSpace, "NBSP"},
		{"nul control", 0x00, all, true, ClassControl, "U+0000"},
		{"bell control", 0x07, all, true, ClassControl, "U+0007"},
		{"del control", 0x7F, all, true, ClassControl, "U+007F"},
		{"tab never class3", '\t', all, false, ClassNone, "TAB"},
		{"lf structural", '\n', all, false, ClassNone, "U+000A"},
		{"cr structural", '\r', all, false, ClassNone, "U+000D"},
		{"space ordinary", ' ', all, false, ClassNone, "U+0020"},
		{"line separator", '\u2028', all, true, ClassUnicodeWhitespace, "U+2028"},
		{"para separator", '\u2029', all, true, ClassUnicodeWhitespace, "U+2029"},
		{"em space", '\u2003', all, true, ClassUnicodeWhitespace, "U+2003"},
		{"letter ordinary", 'a', all, false, ClassNone, "U+0061"},
		{"emoji ordinary", '\U0001F600', all, false, ClassNone, "U+1F600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.r, tt.policy)
			assert.Equal(t, tt.removable, c.Removable)
			assert.Equal(t, tt.class, c.Class)
			assert.Equal(t, tt.label, c.Label)
		})
	}
}

func TestClassifyFallthrough(t *testing.T) {
	// NBSP is White_Space, so with its own gate off it falls to class 4.
	p := Policy{StripUnicodeWhitespace: true}
	c := Classify('\u00A0', p)
	assert.True(t, c.Removable)
	assert.Equal(t, ClassUnicodeWhitespace, c.Class)
	assert.Equal(t, "NBSP", c.Label)

	// VT and FF are controls but also White_Space; with control off they
	// fall to class 4 too.
	for _, r := range []rune{0x0B, 0x0C} {
		c := Classify(r, p)
		assert.True(t, c.Removable, "U+%04X", r)
		assert.Equal(t, ClassUnicodeWhitespace, c.Class)
	}

	// Custom chars catch anything the gated classes let through.
	custom := Policy{CustomChars: map[rune]bool{'\u200B': true, '\t': true}}
	c = Classify('\u200B', custom)
	assert.True(t, c.Removable)
	assert.Equal(t, ClassCustom, c.Class)
	assert.Equal(t, "ZWS", c.Label)

	c = Classify('\t', custom)
	assert.True(t, c.Removable)
	assert.Equal(t, ClassCustom, c.Class)
	assert.Equal(t, "TAB", c.Label)
}

func TestFormatCodepoint(t *testing.T) {
	assert.Equal(t, "U+0007", FormatCodepoint(0x07))
	assert.Equal(t, "U+200B", FormatCodepoint(0x200B))
	assert.Equal(t, "U+2028", FormatCodepoint(0x2028))
	assert.Equal(t, "U+1F600", FormatCodepoint(0x1F600))
}

func TestClassesListing(t *testing.T) {
	p := DefaultPolicy()
	p.CustomChars = map[rune]bool{0x2028: true}
	classes := Classes(p)
	if len(classes) != 6 {
		t.Fatalf("expected 6 classes, got %d", len(classes))
	}
	if classes[0].ID != "zero-width" || !classes[0].Enabled {
		t.Fatalf("unexpected first class: %+v", classes[0])
	}
	last := classes[len(classes)-1]
	if last.ID != "custom" || last.Members != "U+2028" {
		t.Fatalf("unexpected custom class: %+v", last)
	}
}

func TestPolicyFingerprint(t *testing.T) {
	a := DefaultPolicy()
	b := DefaultPolicy()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.StripControlChars = false
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := DefaultPolicy()
	c.CustomChars = map[rune]bool{0x2028: true, 0x2060: true}
	d := DefaultPolicy()
	d.CustomChars = map[rune]bool{0x2060: true, 0x2028: true}
	assert.Equal(t, c.Fingerprint(), d.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
