package validate

import "testing"

func TestParseCodepoint(t *testing.T) {
	r, err := ParseCodepoint("U+200B")
	if err != nil || r != 0x200B {
		t.Fatalf("expected U+200B, got %q, %v", r, err)
	}
	r, err = ParseCodepoint("u+2028")
	if err != nil || r != 0x2028 {
		t.Fatal("expected lowercase prefix to parse")
	}
	r, err = ParseCodepoint("FEFF")
	if err != nil || r != 0xFEFF {
		t.Fatal("expected bare hex to parse")
	}
	if _, err := ParseCodepoint("U+ZZZZ"); err == nil {
		t.Fatal("expected error for non-hex")
	}
	if _, err := ParseCodepoint(""); err == nil {
		t.Fatal("expected error for empty")
	}
	if _, err := ParseCodepoint("U+110000"); err == nil {
		t.Fatal("expected error for out of range")
	}
	if _, err := ParseCodepoint("U+D800"); err == nil {
		t.Fatal("expected error for surrogate")
	}
}

func TestParseCodepointSet(t *testing.T) {
	set, err := ParseCodepointSet([]string{"U+2028", " U+2060 ", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 || !set[0x2028] || !set[0x2060] {
		t.Fatalf("unexpected set: %v", set)
	}
	if _, err := ParseCodepointSet([]string{"U+2028", "nope"}); err == nil {
		t.Fatal("expected error for malformed entry")
	}
	set, err = ParseCodepointSet(nil)
	if err != nil || set != nil {
		t.Fatal("expected nil set for empty input")
	}
}

func TestSplitCodepointFlag(t *testing.T) {
	got := SplitCodepointFlag("U+2028, U+2060 ,")
	if len(got) != 2 || got[0] != "U+2028" || got[1] != "U+2060" {
		t.Fatalf("unexpected split: %v", got)
	}
	if SplitCodepointFlag("  ") != nil {
		t.Fatal("expected nil for blank flag")
	}
}

func TestIsVerbosity(t *testing.T) {
	for _, ok := range []string{"silent", "normal", "verbose"} {
		if !IsVerbosity(ok) {
			t.Fatalf("expected %q to be valid", ok)
		}
	}
	if IsVerbosity("loud") {
		t.Fatal("expected unknown level to be invalid")
	}
}
