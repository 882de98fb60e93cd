package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	// initial load should return empty DB and error
	db, _ := Load(dir, "fp1")
	if db.Entries == nil {
		t.Fatalf("expected entries map initialized")
	}
	db.Entries["a.txt"] = Hash([]byte("hello"))
	if err := Save(dir, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	// file should exist
	if _, err := os.Stat(filepath.Join(dir, ".ghostscrubcache.json")); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	// load again and verify
	db2, err := Load(dir, "fp1")
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if got := db2.Entries["a.txt"]; got != Hash([]byte("hello")) {
		t.Fatalf("unexpected entry: %q", got)
	}
}

func TestLoadDiscardsOnFingerprintChange(t *testing.T) {
	dir := t.TempDir()
	db, _ := Load(dir, "fp1")
	db.Entries["a.txt"] = "deadbeef"
	if err := Save(dir, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	db2, err := Load(dir, "fp2")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db2.Entries) != 0 {
		t.Fatalf("expected entries discarded on fingerprint change, got %v", db2.Entries)
	}
	if db2.Fingerprint != "fp2" {
		t.Fatalf("expected new fingerprint, got %q", db2.Fingerprint)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	db, _ := Load(dir, "fp")
	db.Entries["a.txt"] = "x"
	if err := Save(dir, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := Clear(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(Path(dir)); !os.IsNotExist(err) {
		t.Fatal("expected cache file removed")
	}
	// clearing again must not error
	if err := Clear(dir); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("content"))
	if len(a) != 16 {
		t.Fatalf("expected 16 hex digits, got %q", a)
	}
	if a != Hash([]byte("content")) {
		t.Fatal("hash must be deterministic")
	}
	if a == Hash([]byte("other")) {
		t.Fatal("different content must hash differently")
	}
	if Hash(nil) != "0000000000000000" {
		t.Fatalf("unexpected empty hash: %q", Hash(nil))
	}
}

func TestClearResults(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	if err := SaveResults(dir, nil); err != nil {
		t.Fatalf("save results: %v", err)
	}
	// results land in .git when present
	p := filepath.Join(dir, ".git", "ghostscrub_last_run.json")
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("results file not in .git: %v", err)
	}
	if err := ClearResults(dir); err != nil {
		t.Fatalf("clear results: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatal("expected results file removed")
	}
	if err := ClearResults(dir); err != nil {
		t.Fatalf("clear results twice: %v", err)
	}
}

func TestRunResultsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	changes := []scrub.Change{
		{Path: "a.go", Line: 3, Kind: scrub.KindRemovedChar, Codepoint: "U+200B", Label: "ZWS"},
	}
	if err := SaveResults(dir, changes); err != nil {
		t.Fatalf("save results: %v", err)
	}
	got, err := LoadResults(dir)
	if err != nil {
		t.Fatalf("load results: %v", err)
	}
	if got.Count != 1 || len(got.Changes) != 1 {
		t.Fatalf("unexpected results: %#v", got)
	}
	if got.Changes[0].Label != "ZWS" || got.Changes[0].Line != 3 {
		t.Fatalf("unexpected change: %#v", got.Changes[0])
	}
	if got.Root != dir {
		t.Fatalf("expected root %q, got %q", dir, got.Root)
	}
}
