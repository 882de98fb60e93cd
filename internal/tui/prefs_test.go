package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPrefs(t *testing.T) {
	prefs := DefaultPrefs()
	if !prefs.ShowMarkers {
		t.Error("DefaultPrefs().ShowMarkers should be true")
	}
}

func TestLoadPrefs_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	prefs := LoadPrefs()
	if !prefs.ShowMarkers {
		t.Error("LoadPrefs() with no file should return defaults (ShowMarkers=true)")
	}
}

func TestSaveAndLoadPrefs(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	// Save with ShowMarkers = false
	prefs := Prefs{ShowMarkers: false}
	if err := SavePrefs(prefs); err != nil {
		t.Fatalf("SavePrefs failed: %v", err)
	}

	// Verify file was created
	prefsFile := filepath.Join(tmpDir, ".ghost-scrub", "tui_prefs.json")
	if _, err := os.Stat(prefsFile); os.IsNotExist(err) {
		t.Fatal("prefs file was not created")
	}

	// Load and verify
	loaded := LoadPrefs()
	if loaded.ShowMarkers != false {
		t.Error("Loaded prefs should have ShowMarkers=false")
	}

	// Save with ShowMarkers = true
	prefs.ShowMarkers = true
	if err := SavePrefs(prefs); err != nil {
		t.Fatalf("SavePrefs failed: %v", err)
	}

	loaded = LoadPrefs()
	if loaded.ShowMarkers != true {
		t.Error("Loaded prefs should have ShowMarkers=true")
	}
}

func TestLoadPrefs_CorruptFileFallsBackToDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir := filepath.Join(tmpDir, ".ghost-scrub")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tui_prefs.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	prefs := LoadPrefs()
	if !prefs.ShowMarkers {
		t.Error("corrupt prefs file should fall back to defaults")
	}
}
