package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Prefs holds browser preferences that persist across sessions in
// ~/.ghost-scrub/tui_prefs.json.
type Prefs struct {
	// ShowMarkers controls whether the detail pane renders removed and
	// trimmed content as visible placeholders. Defaults to true, since the
	// characters being reviewed are invisible by nature.
	ShowMarkers bool `json:"show_markers"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{ShowMarkers: true}
}

func prefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ghost-scrub", "tui_prefs.json"), nil
}

// LoadPrefs reads saved preferences. Any failure (no home, no file, bad
// JSON) falls back to defaults; browsing results never blocks on prefs.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()
	path, err := prefsPath()
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	_ = json.Unmarshal(data, &prefs)
	return prefs
}

// SavePrefs persists preferences, creating the directory on first use.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
