package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// RunResults stores the changes and metadata from the most recent run so the
// interactive browser can open without rescanning.
type RunResults struct {
	Changes   []scrub.Change `json:"changes"`
	Timestamp time.Time      `json:"timestamp"`
	Root      string         `json:"root"`
	Count     int            `json:"count"`
}

func resultsPath(root string) string {
	// Store in .git directory or repo root
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "ghostscrub_last_run.json")
	}
	return filepath.Join(root, ".ghostscrub_last_run.json")
}

// SaveResults saves run results to cache
func SaveResults(root string, changes []scrub.Change) error {
	p := resultsPath(root)
	results := RunResults{
		Changes:   changes,
		Timestamp: time.Now(),
		Root:      root,
		Count:     len(changes),
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0644)
}

// ClearResults removes the saved last-run results. A missing file is not an
// error.
func ClearResults(root string) error {
	err := os.Remove(resultsPath(root))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadResults loads the last run results from cache
func LoadResults(root string) (RunResults, error) {
	var results RunResults
	p := resultsPath(root)
	f, err := os.ReadFile(p)
	if err != nil {
		return results, err
	}
	if err := json.Unmarshal(f, &results); err != nil {
		return results, err
	}
	return results, nil
}
