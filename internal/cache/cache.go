package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"
)

// DB records content hashes of files known clean under one policy. A run
// skips any file whose current hash matches its entry.
type DB struct {
	// Fingerprint identifies the policy the entries were computed under.
	// Entries from a different policy are discarded on load.
	Fingerprint string `json:"fingerprint"`
	// Entries maps root-relative path -> content hash.
	Entries map[string]string `json:"entries"`
}

// Path returns where the cache lives for the given root. It prefers .git to
// avoid accidental commits and falls back to a dotfile in the root.
func Path(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "ghostscrubcache.json")
	}
	return filepath.Join(root, ".ghostscrubcache.json")
}

// Load reads the cache for root. A missing or unreadable cache yields a
// usable empty DB alongside the error. A fingerprint mismatch silently
// yields an empty DB.
func Load(root, fingerprint string) (DB, error) {
	fresh := DB{Fingerprint: fingerprint, Entries: map[string]string{}}
	f, err := os.ReadFile(Path(root))
	if err != nil {
		return fresh, err
	}
	var db DB
	if err := json.Unmarshal(f, &db); err != nil {
		return fresh, err
	}
	if db.Fingerprint != fingerprint {
		return fresh, nil
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

// Save writes the cache for root.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(Path(root), b, 0644)
}

// Clear removes the cache file. A missing file is not an error.
func Clear(root string) error {
	err := os.Remove(Path(root))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Hash returns a 16-hex-digit content hash used as the cache entry value.
func Hash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
