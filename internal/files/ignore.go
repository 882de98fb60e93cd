package files

import (
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore ensures pattern is present in .gitignore at repoRoot, creating
// the file when missing. A file that does not end in a newline gets one before
// the pattern so the last existing entry is not corrupted. Idempotent.
func AppendIgnore(repoRoot, pattern string) error {
	path := filepath.Join(repoRoot, ".gitignore")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, line := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(line) == pattern {
			return nil
		}
	}

	entry := pattern + "\n"
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		entry = "\n" + entry
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}

// DefaultScrubIgnores returns the patterns a scrubbed repository should not
// commit: backup files from --backup and the bookkeeping files that fall
// back to the root when there is no .git directory.
func DefaultScrubIgnores() []string {
	return []string{
		"*.bak",
		".ghostscrubcache.json",
		".ghostscrub_last_run.json",
		".ghostscrub_audit.jsonl",
	}
}
