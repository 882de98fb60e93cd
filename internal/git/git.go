// Package git shells out to the git CLI for the repo-aware scan modes.
// Plumbing stays exec-based so the binary carries no libgit dependency and
// follows whatever git version the host uses.
package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Commit is one history entry: the files it touched and their contents at
// that commit.
type Commit struct {
	Hash  string
	Files map[string][]byte
}

// validateRoot validates and normalizes a git repository root path.
// Returns the cleaned absolute path or an error if invalid.
func validateRoot(root string) (string, error) {
	// Check for null bytes (potential injection)
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}

	cleaned := filepath.Clean(root)
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}

	return abs, nil
}

func runGit(root string, args ...string) ([]byte, error) {
	full := append([]string{"-C", root}, args...)
	return exec.Command("git", full...).Output()
}

// Root resolves the repository toplevel containing dir.
func Root(dir string) (string, error) {
	valid, err := validateRoot(dir)
	if err != nil {
		return "", err
	}
	out, err := runGit(valid, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %s", dir)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir sits inside a git work tree.
func IsRepo(dir string) bool {
	_, err := Root(dir)
	return err == nil
}

// RepoMetadata returns (repo, commit, branch) best-effort for the given root.
// Empty strings are returned on failure. It avoids heavy git calls and uses
// simple plumbing to remain fast in CI.
func RepoMetadata(root string) (string, string, string) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return "", "", ""
	}

	// repo (remote origin URL short)
	repo := ""
	if out, err := runGit(validRoot, "config", "--get", "remote.origin.url"); err == nil {
		s := strings.TrimSpace(string(out))
		s = strings.TrimSuffix(s, ".git")
		// keep owner/name when possible
		if i := strings.LastIndex(s, ":"); i >= 0 {
			s = s[i+1:]
		}
		if i := strings.Index(s, "github.com/"); i >= 0 {
			s = s[i+len("github.com/"):]
		}
		repo = s
	}
	commit := ""
	if out, err := runGit(validRoot, "rev-parse", "HEAD"); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	branch := ""
	if out, err := runGit(validRoot, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		branch = strings.TrimSpace(string(out))
	}
	return repo, commit, branch
}

// LastNCommits collects the files touched by the most recent n commits so
// history mode can scrub what each commit introduced.
func LastNCommits(root string, n int) ([]Commit, error) {
	if n <= 0 {
		return nil, nil
	}

	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	out, err := runGit(validRoot, "rev-list", "--max-count", fmt.Sprintf("%d", n), "HEAD")
	if err != nil {
		return nil, err
	}
	hashes := strings.Fields(string(out))

	var commits []Commit
	for _, h := range hashes {
		filesOut, err := runGit(validRoot, "show", h, "--name-only", "--pretty=")
		if err != nil {
			continue
		}
		fileList := strings.Fields(string(filesOut))
		files := map[string][]byte{}
		for _, p := range fileList {
			if b, err := runGit(validRoot, "show", h+":"+p); err == nil {
				files[p] = b
			}
		}
		commits = append(commits, Commit{Hash: h, Files: files})
	}
	return commits, nil
}

// DiffAgainst returns the files changed versus base and, per file, a payload
// holding only the added lines. Line numbers reported against these payloads
// count positions within the additions, not within the full file.
func DiffAgainst(root, base string) ([]string, [][]byte, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, nil, err
	}

	out, err := runGit(validRoot, "diff", "--name-only", base)
	if err != nil {
		return nil, nil, err
	}
	paths := strings.Fields(string(out))
	var data [][]byte
	for _, p := range paths {
		b, err := runGit(validRoot, "diff", "--unified=0", base, "--", p)
		if err != nil {
			b = []byte{}
		}
		// Keep '+' lines, drop the '+++'/'---'/'@@' headers.
		buf := bytes.NewBuffer(nil)
		sc := bufio.NewScanner(bytes.NewReader(b))
		for sc.Scan() {
			line := sc.Text()
			if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "@@") {
				continue
			}
			if strings.HasPrefix(line, "+") {
				buf.WriteString(strings.TrimPrefix(line, "+"))
				buf.WriteByte('\n')
			}
		}
		data = append(data, buf.Bytes())
	}
	return paths, data, nil
}

// StagedDiff returns the staged file paths and their index blobs. Staged
// content is scrubbed as-is; the work tree copy is never consulted.
func StagedDiff(root string) ([]string, [][]byte, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, nil, err
	}

	out, err := runGit(validRoot, "diff", "--name-only", "--cached")
	if err != nil {
		return nil, nil, err
	}
	paths := strings.Fields(string(out))
	var data [][]byte
	for _, p := range paths {
		b, err := runGit(validRoot, "show", ":"+p)
		if err != nil {
			b = []byte{}
		}
		data = append(data, b)
	}
	return paths, data, nil
}
