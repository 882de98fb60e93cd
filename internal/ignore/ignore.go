// Package ignore matches walked paths against a repo-local
// .ghostscrubignore file using gitignore semantics.
package ignore

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName is the per-repo ignore file consulted during walks.
const FileName = ".ghostscrubignore"

// Matcher reports whether a root-relative path is excluded. The zero value
// matches nothing.
type Matcher struct {
	gi *gitignore.GitIgnore
}

// Load compiles gitignore-style patterns from the file at path.
func Load(path string) (*Matcher, error) {
	gi, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, err
	}
	return &Matcher{gi: gi}, nil
}

// LoadRoot loads root/.ghostscrubignore when present. The returned matcher
// is never nil; without a file it matches nothing.
func LoadRoot(root string) (*Matcher, error) {
	p := filepath.Join(root, FileName)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return &Matcher{}, nil
		}
		return nil, err
	}
	return Load(p)
}

// Match reports whether rel is ignored. rel must be slash-separated and
// relative to the scan root.
func (m *Matcher) Match(rel string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(rel)
}
