package core

import (
	"context"
	"fmt"
	"os"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type (
	Config     = engine.Config
	Result     = engine.Result
	Stats      = engine.Stats
	FileError  = engine.FileError
	Policy     = scrub.Policy
	Change     = scrub.Change
	Kind       = scrub.Kind
	FileResult = scrub.Result
	ClassInfo  = scrub.ClassInfo
)

// Change kinds, re-exported for switch statements in consumers.
const (
	KindRemovedChar               = scrub.KindRemovedChar
	KindWhitespaceOnlyToEmpty     = scrub.KindWhitespaceOnlyToEmpty
	KindTrailingWhitespaceTrimmed = scrub.KindTrailingWhitespaceTrimmed
)

// DefaultPolicy returns the policy used when no configuration is present.
func DefaultPolicy() Policy { return scrub.DefaultPolicy() }

// Scrub cleans one buffer under the policy. The buffer is typically a whole
// file; line numbers in the returned changes are 1-based.
func Scrub(data []byte, p Policy) (FileResult, error) {
	return scrub.Scrub(data, p)
}

// ScrubFile reads path, scrubs its content, and stamps the path onto each
// change. The file is never written; pair with Run and cfg.Apply for
// rewrites.
func ScrubFile(path string, p Policy) (FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, err
	}
	res, err := scrub.Scrub(data, p)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	for i := range res.Changes {
		res.Changes[i].Path = path
	}
	return res, nil
}

// Run is the stable entrypoint for other programs. It walks, filters, and
// scrubs per cfg and returns every change found (or applied, when cfg.Apply
// is set).
func Run(ctx context.Context, cfg Config) ([]Change, error) {
	return engine.Run(ctx, cfg)
}

// RunWithStats is Run plus per-run statistics and per-file errors.
func RunWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.RunWithStats(ctx, cfg)
}

// Classes returns the policy's character classes with their enabled state.
// This is exposed for convenience to avoid importing internals directly.
func Classes(p Policy) []ClassInfo { return scrub.Classes(p) }
