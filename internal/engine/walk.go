package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmvrbanac/ghost-scrub/internal/git"
	"github.com/jmvrbanac/ghost-scrub/internal/ignore"
)

// Walk traverses the configured start paths and emits each eligible file as
// (root-relative path, absolute path). Content is left to the workers; the
// walk only applies name, size, glob, and ignore filters.
func Walk(ctx context.Context, cfg Config, ign *ignore.Matcher, emit func(rel, abs string) error) error {
	starts := cfg.Paths
	if len(starts) == 0 {
		starts = []string{cfg.Root}
	}
	for _, start := range starts {
		absStart := start
		if !filepath.IsAbs(absStart) {
			absStart = filepath.Join(cfg.Root, start)
		}
		info, err := os.Stat(absStart)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			rel := relTo(cfg.Root, absStart)
			if !selectPath(rel, cfg) || ign.Match(rel) {
				continue
			}
			if cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
				continue
			}
			if err := emit(rel, absStart); err != nil {
				return err
			}
			continue
		}
		err = filepath.WalkDir(absStart, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if d.IsDir() {
				if cfg.DefaultExcludes && IsDefaultDirExcluded(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel := relTo(cfg.Root, p)
			if !selectPath(rel, cfg) {
				return nil
			}
			if ign.Match(rel) {
				return nil
			}
			info, _ := d.Info()
			if info != nil && cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
				return nil
			}
			return emit(rel, p)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func relTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// looksBinary treats any NUL byte in the first 800 bytes as binary content.
func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// CountTargets estimates the number of files a run will consider, for
// progress totals. It mirrors the selection logic of each mode but avoids
// reading file contents.
func CountTargets(cfg Config) (int, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return 0, err
	}
	cfg.Root = abs
	ign, err := ignore.LoadRoot(cfg.Root)
	if err != nil {
		ign = &ignore.Matcher{}
	}

	if cfg.HistoryCommits > 0 {
		commits, err := git.LastNCommits(cfg.Root, cfg.HistoryCommits)
		if err != nil {
			return 0, nil
		}
		n := 0
		for _, c := range commits {
			for path, blob := range c.Files {
				if !selectPath(path, cfg) || ign.Match(path) {
					continue
				}
				if cfg.MaxBytes > 0 && int64(len(blob)) > cfg.MaxBytes {
					continue
				}
				n++
			}
		}
		return n, nil
	}

	if cfg.BaseBranch != "" {
		files, data, err := git.DiffAgainst(cfg.Root, cfg.BaseBranch)
		if err != nil {
			return 0, nil
		}
		n := 0
		for i, p := range files {
			if len(data[i]) == 0 { // pure deletions or renames
				continue
			}
			if !selectPath(p, cfg) || ign.Match(p) {
				continue
			}
			if cfg.MaxBytes > 0 && int64(len(data[i])) > cfg.MaxBytes {
				continue
			}
			n++
		}
		return n, nil
	}

	if cfg.ScanStaged {
		files, data, err := git.StagedDiff(cfg.Root)
		if err != nil {
			return 0, nil
		}
		n := 0
		for i, p := range files {
			if !selectPath(p, cfg) || ign.Match(p) {
				continue
			}
			if cfg.MaxBytes > 0 && int64(len(data[i])) > cfg.MaxBytes {
				continue
			}
			n++
		}
		return n, nil
	}

	count := 0
	err = Walk(context.Background(), cfg, ign, func(rel, abs string) error {
		count++
		return nil
	})
	return count, err
}
