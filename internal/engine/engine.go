package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/jmvrbanac/ghost-scrub/internal/cache"
	"github.com/jmvrbanac/ghost-scrub/internal/git"
	"github.com/jmvrbanac/ghost-scrub/internal/ignore"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// Config controls a run: scope, filters, performance, and write behavior.
type Config struct {
	Root            string
	Paths           []string // start points under Root; empty means the whole root
	IncludeGlobs    string   // comma-separated, positive filter when set
	ExcludeGlobs    string   // comma-separated, subtracted last
	IncludeExts     []string // extension allowlist without dots; empty allows all
	ExcludeExts     []string
	MaxBytes        int64
	Threads         int
	Apply           bool // rewrite modified files in place
	Backup          bool // write <path>.bak before rewriting
	NoCache         bool
	DefaultExcludes bool
	ScanStaged      bool
	HistoryCommits  int
	BaseBranch      string
	Policy          scrub.Policy
	Progress        func()
}

// Per-file error kinds carried in Stats.Errors.
const (
	FileReadError    = "FileReadError"
	Utf8DecodeError  = "Utf8DecodeError"
	FileWriteError   = "FileWriteError"
	ConfigParseError = "ConfigParseError"
)

// FileError records a per-file failure. The run continues past it; every
// skipped file surfaces here.
type FileError struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Err  string `json:"error"`
}

func (e FileError) Error() string {
	return e.Kind + ": " + e.Path + ": " + e.Err
}

// Stats summarizes one run. FilesScanned counts files actually scrubbed;
// cache hits, binaries, and errored files land in FilesSkipped.
type Stats struct {
	FilesScanned  int           `json:"files_scanned"`
	FilesModified int           `json:"files_modified"`
	FilesSkipped  int           `json:"files_skipped"`
	TotalChanges  int           `json:"total_changes"`
	Errors        []FileError   `json:"errors,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// Result carries the changes and statistics of one run.
type Result struct {
	Changes []scrub.Change
	Stats   Stats
}

type job struct {
	path string // root-relative, slash-separated; history jobs carry a hash prefix
	abs  string // absolute path for rewrites; empty for git blobs
	data []byte // preloaded content; nil means the worker reads abs

	// noCache marks content with no worktree identity (history/diff
	// payloads) that must never seed the clean-file cache.
	noCache bool
}

type fileResult struct {
	path     string
	changes  []scrub.Change
	scanned  bool
	modified bool
	cacheVal string
	err      *FileError
}

// Run executes a scrub pass and returns the changes found.
func Run(ctx context.Context, cfg Config) ([]scrub.Change, error) {
	res, err := RunWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Changes, nil
}

// RunWithStats executes a scrub pass and returns changes plus run statistics.
// The mode is picked from the config: history, diff-base, and staged runs are
// report-only; the default walks the working tree and honors Apply.
func RunWithStats(ctx context.Context, cfg Config) (Result, error) {
	var res Result

	if cfg.Root == "" {
		cfg.Root = "."
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return res, err
	}
	cfg.Root = abs
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.NumCPU()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fp := cfg.Policy.Fingerprint()
	db := cache.DB{Fingerprint: fp, Entries: map[string]string{}}
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root, fp)
	}
	updated := map[string]string{}

	ign, err := ignore.LoadRoot(cfg.Root)
	if err != nil {
		ign = &ignore.Matcher{}
	}

	started := time.Now()
	switch {
	case cfg.HistoryCommits > 0:
		err = runHistory(ctx, cfg, ign, db, &res, updated)
	case cfg.BaseBranch != "":
		err = runDiff(ctx, cfg, ign, db, &res, updated)
	case cfg.ScanStaged:
		err = runStaged(ctx, cfg, ign, db, &res, updated)
	default:
		err = runFilesystem(ctx, cfg, ign, db, &res, updated)
	}
	res.Stats.Duration = time.Since(started)
	if err != nil {
		return res, err
	}

	if !cfg.NoCache && len(updated) > 0 {
		for k, v := range updated {
			db.Entries[k] = v
		}
		db.Fingerprint = fp
		_ = cache.Save(cfg.Root, db)
	}

	sortChanges(res.Changes)
	return res, nil
}

// sortChanges orders pool output by path then line so reports and baselines
// are stable across runs.
func sortChanges(changes []scrub.Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Path != changes[j].Path {
			return changes[i].Path < changes[j].Path
		}
		return changes[i].Line < changes[j].Line
	})
}

func runFilesystem(ctx context.Context, cfg Config, ign *ignore.Matcher, db cache.DB, res *Result, updated map[string]string) error {
	return runPool(ctx, cfg, db, res, updated, func(send func(job) error) error {
		return Walk(ctx, cfg, ign, func(rel, abs string) error {
			return send(job{path: rel, abs: abs})
		})
	})
}

func runStaged(ctx context.Context, cfg Config, ign *ignore.Matcher, db cache.DB, res *Result, updated map[string]string) error {
	files, data, err := git.StagedDiff(cfg.Root)
	if err != nil {
		return err
	}
	return runPool(ctx, cfg, db, res, updated, func(send func(job) error) error {
		for i, p := range files {
			if !selectPath(p, cfg) || ign.Match(p) {
				continue
			}
			if cfg.MaxBytes > 0 && int64(len(data[i])) > cfg.MaxBytes {
				continue
			}
			if err := send(job{path: p, data: data[i]}); err != nil {
				return err
			}
		}
		return nil
	})
}

func runHistory(ctx context.Context, cfg Config, ign *ignore.Matcher, db cache.DB, res *Result, updated map[string]string) error {
	commits, err := git.LastNCommits(cfg.Root, cfg.HistoryCommits)
	if err != nil {
		return err
	}
	return runPool(ctx, cfg, db, res, updated, func(send func(job) error) error {
		for _, c := range commits {
			short := c.Hash
			if len(short) > 8 {
				short = short[:8]
			}
			for p, blob := range c.Files {
				if !selectPath(p, cfg) || ign.Match(p) {
					continue
				}
				if cfg.MaxBytes > 0 && int64(len(blob)) > cfg.MaxBytes {
					continue
				}
				if err := send(job{path: short + ":" + p, data: blob, noCache: true}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func runDiff(ctx context.Context, cfg Config, ign *ignore.Matcher, db cache.DB, res *Result, updated map[string]string) error {
	files, data, err := git.DiffAgainst(cfg.Root, cfg.BaseBranch)
	if err != nil {
		return err
	}
	return runPool(ctx, cfg, db, res, updated, func(send func(job) error) error {
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
			if err := send(job{path: p, data: data[i], noCache: true}); err != nil {
				return err
			}
		}
		return nil
	})
}

// runPool fans jobs out to a fixed worker set and funnels every result
// through a single collector goroutine, so stats and the cache-update map
// never need locking.
func runPool(ctx context.Context, cfg Config, db cache.DB, res *Result, updated map[string]string, produce func(send func(job) error) error) error {
	jobs := make(chan job)
	results := make(chan fileResult)

	workers := poolSize(cfg.Threads)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- processJob(cfg, db, j)
			}
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for r := range results {
			collect(cfg, r, res, updated)
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		send := func(j job) error {
			select {
			case jobs <- j:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		producerErr <- produce(send)
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := <-producerErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func poolSize(threads int) int {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if threads < 1 {
		threads = 1
	}
	if threads > 32 {
		threads = 32
	}
	return threads
}

func processJob(cfg Config, db cache.DB, j job) fileResult {
	r := fileResult{path: j.path}

	data := j.data
	if data == nil && j.abs != "" {
		b, err := os.ReadFile(j.abs)
		if err != nil {
			r.err = &FileError{Path: j.path, Kind: FileReadError, Err: err.Error()}
			return r
		}
		data = b
	}

	if looksBinary(data) {
		return r
	}
	if bytes.Contains(data, []byte(scrub.MarkerIgnoreFile)) {
		return r
	}

	h := cache.Hash(data)
	if !cfg.NoCache && !j.noCache && db.Entries[j.path] == h {
		return r
	}

	out, err := scrub.Scrub(data, cfg.Policy)
	if err != nil {
		r.err = &FileError{Path: j.path, Kind: Utf8DecodeError, Err: err.Error()}
		return r
	}
	r.scanned = true

	if !out.WasModified {
		// Only verified-clean content seeds the cache; dirty files must
		// keep showing up on the next scan.
		if !j.noCache {
			r.cacheVal = h
		}
		return r
	}

	r.changes = out.Changes
	for i := range r.changes {
		r.changes[i].Path = j.path
	}
	r.modified = true

	if cfg.Apply && j.abs != "" {
		if err := applyFile(j.abs, data, out.Cleaned, cfg.Backup); err != nil {
			r.modified = false
			r.err = &FileError{Path: j.path, Kind: FileWriteError, Err: err.Error()}
			return r
		}
		// The rewritten content is clean; caching it keeps watch mode
		// from re-scrubbing its own writes.
		if !j.noCache {
			r.cacheVal = cache.Hash(out.Cleaned)
		}
	}
	return r
}

func collect(cfg Config, r fileResult, res *Result, updated map[string]string) {
	if r.scanned {
		res.Stats.FilesScanned++
	} else {
		res.Stats.FilesSkipped++
	}
	if r.modified {
		res.Stats.FilesModified++
	}
	if r.err != nil {
		res.Stats.Errors = append(res.Stats.Errors, *r.err)
	}
	if len(r.changes) > 0 {
		res.Changes = append(res.Changes, r.changes...)
		res.Stats.TotalChanges += len(r.changes)
	}
	if r.cacheVal != "" {
		updated[r.path] = r.cacheVal
	}
	if cfg.Progress != nil {
		cfg.Progress()
	}
}

// applyFile rewrites abs atomically: temp file in the destination directory,
// source permissions, fsync, then rename. The original is only replaced once
// the new content is fully on disk.
func applyFile(abs string, original, cleaned []byte, backup bool) error {
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if backup {
		if err := os.WriteFile(abs+".bak", original, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return writeFileAtomic(abs, cleaned, info.Mode().Perm())
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ghost-scrub-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return replaceFile(tmp.Name(), path)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

// selectPath applies glob, extension, and default-exclude filters to a
// root-relative path.
func selectPath(rel string, cfg Config) bool {
	if !allowedByGlobs(rel, cfg) {
		return false
	}
	if !allowedByExtension(rel, cfg) {
		return false
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
		return false
	}
	return true
}

// allowedByExtension checks the allow/deny extension lists. Files without an
// extension always pass; the lists only constrain named extensions.
func allowedByExtension(rel string, cfg Config) bool {
	ext := strings.TrimPrefix(filepath.Ext(rel), ".")
	if ext == "" {
		return true
	}
	for _, e := range cfg.ExcludeExts {
		if strings.EqualFold(e, ext) {
			return false
		}
	}
	if len(cfg.IncludeExts) == 0 {
		return true
	}
	for _, e := range cfg.IncludeExts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs are comma-separated and, if provided, act as
// a positive filter. Exclude globs are subtracted last. Matching uses
// forward-slash semantics.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 {
		matched := matchAnyGlob(rp, includes)
		if !matched {
			return false
		}
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
			out = append(out, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
