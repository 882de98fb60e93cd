// Package watch turns filesystem events into debounced scrub passes.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
)

// DefaultDebounce is how long a path must stay quiet before its pass runs.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher beyond the engine config it runs.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
	// OnPass receives the outcome of every settled pass.
	OnPass func(path string, res engine.Result, err error)
}

// Watcher owns an fsnotify watcher over the root's directory tree and a
// per-path debounce table. Each settled path runs exactly one engine pass;
// a write landing mid-pass marks the path for one trailing pass instead of
// stacking passes.
type Watcher struct {
	cfg      engine.Config
	opts     Options
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*pathState

	// pass runs one scrub over a single root-relative path. Stubbed in tests.
	pass func(rel string)
	ctx  context.Context

	stopChan chan struct{}
	doneChan chan struct{}
}

type pathState struct {
	timer    *time.Timer
	inflight bool
	rerun    bool
}

// New creates a watcher for cfg.Root. The engine config is reused verbatim
// for every per-file pass, so filters, policy, and apply mode behave exactly
// as in a one-shot run.
func New(cfg engine.Config, opts Options) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	cfg.Root = root

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		cfg:      cfg,
		opts:     opts,
		fsw:      fsw,
		logger:   logger.With("component", "watcher"),
		debounce: debounce,
		pending:  make(map[string]*pathState),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	w.pass = w.enginePass
	return w, nil
}

// Start registers the directory tree and begins dispatching events.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	w.ctx = ctx

	if err := w.addTree(w.cfg.Root, false); err != nil {
		return err
	}
	w.logger.Info("watching for changes", "root", w.cfg.Root, "debounce", w.debounce)

	go w.watchLoop(ctx)
	return nil
}

// Stop terminates the event loop and releases the fsnotify watcher. Passes
// already in flight finish on their own goroutines.
func (w *Watcher) Stop() {
	close(w.stopChan)
	<-w.doneChan
	w.fsw.Close()
	w.logger.Info("watcher stopped")
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.doneChan)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch loop stopped by context")
			return
		case <-w.stopChan:
			w.logger.Debug("watch loop stopped by stop signal")
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				w.logger.Debug("watcher events channel closed")
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.logger.Debug("watcher errors channel closed")
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if skipEvent(filepath.Base(event.Name)) {
		return
	}

	st, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if st.IsDir() {
		// New subtree: register it and pick up files that raced ahead of
		// the registration.
		if event.Op&fsnotify.Create != 0 {
			if err := w.addTree(event.Name, true); err != nil {
				w.logger.Error("failed to watch new directory", "dir", event.Name, "error", err)
			}
		}
		return
	}
	if !st.Mode().IsRegular() {
		return
	}

	rel, err := filepath.Rel(w.cfg.Root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	w.logger.Debug("file event", "op", event.Op.String(), "path", rel)
	w.schedule(filepath.ToSlash(rel))
}

// addTree registers dir and its subdirectories, skipping the built-in
// exclude set. With scheduleFiles set, regular files found along the way are
// queued for a pass.
func (w *Watcher) addTree(dir string, scheduleFiles bool) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && w.cfg.DefaultExcludes && engine.IsDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return w.fsw.Add(p)
		}
		if scheduleFiles && d.Type().IsRegular() && !skipEvent(d.Name()) {
			if rel, err := filepath.Rel(w.cfg.Root, p); err == nil && !strings.HasPrefix(rel, "..") {
				w.schedule(filepath.ToSlash(rel))
			}
		}
		return nil
	})
}

// schedule arms (or re-arms) the debounce timer for a path. Events arriving
// while the path's pass is running mark it for a single trailing pass.
func (w *Watcher) schedule(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.pending[rel]
	if !ok {
		st = &pathState{}
		w.pending[rel] = st
	}
	if st.inflight {
		st.rerun = true
		return
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(w.debounce, func() { w.settle(rel) })
}

func (w *Watcher) settle(rel string) {
	w.mu.Lock()
	st := w.pending[rel]
	if st == nil || st.inflight {
		w.mu.Unlock()
		return
	}
	st.inflight = true
	st.timer = nil
	w.mu.Unlock()

	w.pass(rel)

	w.mu.Lock()
	st.inflight = false
	rerun := st.rerun
	st.rerun = false
	if !rerun {
		delete(w.pending, rel)
	}
	w.mu.Unlock()

	if rerun {
		w.schedule(rel)
	}
}

func (w *Watcher) enginePass(rel string) {
	cfg := w.cfg
	cfg.Paths = []string{rel}
	cfg.Progress = nil

	res, err := engine.RunWithStats(w.ctx, cfg)
	if err != nil {
		w.logger.Error("pass failed", "path", rel, "error", err)
	} else if res.Stats.TotalChanges > 0 {
		w.logger.Info("pass finished", "path", rel, "changes", res.Stats.TotalChanges, "duration", res.Stats.Duration)
	}
	if w.opts.OnPass != nil {
		w.opts.OnPass(rel, res, err)
	}
}

// skipEvent drops editor droppings before they reach the debounce table.
// Selection proper (globs, extensions, ignore file, binary sniff) stays with
// the engine pass.
func skipEvent(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasSuffix(name, ".bak") ||
		strings.Contains(name, ".#")
}
