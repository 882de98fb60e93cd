package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWatcher(t *testing.T, debounce time.Duration) *Watcher {
	t.Helper()
	cfg := engine.Config{
		Root:            t.TempDir(),
		Threads:         2,
		DefaultExcludes: true,
		Policy:          scrub.DefaultPolicy(),
	}
	w, err := New(cfg, Options{Debounce: debounce, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.fsw.Close() })
	return w
}

func TestSkipEvent(t *testing.T) {
	cases := map[string]bool{
		"a.txt":      false,
		"notes.md":   false,
		"Makefile":   false,
		".DS_Store":  true,
		".swapfile":  true,
		"a.txt~":     true,
		"build.tmp":  true,
		"x.swp":      true,
		"x.bak":      true,
		".#lockfile": true,
	}
	for name, want := range cases {
		if got := skipEvent(name); got != want {
			t.Errorf("skipEvent(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestScheduleCollapsesBursts(t *testing.T) {
	w := newTestWatcher(t, 30*time.Millisecond)
	var passes atomic.Int32
	w.pass = func(string) { passes.Add(1) }

	for i := 0; i < 5; i++ {
		w.schedule("a.txt")
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := passes.Load(); got != 1 {
		t.Fatalf("expected burst to settle into 1 pass, got %d", got)
	}
}

func TestSchedule_SeparatePathsRunSeparatePasses(t *testing.T) {
	w := newTestWatcher(t, 20*time.Millisecond)
	var passes atomic.Int32
	w.pass = func(string) { passes.Add(1) }

	w.schedule("a.txt")
	w.schedule("b.txt")
	time.Sleep(120 * time.Millisecond)

	if got := passes.Load(); got != 2 {
		t.Fatalf("expected one pass per path, got %d", got)
	}
}

func TestMidPassEventTriggersOneTrailingPass(t *testing.T) {
	w := newTestWatcher(t, 20*time.Millisecond)
	started := make(chan struct{})
	release := make(chan struct{})
	var passes atomic.Int32
	w.pass = func(string) {
		if passes.Add(1) == 1 {
			close(started)
			<-release
		}
	}

	w.schedule("a.txt")
	<-started
	// Writes landing while the pass runs collapse into one trailing pass.
	w.schedule("a.txt")
	w.schedule("a.txt")
	close(release)
	time.Sleep(150 * time.Millisecond)

	if got := passes.Load(); got != 2 {
		t.Fatalf("expected exactly one trailing pass, got %d passes", got)
	}
}

func TestWatcherCleansOnWrite(t *testing.T) {
	root := t.TempDir()
	cfg := engine.Config{
		Root:            root,
		MaxBytes:        1 << 20,
		Threads:         2,
		Apply:           true,
		DefaultExcludes: true,
		Policy:          scrub.DefaultPolicy(),
	}

	results := make(chan engine.Result, 8)
	w, err := New(cfg, Options{
		Debounce: 30 * time.Millisecond,
		Logger:   quietLogger(),
		OnPass: func(path string, res engine.Result, err error) {
			if err == nil {
				results <- res
			}
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(root, "a.txt")
	if err := os.WriteFile(path, []byte("x\u200By\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-results:
			if res.Stats.TotalChanges == 0 {
				continue // pass triggered by our own rewrite
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "xy\n" {
				t.Fatalf("expected auto-cleaned content, got %q", data)
			}
			return
		case <-deadline:
			t.Fatalf("timed out waiting for auto-clean")
		}
	}
}
