package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

func TestLogRunAndLoadHistory_NewestFirst(t *testing.T) {
	root := t.TempDir()
	log := NewAuditLog(root)

	for _, id := range []string{"run_1", "run_2", "run_3"} {
		if err := log.LogRun(RunRecord{RunID: id, Mode: "scan", Timestamp: time.Now()}); err != nil {
			t.Fatalf("LogRun(%s): %v", id, err)
		}
	}

	records, err := log.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].RunID != "run_3" || records[2].RunID != "run_1" {
		t.Fatalf("expected newest first, got %s..%s", records[0].RunID, records[2].RunID)
	}
}

func TestLogRun_UsesGitDirWhenPresent(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	log := NewAuditLog(root)
	if err := log.LogRun(RunRecord{RunID: "run_x", Mode: "clean"}); err != nil {
		t.Fatalf("LogRun: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".git", "ghostscrub_audit.jsonl")); err != nil {
		t.Fatalf("expected log inside .git: %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	root := t.TempDir()
	log := NewAuditLog(root)
	for _, id := range []string{"run_1", "run_2", "run_3"} {
		if err := log.LogRun(RunRecord{RunID: id}); err != nil {
			t.Fatal(err)
		}
	}

	// Index 1 in newest-first order is run_2.
	if err := log.DeleteRecord(1); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	records, err := log.LoadHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].RunID != "run_3" || records[1].RunID != "run_1" {
		t.Fatalf("unexpected records after delete: %+v", records)
	}

	if err := log.DeleteRecord(5); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	root := t.TempDir()
	log := NewAuditLog(root)
	if err := log.LogRun(RunRecord{RunID: "run_1"}); err != nil {
		t.Fatal(err)
	}
	if err := log.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := log.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if _, err := log.LoadHistory(); err == nil {
		t.Fatalf("expected missing log after clear")
	}
}

func TestCreateRunRecord(t *testing.T) {
	all := make([]scrub.Change, 0, 12)
	for i := 0; i < 12; i++ {
		all = append(all, scrub.Change{Path: "a.go", Line: i + 1, Kind: scrub.KindRemovedChar, Label: "ZWS"})
	}
	all = append(all, scrub.Change{Path: "b.go", Line: 1, Kind: scrub.KindTrailingWhitespaceTrimmed, Label: "SP"})

	stats := engine.Stats{
		FilesScanned:  7,
		FilesModified: 2,
		Duration:      1500 * time.Millisecond,
		Errors:        []engine.FileError{{Path: "x", Kind: engine.FileReadError, Err: "eperm"}},
	}
	rec := CreateRunRecord("/repo", "scan", all, all[:11], stats, "ghostscrub.baseline.json")

	if rec.TotalChanges != 13 || rec.NewChanges != 11 || rec.BaselinedCount != 2 {
		t.Fatalf("unexpected counts: %+v", rec)
	}
	if len(rec.TopChanges) != 10 {
		t.Fatalf("expected top changes capped at 10, got %d", len(rec.TopChanges))
	}
	if rec.KindCounts["removed_char"] != 12 || rec.KindCounts["trailing_whitespace_trimmed"] != 1 {
		t.Fatalf("unexpected kind counts: %+v", rec.KindCounts)
	}
	if rec.FilesScanned != 7 || rec.FilesModified != 2 || rec.Errors != 1 {
		t.Fatalf("stats not carried: %+v", rec)
	}
	if rec.Duration != "1.5s" {
		t.Fatalf("expected duration string, got %q", rec.Duration)
	}
}
