package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// RunRecord is one line of the append-only run history.
type RunRecord struct {
	Timestamp      time.Time       `json:"timestamp"`
	RunID          string          `json:"run_id"`
	Root           string          `json:"root"`
	Mode           string          `json:"mode"`
	TotalChanges   int             `json:"total_changes"`
	NewChanges     int             `json:"new_changes"`
	BaselinedCount int             `json:"baselined_count"`
	KindCounts     map[string]int  `json:"kind_counts"`
	FilesScanned   int             `json:"files_scanned"`
	FilesModified  int             `json:"files_modified"`
	Errors         int             `json:"errors"`
	Duration       string          `json:"duration"`
	BaselineFile   string          `json:"baseline_file,omitempty"`
	TopChanges     []ChangeSummary `json:"top_changes,omitempty"`
}

type ChangeSummary struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Line  int    `json:"line"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(root string) *AuditLog {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".ghostscrub_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "ghostscrub_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// LoadHistory returns recorded runs, most recent first.
func (a *AuditLog) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record RunRecord
		if err := decoder.Decode(&record); err != nil {
			continue
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = fmt.Sprintf("run_%d", time.Now().Unix())
	}

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// DeleteRecord removes one record by its index in LoadHistory order.
func (a *AuditLog) DeleteRecord(index int) error {
	records, err := a.LoadHistory()
	if err != nil {
		return err
	}

	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}

	records = append(records[:index], records[index+1:]...)

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	f, err := os.Create(a.logPath)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}
	return nil
}

// Clear removes the whole history. Missing log is not an error.
func (a *AuditLog) Clear() error {
	if err := os.Remove(a.logPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear audit log: %w", err)
	}
	return nil
}

// CreateRunRecord summarizes one run. newChanges is the post-baseline slice;
// up to ten of them land in TopChanges. The full change list is not stored,
// the last-run results file already has it.
func CreateRunRecord(
	root string,
	mode string,
	allChanges []scrub.Change,
	newChanges []scrub.Change,
	stats engine.Stats,
	baselineFile string,
) RunRecord {
	kindCounts := make(map[string]int)
	for _, c := range allChanges {
		kindCounts[string(c.Kind)]++
	}

	topChanges := make([]ChangeSummary, 0, 10)
	for i, c := range newChanges {
		if i >= 10 {
			break
		}
		topChanges = append(topChanges, ChangeSummary{
			Path:  c.Path,
			Label: c.Label,
			Kind:  string(c.Kind),
			Line:  c.Line,
		})
	}

	return RunRecord{
		Timestamp:      time.Now(),
		Root:           root,
		Mode:           mode,
		TotalChanges:   len(allChanges),
		NewChanges:     len(newChanges),
		BaselinedCount: len(allChanges) - len(newChanges),
		KindCounts:     kindCounts,
		FilesScanned:   stats.FilesScanned,
		FilesModified:  stats.FilesModified,
		Errors:         len(stats.Errors),
		Duration:       stats.Duration.String(),
		BaselineFile:   baselineFile,
		TopChanges:     topChanges,
	}
}
