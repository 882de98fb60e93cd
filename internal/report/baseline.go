package report

import (
	"encoding/json"
	"os"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// BaselineName is the default baseline file at the repository root.
const BaselineName = "ghostscrub.baseline.json"

// Baseline records accepted changes so CI only fails on new ones. Keys are
// Path|Label|Original, deliberately excluding line numbers so edits above a
// known offender do not resurface it.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	_ = json.Unmarshal(f, &b)
	return b, nil
}

func SaveBaseline(path string, changes []scrub.Change) error {
	b := Baseline{Items: map[string]bool{}}
	for _, c := range changes {
		b.Items[key(c)] = true
	}
	buf, _ := json.MarshalIndent(b, "", "  ")
	return os.WriteFile(path, buf, 0644)
}

func FilterNewChanges(changes []scrub.Change, base Baseline) []scrub.Change {
	var out []scrub.Change
	for _, c := range changes {
		if !base.Items[key(c)] {
			out = append(out, c)
		}
	}
	return out
}

func key(c scrub.Change) string {
	return c.Path + "|" + c.Label + "|" + c.Original
}

// ShouldFail reports whether a run should exit nonzero for the given
// threshold. "changes" fails on any change or error, "errors" only on
// errors, "none" never fails. Unknown values fall back to "changes".
func ShouldFail(changes []scrub.Change, errs []engine.FileError, failOn string) bool {
	switch failOn {
	case "none":
		return false
	case "errors":
		return len(errs) > 0
	default:
		return len(changes) > 0 || len(errs) > 0
	}
}
