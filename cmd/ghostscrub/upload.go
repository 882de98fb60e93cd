package ghostscrub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/git"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
	"github.com/jmvrbanac/ghost-scrub/pkg/core"
)

const uploadSchemaVersion = "1"

type uploadEnvelope struct {
	Tool    string        `json:"tool"`
	Version string        `json:"version"`
	Schema  string        `json:"schema_version"`
	Repo    string        `json:"repo,omitempty"`
	Commit  string        `json:"commit,omitempty"`
	Branch  string        `json:"branch,omitempty"`
	Summary engine.Stats  `json:"summary"`
	Changes []core.Change `json:"changes"`
}

func uploadChanges(rootPath, url, token string, noMeta bool, changes []core.Change, stats engine.Stats) error {
	if len(changes) == 0 {
		return nil
	}
	env := uploadEnvelope{Tool: "ghost-scrub", Version: version, Schema: uploadSchemaVersion, Summary: stats, Changes: changes}
	if !noMeta {
		// Best-effort git metadata
		repo, commit, branch := git.RepoMetadata(rootPath)
		env.Repo, env.Commit, env.Branch = repo, commit, branch
	}
	body, _ := json.Marshal(env)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload status %d", resp.StatusCode)
	}
	return nil
}

// convertChanges adapts the internal type to the public facade type when
// needed. Currently Change is a type alias, but keep the function for future
// decoupling.
func convertChanges(in []scrub.Change) []core.Change {
	out := make([]core.Change, len(in))
	for i := range in {
		out[i] = core.Change(in[i])
	}
	return out
}
