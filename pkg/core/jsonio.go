package core

import (
	"encoding/json"
	"io"
)

// MarshalChanges pretty-prints changes as JSON for humans or pipelines.
func MarshalChanges(w io.Writer, changes []Change) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(changes)
}

// UnmarshalChanges decodes changes JSON. It accepts both shapes the tool
// emits: a bare array (MarshalChanges, TUI export) and the {changes, stats}
// envelope written by scan --output json.
func UnmarshalChanges(r io.Reader) ([]Change, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var cs []Change
	if err := json.Unmarshal(raw, &cs); err == nil {
		return cs, nil
	}
	var envelope struct {
		Changes []Change `json:"changes"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	return envelope.Changes, nil
}
