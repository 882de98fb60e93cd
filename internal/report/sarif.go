// internal/report/sarif.go
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

type sarif struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int           `json:"startLine"`
	Snippet   *sarifSnippet `json:"snippet,omitempty"`
}

type sarifSnippet struct {
	Text string `json:"text"`
}

// ruleID groups results by what was found. Removed characters carry their
// label identity; the whitespace kinds are each one rule.
func ruleID(c scrub.Change) string {
	if c.Kind == scrub.KindRemovedChar {
		return "removed_char/" + c.Label
	}
	return string(c.Kind)
}

func kindToLevel(k scrub.Kind) string {
	if k == scrub.KindRemovedChar {
		return "warning"
	}
	return "note"
}

func ruleDescription(c scrub.Change) string {
	switch c.Kind {
	case scrub.KindRemovedChar:
		return "invisible character " + c.Label
	case scrub.KindTrailingWhitespaceTrimmed:
		return "trailing whitespace"
	default:
		return "whitespace-only line"
	}
}

func resultText(c scrub.Change) string {
	switch c.Kind {
	case scrub.KindRemovedChar:
		if c.Codepoint != "" && c.Codepoint != c.Label {
			return "invisible character " + c.Label + " (" + c.Codepoint + ")"
		}
		return "invisible character " + c.Label
	case scrub.KindTrailingWhitespaceTrimmed:
		return "trailing whitespace: " + c.Label
	default:
		return "whitespace-only line: " + c.Label
	}
}

// WriteSARIF writes changes as SARIF 2.1.0 to the provided writer.
func WriteSARIF(w io.Writer, changes []scrub.Change) error {
	return writeSARIF(w, changes, nil)
}

// WriteSARIFWithStats additionally attaches run statistics under
// runs[0].properties.runStats.
func WriteSARIFWithStats(w io.Writer, changes []scrub.Change, stats engine.Stats) error {
	return writeSARIF(w, changes, map[string]any{"runStats": stats})
}

func writeSARIF(w io.Writer, changes []scrub.Change, props map[string]any) error {
	driver := sarifDriver{Name: "ghost-scrub", Version: time.Now().Format("2006.01.02")}
	ruleIdx := map[string]int{}
	results := []sarifResult{}
	for _, c := range changes {
		id := ruleID(c)
		idx, ok := ruleIdx[id]
		if !ok {
			idx = len(driver.Rules)
			ruleIdx[id] = idx
			driver.Rules = append(driver.Rules, sarifRule{ID: id, ShortDescription: sarifMessage{Text: ruleDescription(c)}})
		}
		var snippet *sarifSnippet
		if c.Original != "" {
			snippet = &sarifSnippet{Text: c.Original}
		}
		results = append(results, sarifResult{
			RuleID:    id,
			RuleIndex: idx,
			Level:     kindToLevel(c.Kind),
			Message:   sarifMessage{Text: resultText(c)},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: c.Path},
					Region:           sarifRegion{StartLine: c.Line, Snippet: snippet},
				},
			}},
		})
	}
	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: results, Properties: props}
	doc := sarif{Version: "2.1.0", Runs: []sarifRun{run}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
