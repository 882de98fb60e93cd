// internal/report/sarif_test.go
package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

func TestWriteSARIFWithStats_IncludesProperties(t *testing.T) {
	changes := []scrub.Change{{Path: "a/b.txt", Line: 3, Kind: scrub.KindRemovedChar, Codepoint: "U+200B", Label: "ZWS", Original: "x⦃ZWS⦄y"}}
	stats := engine.Stats{FilesScanned: 4, TotalChanges: 1}
	var buf bytes.Buffer
	if err := WriteSARIFWithStats(&buf, changes, stats); err != nil {
		t.Fatalf("WriteSARIFWithStats: %v", err)
	}
	var doc struct {
		Runs []struct {
			Properties map[string]any `json:"properties"`
			Tool       struct {
				Driver struct {
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, buf.String())
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(doc.Runs))
	}
	props := doc.Runs[0].Properties
	if props == nil {
		t.Fatalf("expected properties present")
	}
	rs, ok := props["runStats"].(map[string]any)
	if !ok {
		t.Fatalf("expected runStats in properties, got: %#v", props)
	}
	if rs["files_scanned"].(float64) != 4 || rs["total_changes"].(float64) != 1 {
		t.Fatalf("unexpected runStats values: %#v", rs)
	}
	// Ensure rules and result linkage via ruleIndex
	if len(doc.Runs[0].Tool.Driver.Rules) == 0 {
		t.Fatalf("expected rules populated")
	}
	if len(doc.Runs[0].Results) == 0 || doc.Runs[0].Results[0].RuleID != "removed_char/ZWS" {
		t.Fatalf("expected result linked to removed_char/ZWS rule; got %+v", doc.Runs[0].Results)
	}
}

// Validate core SARIF structure for WriteSARIF() path
func TestWriteSARIF_Golden(t *testing.T) {
	cs := []scrub.Change{
		{Path: "a.go", Line: 10, Kind: scrub.KindRemovedChar, Codepoint: "U+FEFF", Label: "BOM", Original: "⦃BOM⦄package main"},
		{Path: "b.txt", Line: 5, Kind: scrub.KindTrailingWhitespaceTrimmed, Label: "SP", Original: "hi⦃TRAILING: SP⦄"},
	}
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, cs); err != nil {
		t.Fatal(err)
	}
	// validate minimal schema fields present
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc["version"] != "2.1.0" {
		t.Fatalf("expected SARIF 2.1.0, got %v", doc["version"])
	}
	runs, ok := doc["runs"].([]any)
	if !ok || len(runs) != 1 {
		t.Fatalf("expected 1 run")
	}
	run := runs[0].(map[string]any)
	tool := run["tool"].(map[string]any)
	driver := tool["driver"].(map[string]any)
	// rules should exist under tool.driver.rules, one per distinct rule id
	if rules, ok := driver["rules"].([]any); !ok || len(rules) != 2 {
		t.Fatalf("expected rules with 2 entries under tool.driver.rules")
	}
	// snippet text should appear in first result
	results := run["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("expected 2 results")
	}
	res := results[0].(map[string]any)
	if res["level"] != "warning" {
		t.Fatalf("expected removed char to map to warning, got %v", res["level"])
	}
	locs := res["locations"].([]any)
	phys := locs[0].(map[string]any)["physicalLocation"].(map[string]any)
	region := phys["region"].(map[string]any)
	if _, ok := region["snippet"]; !ok {
		t.Fatalf("expected snippet present")
	}
	if results[1].(map[string]any)["level"] != "note" {
		t.Fatalf("expected whitespace kinds to map to note")
	}
}

func TestWriteSARIF_NoChangesEmitsEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, nil); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Runs []struct {
			Results []any `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Runs[0].Results == nil {
		t.Fatalf("expected results array, got null: %s", buf.String())
	}
}
