// ABOUTME: Unit tests for the ScoredPassage model
// ABOUTME: Verifies JSON field names
package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestScoredPassage_JSONFields(t *testing.T) {
	sp := ScoredPassage{
		Passage: Passage{ID: "about", Source: SourceAbout, Text: "Alice is an engineer."},
		Score:   0.75,
	}

	data, err := json.Marshal(sp)
	if err != nil {
		t.Fatalf("Failed to marshal ScoredPassage: %v", err)
	}

	for _, field := range []string{`"passage"`, `"score":0.75`, `"source":"about"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON %s missing %s", data, field)
		}
	}
}
