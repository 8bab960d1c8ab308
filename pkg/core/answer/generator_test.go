package answer

import (
	"testing"

	"finsight/pkg/core/retrieval"
)

func TestParsePayload_ValidJSON(t *testing.T) {
	raw := `{"answer": "AAPL appears fairly valued", "confidence_score": 0.82, "data_sources": ["10-K", "valuation"]}`
	p := parsePayload(raw, nil)

	if p.Answer != "AAPL appears fairly valued" {
		t.Errorf("unexpected answer: %q", p.Answer)
	}
	if p.ConfidenceScore != 0.82 {
		t.Errorf("confidence = %.2f, want 0.82", p.ConfidenceScore)
	}
	if len(p.DataSources) != 2 {
		t.Errorf("expected 2 data sources, got %v", p.DataSources)
	}
}

func TestParsePayload_FencedJSON(t *testing.T) {
	raw := "```json\n{\"answer\": \"ok\", \"confidence_score\": 0.6}\n```"
	p := parsePayload(raw, nil)

	if p.Answer != "ok" || p.ConfidenceScore != 0.6 {
		t.Errorf("fenced JSON not parsed: %+v", p)
	}
}

func TestParsePayload_MalformedJSONRepaired(t *testing.T) {
	// Trailing comma and single quotes: repairable, not valid JSON
	raw := `{'answer': 'repaired', 'confidence_score': 0.4,}`
	p := parsePayload(raw, nil)

	if p.Answer != "repaired" {
		t.Errorf("expected repaired JSON to parse, got answer %q", p.Answer)
	}
}

func TestParsePayload_PlainTextFallback(t *testing.T) {
	retrieved := &retrieval.Result{DataSources: []string{"vector_index", "knowledge_graph"}}
	p := parsePayload("The company looks healthy overall.", retrieved)

	if p.Answer != "The company looks healthy overall." {
		t.Errorf("plain text should pass through, got %q", p.Answer)
	}
	if p.ConfidenceScore != fallbackConfidence {
		t.Errorf("expected fallback confidence %.2f, got %.2f", fallbackConfidence, p.ConfidenceScore)
	}
	if len(p.DataSources) != 2 {
		t.Errorf("expected retrieval data sources on fallback, got %v", p.DataSources)
	}
}

func TestParsePayload_ConfidenceClamped(t *testing.T) {
	p := parsePayload(`{"answer": "x", "confidence_score": 1.7}`, nil)
	if p.ConfidenceScore != 1 {
		t.Errorf("confidence not clamped to 1, got %.2f", p.ConfidenceScore)
	}

	p = parsePayload(`{"answer": "x", "confidence_score": -0.3}`, nil)
	if p.ConfidenceScore != 0 {
		t.Errorf("confidence not clamped to 0, got %.2f", p.ConfidenceScore)
	}
}
