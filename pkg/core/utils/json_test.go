package utils

import (
	"encoding/json"
	"testing"
)

type answerSchema struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence_score"`
}

func TestSmartParseValidJSON(t *testing.T) {
	var out answerSchema
	_, err := SmartParse(`{"answer": "AAPL looks fairly valued", "confidence_score": 0.8}`, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Answer != "AAPL looks fairly valued" || out.Confidence != 0.8 {
		t.Errorf("unexpected parse result: %+v", out)
	}
}

func TestSmartParseStripsCodeFences(t *testing.T) {
	var out answerSchema
	input := "```json\n{\"answer\": \"ok\", \"confidence_score\": 0.5}\n```"
	if _, err := SmartParse(input, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Answer != "ok" {
		t.Errorf("expected fenced JSON parsed, got %+v", out)
	}
}

func TestSmartParseRepairsMalformedJSON(t *testing.T) {
	var out answerSchema
	input := `{'answer': 'single quotes', 'confidence_score': 0.4,}`
	if _, err := SmartParse(input, &out); err != nil {
		t.Fatalf("expected repair to succeed: %v", err)
	}
	if out.Answer != "single quotes" {
		t.Errorf("unexpected repaired result: %+v", out)
	}
}

func TestParseHJSON(t *testing.T) {
	input := `{
  # comments and unquoted keys are fine
  answer: fine
  confidence_score: 0.3
}`
	jsonOut, err := ParseHJSON(input)
	if err != nil {
		t.Fatalf("expected hjson parse to succeed: %v", err)
	}
	var out answerSchema
	if err := json.Unmarshal([]byte(jsonOut), &out); err != nil {
		t.Fatalf("hjson output is not valid JSON: %v", err)
	}
	if out.Answer != "fine" || out.Confidence != 0.3 {
		t.Errorf("unexpected hjson result: %+v", out)
	}
}

func TestSmartParseFailsOnGarbage(t *testing.T) {
	var out answerSchema
	if _, err := SmartParse("no structure here at all", &out); err == nil {
		t.Error("expected SMART_PARSE_FAILED for non-JSON input")
	}
}

func TestCleanMarkdownUnwrapsFence(t *testing.T) {
	got := CleanMarkdown("```markdown\n# Heading\n```")
	if got != "# Heading" {
		t.Errorf("expected unwrapped markdown, got %q", got)
	}
}
