package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRegistryInstallsDefaults(t *testing.T) {
	r := NewRegistry()
	if r.Count() < 2 {
		t.Fatalf("expected built-in prompts registered, got %d", r.Count())
	}
	for _, id := range []string{AnswerFinancialQA, SynthesisReport} {
		if _, err := r.GetPrompt(id); err != nil {
			t.Errorf("expected default prompt %s, got error: %v", id, err)
		}
	}
}

func TestRenderUserSubstitutesVariables(t *testing.T) {
	r := NewRegistry()
	tmpl, err := r.GetPrompt(AnswerFinancialQA)
	if err != nil {
		t.Fatal(err)
	}
	rendered, err := tmpl.RenderUser(map[string]interface{}{
		"Intent":   "valuation",
		"Question": "Is AAPL undervalued?",
		"Context":  "=== CONTEXT ===",
	})
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	for _, want := range []string{"valuation", "Is AAPL undervalued?", "=== CONTEXT ==="} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered prompt missing %q", want)
		}
	}
}

func TestRegisterRejectsEmptyID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&PromptTemplate{Name: "no id"}); err == nil {
		t.Error("expected error registering prompt without ID")
	}
}

func TestLoadFromDirectoryOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	promptDir := filepath.Join(dir, "prompts", "answer")
	if err := os.MkdirAll(promptDir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`{
  "id": "answer.financial_qa",
  "name": "Custom Q&A",
  "category": "answer",
  "system_prompt": "You are a custom analyst.",
  "user_prompt_template": "{{.Question}}",
  "version": "2.0"
}`)
	if err := os.WriteFile(filepath.Join(promptDir, "financial_qa.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := LoadFromDirectory(r, dir); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	sys, err := r.GetSystemPrompt(AnswerFinancialQA)
	if err != nil {
		t.Fatal(err)
	}
	if sys != "You are a custom analyst." {
		t.Errorf("expected loaded prompt to override default, got %q", sys)
	}
}
