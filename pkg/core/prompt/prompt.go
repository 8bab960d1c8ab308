// Package prompt provides a centralized prompt library for LLM interactions.
// Prompts can be defined in JSON files and loaded at runtime; a Registry is
// constructed once per process and injected wherever prompts are consumed.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// PromptTemplate represents a reusable prompt with metadata.
type PromptTemplate struct {
	ID             string `json:"id"`                   // Unique identifier (e.g. "answer.financial_qa")
	Name           string `json:"name"`                 // Human-readable name
	Category       string `json:"category"`             // Category (answer, synthesis, ...)
	Description    string `json:"description"`          // Purpose of the prompt
	SystemPrompt   string `json:"system_prompt"`        // The system prompt content
	UserPromptTmpl string `json:"user_prompt_template"` // Go template for the user prompt
	Version        string `json:"version"`              // Version for tracking changes
}

// RenderUser executes the user-prompt template with the given variables.
func (pt *PromptTemplate) RenderUser(vars map[string]interface{}) (string, error) {
	tmpl, err := template.New(pt.ID).Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("prompt %s template parse failed: %w", pt.ID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("prompt %s template execute failed: %w", pt.ID, err)
	}
	return buf.String(), nil
}
