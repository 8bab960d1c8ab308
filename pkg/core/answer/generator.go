// Package answer adapts the LLM boundary into the answer-generation
// collaborator contract: sub-question + retrieved evidence in, structured
// payload out.
package answer

import (
	"context"
	"fmt"

	"finsight/pkg/core/agent"
	"finsight/pkg/core/nlp"
	"finsight/pkg/core/prompt"
	"finsight/pkg/core/retrieval"
	"finsight/pkg/core/utils"
)

// fallbackConfidence is used when the model answers in plain text instead of
// the requested JSON shape.
const fallbackConfidence = 0.5

// Payload is the structured answer contract: every response carries answer
// text, a confidence score in [0, 1], and the data sources it drew on.
type Payload struct {
	Answer          string   `json:"answer"`
	ConfidenceScore float64  `json:"confidence_score"`
	DataSources     []string `json:"data_sources"`
}

// Generator produces Payloads through the configured provider.
type Generator struct {
	mgr     *agent.Manager
	prompts *prompt.Registry
}

// NewGenerator wires the provider manager and the injected prompt registry.
func NewGenerator(mgr *agent.Manager, prompts *prompt.Registry) *Generator {
	return &Generator{mgr: mgr, prompts: prompts}
}

// Generate asks the provider to answer one sub-question against the
// retrieved context. Model output that fails JSON parsing degrades to a
// plain-text payload rather than an error; transport errors propagate.
func (g *Generator) Generate(ctx context.Context, subQuestion string, intent nlp.Intent, retrieved *retrieval.Result) (*Payload, error) {
	pt, err := g.prompts.GetPrompt(prompt.AnswerFinancialQA)
	if err != nil {
		return nil, fmt.Errorf("answer prompt missing: %w", err)
	}

	contextBlock := ""
	if retrieved != nil {
		contextBlock = retrieved.Context
	}
	userPrompt, err := pt.RenderUser(map[string]interface{}{
		"Question": subQuestion,
		"Intent":   string(intent),
		"Context":  contextBlock,
	})
	if err != nil {
		return nil, err
	}

	raw, err := g.mgr.ExecutePrompt(ctx, "answer", userPrompt, pt.SystemPrompt, map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	return parsePayload(raw, retrieved), nil
}

// parsePayload decodes the model response, falling back to plain text when
// no parsing strategy yields the structured shape.
func parsePayload(raw string, retrieved *retrieval.Result) *Payload {
	var payload Payload
	if _, err := utils.SmartParse(raw, &payload); err != nil || payload.Answer == "" {
		payload = Payload{
			Answer:          utils.CleanMarkdown(raw),
			ConfidenceScore: fallbackConfidence,
		}
	}

	if payload.ConfidenceScore < 0 {
		payload.ConfidenceScore = 0
	}
	if payload.ConfidenceScore > 1 {
		payload.ConfidenceScore = 1
	}
	if len(payload.DataSources) == 0 && retrieved != nil {
		payload.DataSources = retrieved.DataSources
	}
	return &payload
}
