package reasoning

import (
	"fmt"
	"strings"

	"finsight/pkg/core/prompt"
)

const (
	summaryConfidenceFloor = 0.3
	lowConfidenceThreshold = 0.5
	summarySnippetLen      = 100
	maxEvidenceSources     = 5
)

// Synthesizer assembles the final report from a completed chain. The
// assembly is deterministic: same chain, same report.
type Synthesizer struct {
	prompts *prompt.Registry
}

// NewSynthesizer returns a synthesizer using the given prompt registry for
// its report skeleton.
func NewSynthesizer(prompts *prompt.Registry) *Synthesizer {
	return &Synthesizer{prompts: prompts}
}

// Synthesize renders the chain into a markdown report: executive summary
// bullets, per-step findings, an overall confidence assessment, and the
// deduplicated evidence sources.
func (s *Synthesizer) Synthesize(chain *Chain) string {
	var body strings.Builder

	summary := executiveSummary(chain.Steps)
	if len(summary) > 0 {
		body.WriteString("## Executive Summary\n\n")
		for _, line := range summary {
			body.WriteString("- " + line + "\n")
		}
		body.WriteString("\n")
	}

	body.WriteString("## Detailed Findings\n\n")
	for _, step := range chain.Steps {
		body.WriteString(fmt.Sprintf("### Step %d: %s\n\n", step.StepNumber, step.SubQuestion))
		body.WriteString(stepFinding(step))
		body.WriteString("\n\n")
	}

	body.WriteString(fmt.Sprintf("## Overall Assessment\n\n%s (confidence: %.2f)\n",
		confidenceAssessment(chain.OverallConfidence), chain.OverallConfidence))

	evidence := chainEvidence(chain.Steps)
	if len(evidence) > 0 {
		body.WriteString("\n## Evidence Sources\n\n")
		for _, src := range evidence {
			body.WriteString("- " + src + "\n")
		}
	}

	return s.render(chain.OriginalQuestion, body.String())
}

// render wraps the body in the registered report skeleton, falling back to
// a plain header when the template is missing or broken.
func (s *Synthesizer) render(question, body string) string {
	if s.prompts != nil {
		if tmpl, err := s.prompts.GetPrompt(prompt.SynthesisReport); err == nil {
			if rendered, err := tmpl.RenderUser(map[string]interface{}{
				"Question": question,
				"Body":     body,
			}); err == nil {
				return rendered
			}
		}
	}
	return fmt.Sprintf("# Analysis: %s\n\n%s", question, body)
}

// executiveSummary extracts one bullet per sufficiently confident step.
func executiveSummary(steps []Step) []string {
	var bullets []string
	for _, step := range steps {
		if step.Confidence <= summaryConfidenceFloor {
			continue
		}
		answer := stepAnswer(step)
		if answer == "" {
			continue
		}
		bullets = append(bullets, snippet(answer, summarySnippetLen))
	}
	return bullets
}

func stepFinding(step Step) string {
	if step.QueryType == QueryTypeError {
		return fmt.Sprintf("Analysis failed: %s", stepError(step))
	}
	answer := stepAnswer(step)
	if answer == "" {
		answer = "No answer produced for this sub-question."
	}
	if step.Confidence < lowConfidenceThreshold {
		return fmt.Sprintf("%s\n\n*Note: limited data available for this step (confidence: %.2f).*", answer, step.Confidence)
	}
	return answer
}

func confidenceAssessment(confidence float64) string {
	switch {
	case confidence > 0.7:
		return "High confidence in the analysis above."
	case confidence > 0.4:
		return "Moderate confidence; some findings rest on incomplete data."
	default:
		return "Low confidence; treat the findings above as indicative only."
	}
}

// chainEvidence merges step evidence in encounter order, capped at five
// distinct sources.
func chainEvidence(steps []Step) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, step := range steps {
		for _, item := range step.Evidence {
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			sources = append(sources, item)
			if len(sources) == maxEvidenceSources {
				return sources
			}
		}
	}
	return sources
}

func stepAnswer(step Step) string {
	if step.Result == nil {
		return ""
	}
	answer, _ := step.Result["answer"].(string)
	return strings.TrimSpace(answer)
}

func stepError(step Step) string {
	if step.Result == nil {
		return "unknown error"
	}
	if msg, _ := step.Result["error"].(string); msg != "" {
		return msg
	}
	return "unknown error"
}

func snippet(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return strings.TrimSpace(text[:limit]) + "..."
}
