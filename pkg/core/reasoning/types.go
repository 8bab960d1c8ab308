// Package reasoning decomposes compound financial questions, drives the
// sub-question loop, aggregates confidence, and synthesizes the final
// narrative.
package reasoning

import (
	"time"

	"finsight/pkg/core/nlp"
)

// QueryTypeError marks a step whose execution failed; such steps carry zero
// confidence and their evidence records the error message.
const QueryTypeError = "error"

// Step is one executed sub-question. Steps are created once and never
// mutated afterwards.
type Step struct {
	StepNumber  int                    `json:"step_number"` // 1-based, sequential, no gaps
	SubQuestion string                 `json:"sub_question"`
	QueryType   string                 `json:"query_type"` // intent tag, or "error"
	Result      map[string]interface{} `json:"result"`
	Confidence  float64                `json:"confidence"` // in [0, 1]
	Evidence    []string               `json:"evidence"`   // deduplicated
}

// Metadata describes one orchestration run.
type Metadata struct {
	ChainID         string    `json:"chain_id"`
	StepCount       int       `json:"step_count"`
	ComplexityScore float64   `json:"complexity_score"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Chain is the complete result of one reasoning run. A chain is owned by a
// single orchestration run and never shared across requests.
type Chain struct {
	OriginalQuestion  string   `json:"original_question"`
	SubQuestions      []string `json:"sub_questions"`
	Steps             []Step   `json:"reasoning_steps"`
	FinalAnswer       string   `json:"final_answer"`
	OverallConfidence float64  `json:"overall_confidence"`
	Metadata          Metadata `json:"processing_metadata"`
}

// StepContext is the accumulated context threaded through the loop. Each
// step receives the context produced by its predecessors and returns an
// extended copy; nothing is mutated in place.
type StepContext map[string]interface{}

// merged returns a copy of sc extended with the context-relevant fields of
// the step result: ticker, valuation snapshot, and company info.
func (sc StepContext) merged(result map[string]interface{}) StepContext {
	next := make(StepContext, len(sc)+3)
	for k, v := range sc {
		next[k] = v
	}
	for _, key := range []string{"ticker", "valuation", "company_info"} {
		if v, ok := result[key]; ok && v != nil {
			next[key] = v
		}
	}
	return next
}

// intentTag renders an intent as the step query type.
func intentTag(intent nlp.Intent) string {
	return string(intent)
}
