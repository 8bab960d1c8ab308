package reasoning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"finsight/pkg/core/answer"
	"finsight/pkg/core/nlp"
	"finsight/pkg/core/query"
	"finsight/pkg/core/retrieval"
)

// Retriever is the consumed hybrid-retrieval boundary.
type Retriever interface {
	Retrieve(ctx context.Context, q retrieval.Query) (*retrieval.Result, error)
}

// AnswerGenerator is the consumed answer-generation collaborator.
type AnswerGenerator interface {
	Generate(ctx context.Context, subQuestion string, intent nlp.Intent, retrieved *retrieval.Result) (*answer.Payload, error)
}

// Orchestrator drives the decompose -> query -> retrieve -> answer loop.
// Sub-questions run strictly in order: step i+1 may consume context
// accumulated through step i.
type Orchestrator struct {
	builder     *query.Builder
	retriever   Retriever
	generator   AnswerGenerator
	synthesizer *Synthesizer
}

// NewOrchestrator wires the pipeline stages.
func NewOrchestrator(builder *query.Builder, retriever Retriever, generator AnswerGenerator, synthesizer *Synthesizer) *Orchestrator {
	return &Orchestrator{
		builder:     builder,
		retriever:   retriever,
		generator:   generator,
		synthesizer: synthesizer,
	}
}

// Execute runs the full reasoning chain for a compound question. Individual
// step failures never abort the chain: they become zero-confidence error
// steps and the loop continues.
func (o *Orchestrator) Execute(ctx context.Context, question string) *Chain {
	tickers := nlp.ExtractTickers(question)
	decomposition := Decompose(question, tickers)

	fmt.Printf("[REASONING] Decomposed question into %d sub-questions (strategy: %s)\n",
		len(decomposition.SubQuestions), decomposition.Strategy)

	chain := &Chain{
		OriginalQuestion: question,
		SubQuestions:     decomposition.SubQuestions,
		Metadata: Metadata{
			ChainID:         uuid.NewString(),
			ComplexityScore: ComplexityScore(question, tickers),
			GeneratedAt:     time.Now(),
		},
	}

	stepCtx := StepContext{}
	if len(tickers) > 0 {
		stepCtx["ticker"] = tickers[0]
	}

	for i, subQuestion := range decomposition.SubQuestions {
		step, nextCtx := o.executeStep(ctx, i+1, subQuestion, stepCtx)
		chain.Steps = append(chain.Steps, step)
		stepCtx = nextCtx
	}

	chain.Metadata.StepCount = len(chain.Steps)
	chain.OverallConfidence = AggregateConfidence(chain.Steps)
	chain.FinalAnswer = o.synthesizer.Synthesize(chain)
	return chain
}

// executeStep runs one sub-question and returns the immutable step plus the
// extended context for the next iteration.
func (o *Orchestrator) executeStep(ctx context.Context, number int, subQuestion string, stepCtx StepContext) (Step, StepContext) {
	intent := nlp.ClassifyIntent(subQuestion)
	tickers := nlp.ExtractTickers(subQuestion)
	if len(tickers) == 0 {
		if t, ok := stepCtx["ticker"].(string); ok && t != "" {
			tickers = []string{t}
		}
	}

	generated := o.builder.Build(intent, tickers, subQuestion)
	ticker := generated.Parameters["ticker"]
	targetTicker, _ := ticker.(string)
	if targetTicker == "" && len(tickers) > 0 {
		targetTicker = tickers[0]
	}
	if targetTicker == "" {
		targetTicker = query.DefaultTicker
	}

	retrieved, err := o.retriever.Retrieve(ctx, retrieval.NewQuery(targetTicker, intent, subQuestion))
	if err != nil {
		return errorStep(number, subQuestion, err), stepCtx
	}

	payload, err := o.generator.Generate(ctx, subQuestion, intent, retrieved)
	if err != nil {
		return errorStep(number, subQuestion, err), stepCtx
	}

	result := map[string]interface{}{
		"answer":       payload.Answer,
		"confidence":   payload.ConfidenceScore,
		"ticker":       targetTicker,
		"cypher_query": generated.CypherQuery,
		"data_sources": payload.DataSources,
	}
	for _, doc := range retrieved.Documents {
		switch strings.ToLower(doc.Type) {
		case "valuation":
			if _, ok := result["valuation"]; !ok {
				result["valuation"] = doc.Content
			}
		case "company_info":
			if _, ok := result["company_info"]; !ok {
				result["company_info"] = doc.Content
			}
		}
	}

	step := Step{
		StepNumber:  number,
		SubQuestion: subQuestion,
		QueryType:   intentTag(intent),
		Result:      result,
		Confidence:  payload.ConfidenceScore,
		Evidence:    collectEvidence(payload, targetTicker, retrieved),
	}
	return step, stepCtx.merged(result)
}

// errorStep records a failed sub-question: query-type "error", zero
// confidence, the error message as evidence. The chain continues.
func errorStep(number int, subQuestion string, err error) Step {
	fmt.Printf("[REASONING] Step %d failed: %v. Continuing chain.\n", number, err)
	return Step{
		StepNumber:  number,
		SubQuestion: subQuestion,
		QueryType:   QueryTypeError,
		Result:      map[string]interface{}{"error": err.Error()},
		Confidence:  0,
		Evidence:    []string{err.Error()},
	}
}

// collectEvidence merges the payload's declared sources, the retrieved
// ticker, and document source attributes, deduplicated in encounter order.
func collectEvidence(payload *answer.Payload, ticker string, retrieved *retrieval.Result) []string {
	seen := make(map[string]bool)
	var evidence []string
	add := func(item string) {
		if item == "" || seen[item] {
			return
		}
		seen[item] = true
		evidence = append(evidence, item)
	}

	for _, src := range payload.DataSources {
		add(src)
	}
	add("ticker:" + ticker)
	for _, doc := range retrieved.Documents {
		if doc.Type != "" {
			add("document:" + doc.Type)
		}
	}
	return evidence
}
