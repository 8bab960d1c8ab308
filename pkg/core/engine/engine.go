// Package engine is the pipeline facade: it routes a question either to the
// single-shot answer path or to the multi-step reasoning chain.
package engine

import (
	"context"
	"fmt"

	"finsight/pkg/core/nlp"
	"finsight/pkg/core/query"
	"finsight/pkg/core/reasoning"
	"finsight/pkg/core/retrieval"
)

// Response is the engine output for one question.
type Response struct {
	Question   string           `json:"question"`
	Intent     nlp.Intent       `json:"intent"`
	Tickers    []string         `json:"tickers"`
	Answer     string           `json:"answer"`
	Confidence float64          `json:"confidence"`
	Sources    []string         `json:"sources"`
	Chain      *reasoning.Chain `json:"reasoning_chain,omitempty"` // compound path only
}

// Engine wires the query builder, retriever, and answer generator behind a
// single Answer entry point.
type Engine struct {
	builder      *query.Builder
	retriever    reasoning.Retriever
	generator    reasoning.AnswerGenerator
	orchestrator *reasoning.Orchestrator
}

// New builds the facade. The same retriever and generator serve both paths.
func New(builder *query.Builder, retriever reasoning.Retriever, generator reasoning.AnswerGenerator, synthesizer *reasoning.Synthesizer) *Engine {
	return &Engine{
		builder:      builder,
		retriever:    retriever,
		generator:    generator,
		orchestrator: reasoning.NewOrchestrator(builder, retriever, generator, synthesizer),
	}
}

// Answer processes one natural-language question. Compound questions run the
// full reasoning chain; simple ones take the direct retrieve-and-answer path.
func (e *Engine) Answer(ctx context.Context, question string) (*Response, error) {
	intent := nlp.ClassifyIntent(question)
	tickers := nlp.ExtractTickers(question)

	fmt.Printf("[ENGINE] Intent: %s, tickers: %v\n", intent, tickers)

	if reasoning.IsCompound(question, tickers, intent) {
		chain := e.orchestrator.Execute(ctx, question)
		return &Response{
			Question:   question,
			Intent:     intent,
			Tickers:    tickers,
			Answer:     chain.FinalAnswer,
			Confidence: chain.OverallConfidence,
			Sources:    chainSources(chain),
			Chain:      chain,
		}, nil
	}

	ticker := query.DefaultTicker
	if len(tickers) > 0 {
		ticker = tickers[0]
	}

	retrieved, err := e.retriever.Retrieve(ctx, retrieval.NewQuery(ticker, intent, question))
	if err != nil {
		return nil, fmt.Errorf("ENGINE_RETRIEVAL_ERROR: %w", err)
	}

	payload, err := e.generator.Generate(ctx, question, intent, retrieved)
	if err != nil {
		return nil, fmt.Errorf("ENGINE_ANSWER_ERROR: %w", err)
	}

	return &Response{
		Question:   question,
		Intent:     intent,
		Tickers:    tickers,
		Answer:     payload.Answer,
		Confidence: payload.ConfidenceScore,
		Sources:    payload.DataSources,
	}, nil
}

// chainSources flattens step evidence in encounter order, deduplicated.
func chainSources(chain *reasoning.Chain) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, step := range chain.Steps {
		for _, item := range step.Evidence {
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			sources = append(sources, item)
		}
	}
	return sources
}
