package engine

import (
	"context"
	"errors"
	"testing"

	"finsight/pkg/core/answer"
	"finsight/pkg/core/nlp"
	"finsight/pkg/core/prompt"
	"finsight/pkg/core/query"
	"finsight/pkg/core/reasoning"
	"finsight/pkg/core/retrieval"
)

type fakeRetriever struct {
	err   error
	calls int
}

func (f *fakeRetriever) Retrieve(_ context.Context, q retrieval.Query) (*retrieval.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &retrieval.Result{
		Documents:   []retrieval.Document{{ID: "d1", Content: "Apple designs consumer electronics.", Type: "company_info", CombinedScore: 0.9}},
		DataSources: []string{"knowledge graph"},
	}, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(_ context.Context, subQuestion string, _ nlp.Intent, _ *retrieval.Result) (*answer.Payload, error) {
	return &answer.Payload{Answer: "Answer to: " + subQuestion, ConfidenceScore: 0.75, DataSources: []string{"knowledge graph"}}, nil
}

func newTestEngine(r reasoning.Retriever) *Engine {
	return New(query.NewBuilder(), r, fakeGenerator{}, reasoning.NewSynthesizer(prompt.NewRegistry()))
}

func TestAnswerSimplePath(t *testing.T) {
	retriever := &fakeRetriever{}
	eng := newTestEngine(retriever)

	resp, err := eng.Answer(context.Background(), "Tell me about Apple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Chain != nil {
		t.Error("simple question should not run the reasoning chain")
	}
	if retriever.calls != 1 {
		t.Errorf("expected 1 retrieval, got %d", retriever.calls)
	}
	if resp.Confidence != 0.75 {
		t.Errorf("expected payload confidence 0.75, got %f", resp.Confidence)
	}
	if len(resp.Tickers) != 1 || resp.Tickers[0] != "AAPL" {
		t.Errorf("expected tickers [AAPL], got %v", resp.Tickers)
	}
}

func TestAnswerCompoundPath(t *testing.T) {
	retriever := &fakeRetriever{}
	eng := newTestEngine(retriever)

	resp, err := eng.Answer(context.Background(), "Compare AAPL and MSFT valuations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Chain == nil {
		t.Fatal("compound question should produce a reasoning chain")
	}
	if len(resp.Chain.Steps) != reasoning.SubQuestionCount {
		t.Errorf("expected %d steps, got %d", reasoning.SubQuestionCount, len(resp.Chain.Steps))
	}
	if resp.Answer != resp.Chain.FinalAnswer {
		t.Error("compound answer should be the synthesized report")
	}
	if len(resp.Sources) == 0 {
		t.Error("expected aggregated sources from chain evidence")
	}
}

func TestAnswerSimplePathPropagatesRetrievalError(t *testing.T) {
	wantErr := errors.New("vector index offline")
	eng := newTestEngine(&fakeRetriever{err: wantErr})

	_, err := eng.Answer(context.Background(), "Tell me about Apple")
	if err == nil {
		t.Fatal("expected error from failed retrieval")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped retrieval error, got %v", err)
	}
}
