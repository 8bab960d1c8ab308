package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"finsight/pkg/core/answer"
	"finsight/pkg/core/nlp"
	"finsight/pkg/core/prompt"
	"finsight/pkg/core/query"
	"finsight/pkg/core/retrieval"
)

type stubRetriever struct {
	failOn  string
	queries []retrieval.Query
}

func (s *stubRetriever) Retrieve(_ context.Context, q retrieval.Query) (*retrieval.Result, error) {
	s.queries = append(s.queries, q)
	if s.failOn != "" && strings.Contains(q.Text, s.failOn) {
		return nil, errors.New("graph service unavailable")
	}
	return &retrieval.Result{
		Documents: []retrieval.Document{
			{ID: "doc-1", Content: "Revenue grew 12% year over year.", Type: "filing", CombinedScore: 0.8},
			{ID: "doc-2", Content: "DCF value per share 145.20", Type: "valuation", CombinedScore: 0.7},
		},
		DataSources: []string{"SEC 10-K"},
	}, nil
}

type stubGenerator struct {
	confidence float64
}

func (s *stubGenerator) Generate(_ context.Context, subQuestion string, _ nlp.Intent, _ *retrieval.Result) (*answer.Payload, error) {
	return &answer.Payload{
		Answer:          "Finding for: " + subQuestion,
		ConfidenceScore: s.confidence,
		DataSources:     []string{"SEC 10-K", "market data feed"},
	}, nil
}

func newTestOrchestrator(retriever Retriever, generator AnswerGenerator) *Orchestrator {
	return NewOrchestrator(query.NewBuilder(), retriever, generator, NewSynthesizer(prompt.NewRegistry()))
}

func TestDecomposeAlwaysFourSubQuestions(t *testing.T) {
	questions := []string{
		"Is AAPL undervalued?",
		"Compare AAPL and MSFT",
		"How did recent news impact TSLA?",
		"How has NVDA performed over time?",
		"Tell me about GOOGL",
		"",
	}
	for _, q := range questions {
		d := Decompose(q, nlp.ExtractTickers(q))
		if len(d.SubQuestions) != SubQuestionCount {
			t.Errorf("Decompose(%q): expected %d sub-questions, got %d", q, SubQuestionCount, len(d.SubQuestions))
		}
	}
}

func TestDecomposeStrategyPriority(t *testing.T) {
	cases := []struct {
		question string
		strategy string
	}{
		{"What was the news impact on AAPL valuation?", StrategyNewsImpact},
		{"Compare the valuation of AAPL and MSFT", StrategyComparison},
		{"What is the intrinsic value of AAPL?", StrategyValuation},
		{"How has AAPL trended historically?", StrategyTrend},
		{"Tell me about AAPL", StrategyGeneral},
	}
	for _, tc := range cases {
		d := Decompose(tc.question, nlp.ExtractTickers(tc.question))
		if d.Strategy != tc.strategy {
			t.Errorf("Decompose(%q): expected strategy %s, got %s", tc.question, tc.strategy, d.Strategy)
		}
	}
}

func TestDecomposeSubstitutesTickers(t *testing.T) {
	d := Decompose("Compare AAPL and MSFT", []string{"AAPL", "MSFT"})
	for _, sub := range d.SubQuestions {
		if strings.Contains(sub, placeholderSubject) {
			t.Errorf("sub-question kept placeholder despite tickers: %q", sub)
		}
	}

	d = Decompose("Is the company worth buying?", nil)
	found := false
	for _, sub := range d.SubQuestions {
		if strings.Contains(sub, placeholderSubject) {
			found = true
		}
	}
	if !found {
		t.Error("expected placeholder subject when no tickers extracted")
	}
}

func TestAggregateConfidenceAllPerfect(t *testing.T) {
	steps := []Step{{Confidence: 1}, {Confidence: 1}, {Confidence: 1}, {Confidence: 1}}
	got := AggregateConfidence(steps)
	if got < 0.999 || got > 1.001 {
		t.Errorf("expected aggregate 1.0 for all-perfect steps, got %f", got)
	}
}

func TestAggregateConfidenceWeightsEarlierStepsMore(t *testing.T) {
	earlyStrong := []Step{{Confidence: 0.9}, {Confidence: 0.9}, {Confidence: 0.3}, {Confidence: 0.3}}
	lateStrong := []Step{{Confidence: 0.3}, {Confidence: 0.3}, {Confidence: 0.9}, {Confidence: 0.9}}
	if AggregateConfidence(earlyStrong) <= AggregateConfidence(lateStrong) {
		t.Error("expected earlier high-confidence steps to outweigh later ones")
	}
}

func TestAggregateConfidencePenaltyFloor(t *testing.T) {
	// 3 of 4 failed: raw penalty 0.25 must be pinned at 0.5.
	steps := []Step{{Confidence: 0.8}, {Confidence: 0}, {Confidence: 0}, {Confidence: 0}}
	var weightedSum, weightTotal float64
	for i, step := range steps {
		w := 1.0 + 0.1*float64(len(steps)-i)
		weightedSum += step.Confidence * w
		weightTotal += w
	}
	expected := weightedSum / weightTotal * 0.5
	got := AggregateConfidence(steps)
	if got < expected-1e-9 || got > expected+1e-9 {
		t.Errorf("expected penalty floor 0.5 to apply: expected %f, got %f", expected, got)
	}
}

func TestAggregateConfidenceEmptyChain(t *testing.T) {
	if got := AggregateConfidence(nil); got != 0 {
		t.Errorf("expected 0 for empty chain, got %f", got)
	}
}

func TestStepContextMergedDoesNotMutate(t *testing.T) {
	base := StepContext{"ticker": "AAPL"}
	next := base.merged(map[string]interface{}{
		"ticker":    "MSFT",
		"valuation": "per-share 145.20",
		"answer":    "ignored",
	})
	if base["ticker"] != "AAPL" {
		t.Errorf("merged mutated the original context: %v", base["ticker"])
	}
	if next["ticker"] != "MSFT" {
		t.Errorf("expected merged ticker MSFT, got %v", next["ticker"])
	}
	if next["valuation"] != "per-share 145.20" {
		t.Errorf("expected valuation carried into context, got %v", next["valuation"])
	}
	if _, ok := next["answer"]; ok {
		t.Error("merged copied a non-context key")
	}
}

func TestOrchestratorExecutesFullChain(t *testing.T) {
	retriever := &stubRetriever{}
	orch := newTestOrchestrator(retriever, &stubGenerator{confidence: 0.8})

	chain := orch.Execute(context.Background(), "Is AAPL undervalued compared to its fundamentals?")

	if len(chain.Steps) != SubQuestionCount {
		t.Fatalf("expected %d steps, got %d", SubQuestionCount, len(chain.Steps))
	}
	for i, step := range chain.Steps {
		if step.StepNumber != i+1 {
			t.Errorf("step %d: expected step number %d, got %d", i, i+1, step.StepNumber)
		}
		if step.QueryType == QueryTypeError {
			t.Errorf("step %d unexpectedly failed", i+1)
		}
	}
	if chain.Metadata.ChainID == "" {
		t.Error("expected a chain ID")
	}
	if chain.Metadata.StepCount != SubQuestionCount {
		t.Errorf("expected step count %d, got %d", SubQuestionCount, chain.Metadata.StepCount)
	}
	if chain.OverallConfidence <= 0.7 {
		t.Errorf("expected high overall confidence, got %f", chain.OverallConfidence)
	}
	if chain.FinalAnswer == "" {
		t.Error("expected a synthesized final answer")
	}
	for _, q := range retriever.queries {
		if q.Ticker != "AAPL" {
			t.Errorf("expected accumulated ticker AAPL on every retrieval, got %q", q.Ticker)
		}
	}
}

func TestOrchestratorErrorStepContinuesChain(t *testing.T) {
	retriever := &stubRetriever{failOn: "growth assumptions"}
	orch := newTestOrchestrator(retriever, &stubGenerator{confidence: 0.8})

	chain := orch.Execute(context.Background(), "What is the intrinsic value of AAPL?")

	if len(chain.Steps) != SubQuestionCount {
		t.Fatalf("expected %d steps despite failure, got %d", SubQuestionCount, len(chain.Steps))
	}
	errorSteps := 0
	for _, step := range chain.Steps {
		if step.QueryType == QueryTypeError {
			errorSteps++
			if step.Confidence != 0 {
				t.Errorf("error step carries confidence %f, expected 0", step.Confidence)
			}
			if len(step.Evidence) != 1 || !strings.Contains(step.Evidence[0], "graph service unavailable") {
				t.Errorf("error step evidence should carry the error message, got %v", step.Evidence)
			}
		}
	}
	if errorSteps != 1 {
		t.Fatalf("expected exactly 1 error step, got %d", errorSteps)
	}
	if chain.OverallConfidence <= 0 {
		t.Error("expected nonzero overall confidence with three successful steps")
	}
	if chain.OverallConfidence >= 0.8 {
		t.Errorf("expected failure to reduce overall confidence, got %f", chain.OverallConfidence)
	}
}

func TestOrchestratorDeduplicatesEvidence(t *testing.T) {
	orch := newTestOrchestrator(&stubRetriever{}, &stubGenerator{confidence: 0.8})
	chain := orch.Execute(context.Background(), "Tell me about AAPL fundamentals and value")

	for _, step := range chain.Steps {
		seen := make(map[string]bool)
		for _, item := range step.Evidence {
			if seen[item] {
				t.Errorf("step %d evidence contains duplicate %q", step.StepNumber, item)
			}
			seen[item] = true
		}
	}
}

func TestSynthesizeBuckets(t *testing.T) {
	synth := NewSynthesizer(prompt.NewRegistry())
	cases := []struct {
		confidence float64
		phrase     string
	}{
		{0.9, "High confidence"},
		{0.5, "Moderate confidence"},
		{0.2, "Low confidence"},
	}
	for _, tc := range cases {
		chain := &Chain{
			OriginalQuestion:  "Is AAPL a buy?",
			OverallConfidence: tc.confidence,
			Steps: []Step{{
				StepNumber:  1,
				SubQuestion: "What is the financial position of AAPL?",
				Result:      map[string]interface{}{"answer": "Strong balance sheet with growing cash flow."},
				Confidence:  tc.confidence,
			}},
		}
		report := synth.Synthesize(chain)
		if !strings.Contains(report, tc.phrase) {
			t.Errorf("confidence %.1f: report missing %q", tc.confidence, tc.phrase)
		}
	}
}

func TestSynthesizeLowConfidenceAnnotation(t *testing.T) {
	synth := NewSynthesizer(prompt.NewRegistry())
	chain := &Chain{
		OriginalQuestion: "Is AAPL a buy?",
		Steps: []Step{{
			StepNumber:  1,
			SubQuestion: "What are the risks?",
			Result:      map[string]interface{}{"answer": "Sparse filings coverage in the index."},
			Confidence:  0.35,
		}},
	}
	report := synth.Synthesize(chain)
	if !strings.Contains(report, "limited data available") {
		t.Error("expected low-confidence annotation on step below 0.5")
	}
}

func TestSynthesizeSummarySkipsLowConfidenceSteps(t *testing.T) {
	synth := NewSynthesizer(prompt.NewRegistry())
	chain := &Chain{
		OriginalQuestion: "Is AAPL a buy?",
		Steps: []Step{
			{StepNumber: 1, SubQuestion: "a", Result: map[string]interface{}{"answer": "Included in summary."}, Confidence: 0.6},
			{StepNumber: 2, SubQuestion: "b", Result: map[string]interface{}{"answer": "Excluded from summary."}, Confidence: 0.2},
		},
	}
	report := synth.Synthesize(chain)
	summary := report[:strings.Index(report, "## Detailed Findings")]
	if !strings.Contains(summary, "Included in summary.") {
		t.Error("expected confident step in executive summary")
	}
	if strings.Contains(summary, "Excluded from summary.") {
		t.Error("low-confidence step leaked into executive summary")
	}
}

func TestSynthesizeEvidenceCappedAtFive(t *testing.T) {
	synth := NewSynthesizer(prompt.NewRegistry())
	chain := &Chain{
		OriginalQuestion: "Is AAPL a buy?",
		Steps: []Step{{
			StepNumber:  1,
			SubQuestion: "a",
			Result:      map[string]interface{}{"answer": "x"},
			Confidence:  0.8,
			Evidence:    []string{"s1", "s2", "s3", "s4", "s5", "s6", "s1"},
		}},
	}
	report := synth.Synthesize(chain)
	if strings.Contains(report, "- s6") {
		t.Error("expected evidence list capped at five sources")
	}
	if !strings.Contains(report, "- s5") {
		t.Error("expected fifth evidence source present")
	}
}

func TestSynthesizeSummaryTruncatesLongAnswers(t *testing.T) {
	synth := NewSynthesizer(prompt.NewRegistry())
	long := strings.Repeat("revenue growth remains robust ", 10)
	chain := &Chain{
		OriginalQuestion: "q",
		Steps: []Step{{
			StepNumber: 1, SubQuestion: "a",
			Result:     map[string]interface{}{"answer": long},
			Confidence: 0.8,
		}},
	}
	report := synth.Synthesize(chain)
	summary := report[:strings.Index(report, "## Detailed Findings")]
	for _, line := range strings.Split(summary, "\n") {
		if strings.HasPrefix(line, "- ") && len(line) > summarySnippetLen+10 {
			t.Errorf("summary bullet not truncated: %d chars", len(line))
		}
	}
}

func TestIsCompound(t *testing.T) {
	cases := []struct {
		question string
		tickers  []string
		intent   nlp.Intent
		want     bool
	}{
		{"Compare AAPL and MSFT", []string{"AAPL", "MSFT"}, nlp.IntentComparison, true},
		{"Is AAPL undervalued?", []string{"AAPL"}, nlp.IntentValuation, true},
		{"Tell me about Apple", []string{"AAPL"}, nlp.IntentGeneral, false},
	}
	for _, tc := range cases {
		if got := IsCompound(tc.question, tc.tickers, tc.intent); got != tc.want {
			t.Errorf("IsCompound(%q): expected %v, got %v", tc.question, tc.want, got)
		}
	}
}
