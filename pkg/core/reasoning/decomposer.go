package reasoning

import (
	"strings"

	"finsight/pkg/core/nlp"
)

// SubQuestionCount is the fixed fan-out of every decomposition strategy.
// It is a design invariant, not a tunable.
const SubQuestionCount = 4

// placeholderSubject is substituted when no ticker was extracted.
const placeholderSubject = "the company"

// Strategy names recorded for diagnostics.
const (
	StrategyNewsImpact = "news_impact"
	StrategyComparison = "comparison"
	StrategyValuation  = "valuation"
	StrategyTrend      = "trend"
	StrategyGeneral    = "general"
)

// strategyKeywords are checked in priority order against the lower-cased
// question; the first strategy with a hit wins.
var strategyKeywords = []struct {
	name     string
	keywords []string
}{
	{StrategyNewsImpact, []string{"news", "impact", "announc", "event", "headline"}},
	{StrategyComparison, []string{"compare", "comparison", "versus", " vs ", "vs.", "better"}},
	{StrategyValuation, []string{"valuation", "intrinsic", "worth", "undervalued", "overvalued", "fair value", "value"}},
	{StrategyTrend, []string{"trend", "history", "historical", "over time", "past"}},
}

// Decomposition is the ordered sub-question plan for one compound question.
type Decomposition struct {
	Strategy     string
	SubQuestions []string
}

// Decompose splits a compound question into exactly SubQuestionCount
// canonical sub-questions, choosing the strategy by keyword priority.
func Decompose(question string, tickers []string) Decomposition {
	primary := placeholderSubject
	secondary := "its closest peer"
	if len(tickers) > 0 {
		primary = tickers[0]
	}
	if len(tickers) > 1 {
		secondary = tickers[1]
	}

	strategy := selectStrategy(question)
	var subs []string
	switch strategy {
	case StrategyNewsImpact:
		subs = []string{
			"What recent news events are associated with " + primary + "?",
			"What was the market reaction to these events for " + primary + "?",
			"How do these events affect the fundamentals of " + primary + "?",
			"What is the revised outlook for " + primary + " given these events?",
		}
	case StrategyComparison:
		subs = []string{
			"What are the key financial metrics of " + primary + "?",
			"What are the key financial metrics of " + secondary + "?",
			"How do the valuations of " + primary + " and " + secondary + " compare?",
			"Which of " + primary + " and " + secondary + " shows stronger fundamentals?",
		}
	case StrategyValuation:
		subs = []string{
			"What are the current financial fundamentals of " + primary + "?",
			"What growth assumptions are reasonable for " + primary + "?",
			"What is the intrinsic value estimate for " + primary + "?",
			"How does the intrinsic value of " + primary + " compare to its market price?",
		}
	case StrategyTrend:
		subs = []string{
			"How has " + primary + " performed historically?",
			"What long-term trends appear in the metrics of " + primary + "?",
			"What factors drove the historical performance of " + primary + "?",
			"What does the historical trajectory suggest about the outlook for " + primary + "?",
		}
	default:
		subs = []string{
			"What is the business profile of " + primary + "?",
			"What is the current financial position of " + primary + "?",
			"What are the main risks facing " + primary + "?",
			"What is the overall assessment of " + primary + "?",
		}
	}

	return Decomposition{Strategy: strategy, SubQuestions: subs}
}

func selectStrategy(question string) string {
	lower := strings.ToLower(question)
	for _, entry := range strategyKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.name
			}
		}
	}
	return StrategyGeneral
}

// ComplexityScore estimates how compound a question is: keyword-strategy
// hits plus distinct entities, used only as run metadata.
func ComplexityScore(question string, tickers []string) float64 {
	lower := strings.ToLower(question)
	score := float64(len(tickers))
	for _, entry := range strategyKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				score++
				break
			}
		}
	}
	return score
}

// IsCompound reports whether the question warrants decomposition instead of
// the single-shot answer path: multiple entities, or any non-default
// decomposition strategy.
func IsCompound(question string, tickers []string, intent nlp.Intent) bool {
	if len(tickers) > 1 {
		return true
	}
	if selectStrategy(question) != StrategyGeneral {
		return true
	}
	return intent != nlp.IntentGeneral
}
