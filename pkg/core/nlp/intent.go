package nlp

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a financial question.
type Intent string

const (
	IntentValuation       Intent = "valuation"
	IntentComparison      Intent = "comparison"
	IntentRisk            Intent = "risk"
	IntentNewsImpact      Intent = "news_impact"
	IntentSector          Intent = "sector"
	IntentHistoricalTrend Intent = "historical_trend"
	IntentGeneral         Intent = "general"
)

// intentPatterns pairs an intent with its ordered regex pattern set.
type intentPatterns struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentTaxonomy is deliberately an ordered slice, not a map: the classifier
// tie-breaks on the first intent reaching the maximum score in declaration
// order. Patterns are matched against the lower-cased question.
var intentTaxonomy = []intentPatterns{
	{IntentValuation, compileAll(
		`\bvalu(?:e|ed|ation|ations)\b`,
		`\bworth\b`,
		`\bintrinsic\b`,
		`\bfair (?:value|price)\b`,
		`\b(?:under|over)valued\b`,
		`\bdcf\b`,
		`\bprice target\b`,
	)},
	{IntentComparison, compileAll(
		`\bcompar(?:e|ed|ison|ing)\b`,
		`\bversus\b`,
		`\bvs\.?\b`,
		`\bbetter (?:buy|investment|stock)\b`,
		`\bdifference between\b`,
		`\bagainst\b`,
	)},
	{IntentRisk, compileAll(
		`\brisks?\b`,
		`\brisk factors?\b`,
		`\bexposures?\b`,
		`\bthreats?\b`,
		`\bdownside\b`,
		`\bvolatil(?:e|ity)\b`,
		`\bheadwinds?\b`,
	)},
	{IntentNewsImpact, compileAll(
		`\bnews\b`,
		`\bimpact(?:s|ed)?\b`,
		`\bannounc(?:e|ed|ement|ements)\b`,
		`\bevents?\b`,
		`\baffect(?:s|ed|ing)?\b`,
		`\bheadlines?\b`,
		`\breact(?:s|ed|ion)?\b`,
	)},
	{IntentSector, compileAll(
		`\bsectors?\b`,
		`\bindustr(?:y|ies)\b`,
		`\bpeers?\b`,
		`\bcompetitors?\b`,
		`\bmarket share\b`,
		`\brivals?\b`,
	)},
	{IntentHistoricalTrend, compileAll(
		`\btrends?\b`,
		`\bhistor(?:y|ical|ically)\b`,
		`\bover (?:the )?(?:past|last)\b`,
		`\bover time\b`,
		`\bperformance\b`,
		`\btrajector(?:y|ies)\b`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// ClassifyIntent scores the question against every intent's pattern set and
// returns the highest-scoring intent. Score is the total count of
// non-overlapping pattern matches in the lower-cased text. Ties resolve to
// the first intent in taxonomy order; a zero score everywhere yields
// IntentGeneral. Pure and deterministic.
func ClassifyIntent(question string) Intent {
	lower := strings.ToLower(question)

	best := IntentGeneral
	bestScore := 0
	for _, entry := range intentTaxonomy {
		score := 0
		for _, p := range entry.patterns {
			score += len(p.FindAllStringIndex(lower, -1))
		}
		if score > bestScore {
			best = entry.intent
			bestScore = score
		}
	}
	return best
}

// Intents returns the closed intent set in taxonomy order, IntentGeneral last.
func Intents() []Intent {
	out := make([]Intent, 0, len(intentTaxonomy)+1)
	for _, entry := range intentTaxonomy {
		out = append(out, entry.intent)
	}
	return append(out, IntentGeneral)
}
