// Package retrieval merges vector-similarity search with knowledge-graph
// traversal into one ranked evidence set, and renders it as an LLM-ready
// context block.
package retrieval

import (
	"context"

	"finsight/pkg/core/graph"
	"finsight/pkg/core/nlp"
)

// Defaults for retrieval queries.
const (
	DefaultTimeWindowDays = 365
	DefaultMaxDocuments   = 10
	DefaultMinRelevance   = 0.7
)

// intentWindows overrides the default time window for intents that care
// about a different horizon.
var intentWindows = map[nlp.Intent]int{
	nlp.IntentNewsImpact:      30,
	nlp.IntentValuation:       90,
	nlp.IntentHistoricalTrend: 1095,
}

// Query describes one retrieval request.
type Query struct {
	Ticker             string
	Intent             nlp.Intent
	Text               string
	TimeWindowDays     int
	IncludeCompetitors bool
	IncludeSector      bool
	MaxDocuments       int
	MinRelevanceScore  float64
}

// NewQuery builds a Query with the documented defaults, including the
// per-intent time-window override.
func NewQuery(ticker string, intent nlp.Intent, text string) Query {
	window := DefaultTimeWindowDays
	if w, ok := intentWindows[intent]; ok {
		window = w
	}
	return Query{
		Ticker:            ticker,
		Intent:            intent,
		Text:              text,
		TimeWindowDays:    window,
		MaxDocuments:      DefaultMaxDocuments,
		MinRelevanceScore: DefaultMinRelevance,
	}
}

// Document is one scored evidence snippet. Score is the raw vector
// similarity; CombinedScore folds in the graph boost and drives ranking.
type Document struct {
	ID            string  `json:"id"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	CombinedScore float64 `json:"combined_score"`
	Type          string  `json:"type"`
	Date          string  `json:"date"`
}

// Result is the merged, ranked retrieval output. Documents are sorted
// descending by CombinedScore, which lies in [0, 1].
type Result struct {
	Documents        []Document           `json:"documents"`
	RelatedEntities  []graph.Entity       `json:"related_entities"`
	Relationships    []graph.Relationship `json:"relationships"`
	AverageRelevance float64              `json:"average_relevance"`
	Context          string               `json:"context"`
	Insights         []string             `json:"insights"`
	DataSources      []string             `json:"data_sources"`
}

// VectorSearcher is the consumed vector-index boundary: embed the text
// externally and return up to maxDocs candidates scored in [0, 1],
// ranked descending.
type VectorSearcher interface {
	Search(ctx context.Context, text string, maxDocs int, minScore float64) ([]Document, error)
}
