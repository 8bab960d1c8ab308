package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"finsight/pkg/core/graph"
	"finsight/pkg/core/nlp"
)

// Scoring policy: combined = vectorWeight*similarity + graphWeight*boost,
// where boost accrues boostPerEntity per distinct related entity named in the
// document, capped at maxGraphBoost.
const (
	vectorWeight   = 0.7
	graphWeight    = 0.3
	boostPerEntity = 0.1
	maxGraphBoost  = 0.5

	contextDocLimit   = 5
	contextSnippetLen = 500
)

// neighborhoodQuery pulls the competitive neighborhood of the target company
// within the requested time range.
const neighborhoodQuery = `
MATCH (c:Company {ticker: $ticker})-[r:COMPETES_WITH|BELONGS_TO|IMPACTS*1..2]-(related)
WHERE coalesce(r[0].since, date()) >= date() - duration({days: $windowDays})
RETURN c, related, r`

// HybridRetriever runs the vector search and graph traversal for a query,
// merges the two result sets, and ranks the evidence.
type HybridRetriever struct {
	vector VectorSearcher
	graph  graph.Searcher
}

// NewHybridRetriever wires the two consumed search boundaries.
func NewHybridRetriever(vector VectorSearcher, g graph.Searcher) *HybridRetriever {
	return &HybridRetriever{vector: vector, graph: g}
}

// Retrieve executes both searches and combines them. Failures at either
// boundary propagate to the caller; this layer does not mask upstream I/O
// errors.
func (r *HybridRetriever) Retrieve(ctx context.Context, q Query) (*Result, error) {
	docs, err := r.vector.Search(ctx, q.Text, q.MaxDocuments, q.MinRelevanceScore)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	neighborhood, err := r.graph.Query(ctx, neighborhoodQuery, map[string]interface{}{
		"ticker":     q.Ticker,
		"windowDays": q.TimeWindowDays,
	})
	if err != nil {
		return nil, fmt.Errorf("graph search failed: %w", err)
	}

	combineScores(docs, neighborhood.Entities)
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CombinedScore > docs[j].CombinedScore
	})

	result := &Result{
		Documents:        docs,
		RelatedEntities:  neighborhood.Entities,
		Relationships:    neighborhood.Relationships,
		AverageRelevance: averageRelevance(docs),
		Insights:         extractInsights(q.Intent, neighborhood.Entities),
		DataSources:      []string{"vector_index", "knowledge_graph"},
	}
	result.Context = formatContext(q, result)
	return result, nil
}

// combineScores applies the graph boost in place: 0.1 per distinct related
// entity literally named in the document text, capped at 0.5.
func combineScores(docs []Document, entities []graph.Entity) {
	for i := range docs {
		content := strings.ToLower(docs[i].Content)
		boost := 0.0
		seen := make(map[string]bool)
		for _, e := range entities {
			name := strings.ToLower(e.Name)
			if name == "" || seen[name] {
				continue
			}
			if strings.Contains(content, name) {
				seen[name] = true
				boost += boostPerEntity
			}
		}
		if boost > maxGraphBoost {
			boost = maxGraphBoost
		}
		docs[i].CombinedScore = vectorWeight*docs[i].Score + graphWeight*boost
	}
}

func averageRelevance(docs []Document) float64 {
	if len(docs) == 0 {
		return 0
	}
	var total float64
	for _, d := range docs {
		total += d.CombinedScore
	}
	return total / float64(len(docs))
}

// formatContext renders the LLM-ready context block: analysis header, top
// documents with truncated content, and the related-entity listing.
func formatContext(q Query, res *Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== %s ANALYSIS CONTEXT: %s ===\n\n",
		strings.ToUpper(string(q.Intent)), q.Ticker))

	limit := contextDocLimit
	if len(res.Documents) < limit {
		limit = len(res.Documents)
	}
	for i := 0; i < limit; i++ {
		doc := res.Documents[i]
		snippet := SanitizeSnippet(doc.Content)
		if len(snippet) > contextSnippetLen {
			snippet = snippet[:contextSnippetLen]
		}
		sb.WriteString(fmt.Sprintf("[%d] (%s, %s, score %.2f)\n%s\n\n",
			i+1, doc.Type, doc.Date, doc.CombinedScore, snippet))
	}

	if len(res.RelatedEntities) > 0 {
		sb.WriteString("Related entities:\n")
		for _, e := range res.RelatedEntities {
			sb.WriteString(fmt.Sprintf("  - %s (%s)\n", e.Name, e.Type))
		}
	}
	return sb.String()
}

// extractInsights emits the short per-intent insight strings.
func extractInsights(intent nlp.Intent, entities []graph.Entity) []string {
	switch intent {
	case nlp.IntentRisk:
		return []string{"Risk factors identified from filings"}
	case nlp.IntentComparison:
		companies := 0
		for _, e := range entities {
			if e.Type == graph.EntityCompany {
				companies++
			}
		}
		return []string{fmt.Sprintf("Comparison set includes %d companies", companies)}
	case nlp.IntentValuation:
		return []string{"Valuation metrics retrieved from graph and filings"}
	case nlp.IntentNewsImpact:
		return []string{"Recent news events linked to the company"}
	case nlp.IntentSector:
		return []string{"Sector peers resolved via graph traversal"}
	case nlp.IntentHistoricalTrend:
		return []string{"Historical price and metric series retrieved"}
	default:
		return []string{"General company information retrieved"}
	}
}
