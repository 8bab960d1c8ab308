// Package query turns a classified question into a graph query: one Cypher
// template per intent, with bound parameters. Building never fails; missing
// tickers fall back to a placeholder symbol and "no data" is handled
// downstream by the retriever.
package query

import (
	"time"

	"github.com/google/uuid"

	"finsight/pkg/core/nlp"
)

// DefaultTicker is substituted wherever a template requires a single ticker
// and extraction found none.
const DefaultTicker = "AAPL"

// Time windows (days) per template.
const (
	windowValuation = 90
	windowFilings   = 365
	windowMetrics   = 365
	windowNews      = 30
	windowPrices    = 365
	windowHistory   = 1095 // 3 years of metrics history
)

// GeneratedQuery is the immutable output of one Build call.
type GeneratedQuery struct {
	ID               string                 `json:"id"`
	CypherQuery      string                 `json:"cypher_query"`
	Parameters       map[string]interface{} `json:"parameters"`
	Intent           nlp.Intent             `json:"intent"`
	Tickers          []string               `json:"tickers"`
	OriginalQuestion string                 `json:"original_question"`
	GeneratedAt      time.Time              `json:"generated_at"`
}

// Builder selects and parameterizes query templates. Construct once per
// process and inject; it keeps no per-request state.
type Builder struct {
	defaultTicker string
}

// NewBuilder returns a Builder with the standard placeholder ticker.
func NewBuilder() *Builder {
	return &Builder{defaultTicker: DefaultTicker}
}

// Build emits the graph query for the classified question. It is total: every
// intent/entity combination maps to a template, never an error.
func (b *Builder) Build(intent nlp.Intent, tickers []string, question string) *GeneratedQuery {
	var cypher string
	var params map[string]interface{}

	switch intent {
	case nlp.IntentValuation:
		cypher, params = b.valuationQuery(tickers)
	case nlp.IntentComparison:
		cypher, params = b.comparisonQuery(tickers)
	case nlp.IntentRisk:
		cypher, params = b.riskQuery(b.primary(tickers))
	case nlp.IntentNewsImpact:
		cypher, params = b.newsImpactQuery(b.primary(tickers))
	case nlp.IntentSector:
		cypher, params = b.sectorQuery(b.primary(tickers))
	case nlp.IntentHistoricalTrend:
		cypher, params = b.trendQuery(b.primary(tickers))
	default:
		cypher, params = b.generalQuery(tickers)
	}

	return &GeneratedQuery{
		ID:               uuid.NewString(),
		CypherQuery:      cypher,
		Parameters:       params,
		Intent:           intent,
		Tickers:          tickers,
		OriginalQuestion: question,
		GeneratedAt:      time.Now(),
	}
}

// primary returns the first extracted ticker, or the placeholder.
func (b *Builder) primary(tickers []string) string {
	if len(tickers) == 0 {
		return b.defaultTicker
	}
	return tickers[0]
}

func (b *Builder) valuationQuery(tickers []string) (string, map[string]interface{}) {
	if len(tickers) == 0 {
		// No target: survey all recent valuations instead of failing.
		return `
MATCH (c:Company)-[:HAS_VALUATION]->(v:Valuation)
WHERE v.date >= date() - duration({days: $valuationDays})
RETURN c.ticker AS ticker, c.name AS name, v
ORDER BY v.date DESC`,
			map[string]interface{}{"valuationDays": windowValuation}
	}

	return `
MATCH (c:Company {ticker: $ticker})
OPTIONAL MATCH (c)-[:HAS_VALUATION]->(v:Valuation)
OPTIONAL MATCH (c)-[:FILED]->(f:Filing)
  WHERE f.date >= date() - duration({days: $filingDays})
OPTIONAL MATCH (c)-[:HAS_METRIC]->(m:Metric)
  WHERE m.date >= date() - duration({days: $metricDays})
RETURN c, v, collect(f) AS filings, collect(m) AS metrics
ORDER BY v.date DESC
LIMIT 1`,
		map[string]interface{}{
			"ticker":     tickers[0],
			"filingDays": windowFilings,
			"metricDays": windowMetrics,
		}
}

func (b *Builder) comparisonQuery(tickers []string) (string, map[string]interface{}) {
	if len(tickers) >= 2 {
		return `
MATCH (c:Company)
WHERE c.ticker IN $tickers
OPTIONAL MATCH (c)-[:HAS_VALUATION]->(v:Valuation)
OPTIONAL MATCH (c)-[:HAS_METRIC]->(m:Metric)
RETURN c.ticker AS ticker, c, v, collect(m) AS metrics`,
			map[string]interface{}{"tickers": tickers}
	}

	// Single (or no) target: compare against its sector peer set.
	return `
MATCH (c:Company {ticker: $ticker})-[:BELONGS_TO]->(s:Sector)<-[:BELONGS_TO]-(peer:Company)
OPTIONAL MATCH (peer)-[:HAS_VALUATION]->(v:Valuation)
RETURN peer.ticker AS ticker, peer, v, s.name AS sector`,
		map[string]interface{}{"ticker": b.primary(tickers)}
}

func (b *Builder) riskQuery(ticker string) (string, map[string]interface{}) {
	return `
MATCH (c:Company {ticker: $ticker})
OPTIONAL MATCH (c)-[:HAS_VALUATION]->(v:Valuation)
  WHERE v.date >= date() - duration({days: $valuationDays})
OPTIONAL MATCH (c)-[:FILED]->(f:Filing)
  WHERE f.risk_factors IS NOT NULL
    AND f.date >= date() - duration({days: $filingDays})
OPTIONAL MATCH (c)-[:HAS_METRIC]->(m:Metric)
  WHERE m.date >= date() - duration({days: $metricDays})
RETURN c, v, collect(f.risk_factors) AS risk_factors, collect(m) AS metrics`,
		map[string]interface{}{
			"ticker":        ticker,
			"valuationDays": windowValuation,
			"filingDays":    windowFilings,
			"metricDays":    windowMetrics,
		}
}

func (b *Builder) newsImpactQuery(ticker string) (string, map[string]interface{}) {
	return `
MATCH (n:NewsEvent)-[:IMPACTS]->(c:Company {ticker: $ticker})
WHERE n.date >= date() - duration({days: $newsDays})
OPTIONAL MATCH (c)-[:HAS_VALUATION]->(v:Valuation)
  WHERE v.date >= date() - duration({days: $valuationDays})
RETURN n, c, v
ORDER BY n.date DESC`,
		map[string]interface{}{
			"ticker":        ticker,
			"newsDays":      windowNews,
			"valuationDays": windowValuation,
		}
}

func (b *Builder) sectorQuery(ticker string) (string, map[string]interface{}) {
	return `
MATCH (c:Company {ticker: $ticker})-[:BELONGS_TO]->(s:Sector)<-[:BELONGS_TO]-(peer:Company)
OPTIONAL MATCH (peer)-[:HAS_VALUATION]->(v:Valuation)
  WHERE v.date >= date() - duration({days: $valuationDays})
RETURN s.name AS sector, peer.ticker AS ticker, peer, v`,
		map[string]interface{}{
			"ticker":        ticker,
			"valuationDays": windowValuation,
		}
}

func (b *Builder) trendQuery(ticker string) (string, map[string]interface{}) {
	return `
MATCH (c:Company {ticker: $ticker})
OPTIONAL MATCH (c)-[:HAS_PRICE]->(p:Price)
  WHERE p.date >= date() - duration({days: $priceDays})
OPTIONAL MATCH (c)-[:HAS_METRIC]->(m:Metric)
  WHERE m.date >= date() - duration({days: $historyDays})
RETURN c, collect(p) AS prices, collect(m) AS metrics`,
		map[string]interface{}{
			"ticker":      ticker,
			"priceDays":   windowPrices,
			"historyDays": windowHistory,
		}
}

func (b *Builder) generalQuery(tickers []string) (string, map[string]interface{}) {
	if len(tickers) > 0 {
		return `
MATCH (c:Company {ticker: $ticker})
OPTIONAL MATCH (c)-[:HAS_INFO]->(i:CompanyInfo)
OPTIONAL MATCH (c)-[:HAS_FAST_INFO]->(fi:FastInfo)
OPTIONAL MATCH (c)-[:HAS_VALUATION]->(v:Valuation)
  WHERE v.date >= date() - duration({days: $valuationDays})
RETURN c, i, fi, v`,
			map[string]interface{}{
				"ticker":        tickers[0],
				"valuationDays": windowValuation,
			}
	}

	// Nothing to anchor on: capped listing of company descriptions.
	return `
MATCH (c:Company)-[:HAS_INFO]->(i:CompanyInfo)
RETURN c.ticker AS ticker, c.name AS name, i.description AS description
LIMIT $limit`,
		map[string]interface{}{"limit": 10}
}
