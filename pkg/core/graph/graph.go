// Package graph defines the consumed knowledge-graph boundary. The core
// speaks a Cypher-like query language through Searcher and stays agnostic to
// the wire format; HTTPClient is one adapter.
package graph

import "context"

// Entity node types used across the knowledge graph.
const (
	EntityCompany = "Company"
	EntitySector  = "Sector"
	EntityFiling  = "Filing"
	EntityNews    = "NewsEvent"
	EntityMetric  = "Metric"
)

// Relationship types used during traversal.
const (
	RelCompetesWith = "COMPETES_WITH"
	RelBelongsTo    = "BELONGS_TO"
	RelFiled        = "FILED"
	RelImpacts      = "IMPACTS"
	RelHasMetric    = "HAS_METRIC"
)

// Entity is a node returned from a graph query.
type Entity struct {
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Relationship is an edge returned from a graph query.
type Relationship struct {
	Source string                 `json:"source"`
	Type   string                 `json:"type"`
	Target string                 `json:"target"`
	Weight float64                `json:"weight,omitempty"`
	Props  map[string]interface{} `json:"properties,omitempty"`
}

// Row is one result record keyed by the query's return aliases.
type Row map[string]interface{}

// Result is the full response to one graph query.
type Result struct {
	Rows          []Row          `json:"rows"`
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// Searcher executes a Cypher-like query with bound parameters against the
// externally-owned knowledge graph.
type Searcher interface {
	Query(ctx context.Context, cypher string, params map[string]interface{}) (*Result, error)
}
