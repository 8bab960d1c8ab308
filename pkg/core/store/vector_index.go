package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"finsight/pkg/core/embedding"
	"finsight/pkg/core/retrieval"
)

// searchSQL ranks documents by cosine similarity against the query embedding.
// The <=> operator is pgvector's cosine distance; similarity = 1 - distance.
const searchSQL = `
SELECT id, content, doc_type, published_at,
       1 - (embedding <=> $1::vector) AS score
FROM documents
WHERE 1 - (embedding <=> $1::vector) >= $3
ORDER BY embedding <=> $1::vector
LIMIT $2`

// VectorIndex implements retrieval.VectorSearcher over a pgvector documents
// table populated by external ingestion.
type VectorIndex struct {
	pool     *pgxpool.Pool
	embedder embedding.Embedder
}

var _ retrieval.VectorSearcher = (*VectorIndex)(nil)

// NewVectorIndex wires the pool and the query-side embedder.
func NewVectorIndex(pool *pgxpool.Pool, embedder embedding.Embedder) *VectorIndex {
	return &VectorIndex{pool: pool, embedder: embedder}
}

// Search embeds the query text and runs the similarity scan.
func (v *VectorIndex) Search(ctx context.Context, text string, maxDocs int, minScore float64) ([]retrieval.Document, error) {
	vec, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	rows, err := v.pool.Query(ctx, searchSQL, vectorLiteral(vec), maxDocs, minScore)
	if err != nil {
		return nil, fmt.Errorf("vector index query failed: %w", err)
	}
	defer rows.Close()

	var docs []retrieval.Document
	for rows.Next() {
		var doc retrieval.Document
		var publishedAt time.Time
		if err := rows.Scan(&doc.ID, &doc.Content, &doc.Type, &publishedAt, &doc.Score); err != nil {
			return nil, fmt.Errorf("vector index scan failed: %w", err)
		}
		doc.Date = publishedAt.Format("2006-01-02")
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector index rows failed: %w", err)
	}
	return docs, nil
}

// vectorLiteral renders the embedding in pgvector's text input format,
// e.g. "[0.1,0.2,0.3]".
func vectorLiteral(vec []float32) string {
	parts := make([]string, len(vec))
	for i, f := range vec {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
