// Package knowledge provides an in-memory vector index implementing the
// retrieval.VectorSearcher contract with real cosine ranking. It is suitable
// for tests and small single-process deployments; production should use the
// pgvector-backed index in pkg/core/store.
package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"finsight/pkg/core/embedding"
	"finsight/pkg/core/retrieval"
)

// Chunk is one stored snippet with its embedding.
type Chunk struct {
	ID        string
	Content   string
	Type      string
	Date      string
	Embedding []float32
}

// MemoryIndex holds chunks in memory and ranks them by cosine similarity.
type MemoryIndex struct {
	mu       sync.RWMutex
	chunks   map[string]*Chunk
	embedder embedding.Embedder
}

var _ retrieval.VectorSearcher = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty index. The embedder is used to embed query
// text at search time; stored chunks carry their own embeddings.
func NewMemoryIndex(embedder embedding.Embedder) *MemoryIndex {
	return &MemoryIndex{
		chunks:   make(map[string]*Chunk),
		embedder: embedder,
	}
}

// Add stores a chunk, assigning an ID when missing.
func (idx *MemoryIndex) Add(chunk Chunk) string {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if chunk.ID == "" {
		chunk.ID = uuid.NewString()
	}
	idx.chunks[chunk.ID] = &chunk
	return chunk.ID
}

// Count returns the number of stored chunks.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Search embeds the query text and returns up to maxDocs chunks whose cosine
// similarity clears minScore, ranked descending.
func (idx *MemoryIndex) Search(ctx context.Context, text string, maxDocs int, minScore float64) ([]retrieval.Document, error) {
	queryVec, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var docs []retrieval.Document
	for _, chunk := range idx.chunks {
		score := CosineSimilarity(queryVec, chunk.Embedding)
		if score < minScore {
			continue
		}
		docs = append(docs, retrieval.Document{
			ID:      chunk.ID,
			Content: chunk.Content,
			Score:   score,
			Type:    chunk.Type,
			Date:    chunk.Date,
		})
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	if maxDocs > 0 && len(docs) > maxDocs {
		docs = docs[:maxDocs]
	}
	return docs, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is degenerate (zero length or norm).
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
