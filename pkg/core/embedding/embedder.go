// Package embedding provides text embeddings for vector search.
package embedding

import "context"

// Embedder converts text into a dense vector. Implementations call an
// external embedding model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
