package embedding

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder embeds text with Google's embedding models.
type GeminiEmbedder struct {
	Model string // e.g. "text-embedding-004"
}

var _ Embedder = (*GeminiEmbedder)(nil)

// Embed calls the Gemini embedContent endpoint. The client is created per
// call; embedding volume in this pipeline is one call per retrieval.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	defer client.Close()

	model := e.Model
	if model == "" {
		model = "text-embedding-004"
	}

	res, err := client.EmbeddingModel(model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response empty for model %s", model)
	}
	return res.Embedding.Values, nil
}
