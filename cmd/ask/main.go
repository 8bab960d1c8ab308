package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"finsight/pkg/core/agent"
	"finsight/pkg/core/answer"
	"finsight/pkg/core/config"
	"finsight/pkg/core/embedding"
	"finsight/pkg/core/engine"
	"finsight/pkg/core/graph"
	"finsight/pkg/core/knowledge"
	"finsight/pkg/core/prompt"
	"finsight/pkg/core/query"
	"finsight/pkg/core/reasoning"
	"finsight/pkg/core/retrieval"
	"finsight/pkg/core/store"
	"finsight/pkg/core/utils"
)

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: ask <question about a company or stock>")
		fmt.Println("  e.g. ask \"Is AAPL undervalued compared to MSFT?\"")
		os.Exit(1)
	}
	question := strings.Join(os.Args[1:], " ")

	cfg, err := config.Load(os.Getenv("FINSIGHT_CONFIG"))
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	// Prompt library: built-in defaults, overridable from resources/.
	prompts := prompt.NewRegistry()
	if err := prompt.LoadFromDirectory(prompts, cfg.ResourcesDir); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to built-in prompts")
	} else {
		fmt.Printf("[PROMPT] %d prompts registered\n", prompts.Count())
	}

	agentMgr := agent.NewManager(cfg.Models)
	fmt.Printf("[AGENT] Active provider: %s\n", agentMgr.GetActiveProvider())

	ctx := context.Background()
	vector, err := buildVectorSearcher(ctx)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	retriever := retrieval.NewHybridRetriever(vector, graph.NewHTTPClient(cfg.GraphURL))
	generator := answer.NewGenerator(agentMgr, prompts)
	eng := engine.New(query.NewBuilder(), retriever, generator, reasoning.NewSynthesizer(prompts))

	resp, err := eng.Answer(ctx, question)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	printResponse(resp)
}

// buildVectorSearcher prefers the pgvector-backed index; without a
// DATABASE_URL it falls back to an empty in-memory index so the graph-only
// path still works.
func buildVectorSearcher(ctx context.Context) (retrieval.VectorSearcher, error) {
	embedder := &embedding.GeminiEmbedder{}

	if os.Getenv("DATABASE_URL") == "" {
		fmt.Println("[STORE] DATABASE_URL not set, using in-memory vector index")
		return knowledge.NewMemoryIndex(embedder), nil
	}

	pool, err := store.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return store.NewVectorIndex(pool, embedder), nil
}

func printResponse(resp *engine.Response) {
	fmt.Println("\n=========================================================")
	fmt.Printf("Question:   %s\n", resp.Question)
	fmt.Printf("Intent:     %s\n", resp.Intent)
	if len(resp.Tickers) > 0 {
		fmt.Printf("Tickers:    %s\n", strings.Join(resp.Tickers, ", "))
	}
	fmt.Printf("Confidence: %.2f\n", resp.Confidence)
	fmt.Println("=========================================================")
	if os.Getenv("FINSIGHT_HTML") != "" {
		html, err := utils.RenderHTML(resp.Answer)
		if err != nil {
			fmt.Printf("[WARNING] HTML render failed: %v\n", err)
			fmt.Println(resp.Answer)
		} else {
			fmt.Println(html)
		}
	} else {
		fmt.Println(resp.Answer)
	}

	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range resp.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}

	if resp.Chain != nil && os.Getenv("FINSIGHT_DEBUG") != "" {
		chainJSON, err := json.MarshalIndent(resp.Chain, "", "  ")
		if err == nil {
			fmt.Println("\n[DEBUG] Reasoning chain:")
			fmt.Println(string(chainJSON))
		}
	}
}
