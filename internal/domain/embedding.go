package domain

import "context"

// EmbeddingResult carries a vector and the provider token usage for one text.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings. Implementations must be
// deterministic for a fixed model version and input so that retrieval
// ranking is reproducible.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
	EmbedBatch(ctx context.Context, texts []string) ([]EmbeddingResult, error)
}
