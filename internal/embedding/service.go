// Package embedding turns text into fixed-dimension vectors and splits
// long text into overlapping windows for indexing.
package embedding

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/tutorrag/internal/domain"
)

// Service converts text into embedding vectors via a provider. Vectors are
// deterministic for a fixed provider model and input; the service holds no
// per-call state and is safe for concurrent use.
type Service struct {
	provider domain.Embedder
}

// New creates an embedding service.
func New(provider domain.Embedder) *Service {
	return &Service{provider: provider}
}

// Embed returns the vector for a single text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required: %w", domain.ErrInvalidArgument)
	}
	result, err := s.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	return result.Embedding, nil
}

// EmbedBatch returns vectors for multiple texts in provider order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, t := range texts {
		if t == "" {
			return nil, fmt.Errorf("texts must be non-empty: %w", domain.ErrInvalidArgument)
		}
	}
	results, err := s.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	vectors := make([][]float32, len(results))
	for i, r := range results {
		vectors[i] = r.Embedding
	}
	return vectors, nil
}
