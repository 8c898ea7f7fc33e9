package embedding

import (
	"fmt"

	"github.com/kailas-cloud/tutorrag/internal/domain"
)

// Default chunking shape for indexed study materials.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Chunk splits text into overlapping, order-preserving windows of at most
// chunkSize runes. The window start advances by chunkSize-overlap each
// step and the last window ends exactly at the end of the text, so the
// concatenated chunks cover the input with no gaps.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d: %w", chunkSize, domain.ErrInvalidArgument)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d: %w", overlap, domain.ErrInvalidArgument)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d: %w",
			overlap, chunkSize, domain.ErrInvalidArgument)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)

	for start := 0; ; start += step {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks, nil
}
