package retrieval

import (
	"context"

	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
	"github.com/kailas-cloud/tutorrag/internal/store"
)

// DocumentStore is the slice of the store contract retrieval consumes (ISP).
type DocumentStore interface {
	Query(ctx context.Context, collection, text string, topK int, filter store.Filter) ([]retrieval.Result, error)
}
