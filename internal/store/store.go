// Package store defines the vector document store contract shared by the
// Redis and in-memory backends.
package store

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/tutorrag/internal/domain"
	"github.com/kailas-cloud/tutorrag/internal/domain/document"
	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
)

// Collection names. Materials and questions live in separate collections
// and never mix in a single query.
const (
	CollectionMaterials = "study_materials"
	CollectionQuestions = "questions"
)

// Filter is an exact-match metadata pre-filter. Empty or nil means no
// filtering. Keys absent from a document's metadata never match.
type Filter map[string]string

// Store is a two-collection vector document store. Upsert embeds and
// persists a document; Query returns the topK nearest documents by cosine
// distance, ascending.
type Store interface {
	Upsert(ctx context.Context, collection string, doc document.Document) error
	Query(ctx context.Context, collection, text string, topK int, filter Filter) ([]retrieval.Result, error)
	Delete(ctx context.Context, collection, id string) error
	Clear(ctx context.Context, collection string) error
}

// ValidateCollection rejects unknown collection names.
func ValidateCollection(collection string) error {
	if collection != CollectionMaterials && collection != CollectionQuestions {
		return fmt.Errorf("unknown collection %q: %w", collection, domain.ErrInvalidArgument)
	}
	return nil
}

// ValidateQuery rejects empty query text and non-positive topK.
func ValidateQuery(text string, topK int) error {
	if text == "" {
		return fmt.Errorf("query text is required: %w", domain.ErrInvalidArgument)
	}
	if topK <= 0 {
		return fmt.Errorf("topK must be positive, got %d: %w", topK, domain.ErrInvalidArgument)
	}
	return nil
}
