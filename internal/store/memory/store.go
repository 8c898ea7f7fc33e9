// Package memory implements the vector document store on an embedded
// in-process index. It backs the degraded mode when Redis is not
// configured or unreachable, and doubles as the test backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/domain"
	"github.com/kailas-cloud/tutorrag/internal/domain/document"
	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
	"github.com/kailas-cloud/tutorrag/internal/store"
)

// embedder converts text into a vector for indexing and querying.
type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the in-memory vector document store. Contents do not survive a
// restart.
type Store struct {
	db     *chromem.DB
	embed  embedder
	logger *zap.Logger

	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// New creates the store with both collections pre-created.
func New(embed embedder, logger *zap.Logger) (*Store, error) {
	s := &Store{
		db:          chromem.NewDB(),
		embed:       embed,
		logger:      logger,
		collections: make(map[string]*chromem.Collection, 2),
	}

	for _, name := range []string{store.CollectionMaterials, store.CollectionQuestions} {
		c, err := s.db.GetOrCreateCollection(name, nil, s.embeddingFunc())
		if err != nil {
			return nil, fmt.Errorf("create collection %s: %w", name, err)
		}
		s.collections[name] = c
	}

	return s, nil
}

// embeddingFunc adapts the embedding service to the index's callback.
func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embed.Embed(ctx, text)
	}
}

func (s *Store) collection(name string) (*chromem.Collection, error) {
	if err := store.ValidateCollection(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[name], nil
}

// Upsert adds or replaces the document. Documents are keyed by ID, so
// re-adding an existing ID overwrites in place.
func (s *Store) Upsert(ctx context.Context, collection string, doc document.Document) error {
	c, err := s.collection(collection)
	if err != nil {
		return err
	}

	err = c.AddDocument(ctx, chromem.Document{
		ID:       doc.ID(),
		Content:  doc.Content(),
		Metadata: doc.Metadata(),
	})
	if err != nil {
		return fmt.Errorf("store document %s: %w: %w", doc.ID(), domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Query returns up to topK nearest documents, ascending by cosine
// distance. The metadata filter is applied as exact equality after the
// similarity scan, so topK counts only matching documents.
func (s *Store) Query(ctx context.Context, collection, text string, topK int, filter store.Filter) ([]retrieval.Result, error) {
	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	if err := store.ValidateQuery(text, topK); err != nil {
		return nil, err
	}

	// The index rejects nResults above the document count, so scan
	// everything and cut after filtering.
	count := c.Count()
	if count == 0 {
		return nil, nil
	}

	hits, err := c.Query(ctx, text, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
	}

	results := make([]retrieval.Result, 0, topK)
	for _, hit := range hits {
		if !matchesFilter(hit.Metadata, filter) {
			continue
		}
		// The index reports cosine similarity (higher is closer);
		// convert to the distance convention used everywhere else.
		distance := 1 - float64(hit.Similarity)
		results = append(results, retrieval.NewResult(hit.ID, hit.Content, hit.Metadata, distance))
		if len(results) == topK {
			break
		}
	}

	return results, nil
}

// Delete removes a document. Deleting an absent ID is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("document ID is required: %w", domain.ErrInvalidArgument)
	}

	if c.Count() == 0 {
		return nil
	}

	if err := c.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("delete document %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Clear drops and recreates the collection.
func (s *Store) Clear(_ context.Context, collection string) error {
	if err := store.ValidateCollection(collection); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(collection); err != nil {
		return fmt.Errorf("clear %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
	}
	c, err := s.db.GetOrCreateCollection(collection, nil, s.embeddingFunc())
	if err != nil {
		return fmt.Errorf("recreate %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
	}
	s.collections[collection] = c

	s.logger.Info("Cleared collection", zap.String("collection", collection))
	return nil
}

// matchesFilter reports whether metadata satisfies every filter entry.
// A key absent from metadata never matches.
func matchesFilter(metadata map[string]string, filter store.Filter) bool {
	for k, want := range filter {
		if got, ok := metadata[k]; !ok || got != want {
			return false
		}
	}
	return true
}
