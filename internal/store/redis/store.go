// Package redis implements the vector document store on Redis Stack:
// documents as hashes, FT vector indexes, KNN search with TAG pre-filters.
package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/db"
	"github.com/kailas-cloud/tutorrag/internal/domain"
	"github.com/kailas-cloud/tutorrag/internal/domain/document"
	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
	"github.com/kailas-cloud/tutorrag/internal/store"
)

// Reserved hash fields. Metadata keys never collide with these: the
// per-collection schemas only use plain words (subject, topic, ...).
const (
	fieldContent = "content"
	fieldVector  = "vector"
)

// Tag fields indexed for metadata pre-filtering.
var tagFields = []string{"subject", "topic", "difficulty"}

// backend is the slice of the db contract the store consumes (ISP).
type backend interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// embedder converts text into a vector for indexing and querying.
type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the Redis-backed vector document store.
type Store struct {
	db        backend
	embed     embedder
	keyPrefix string
	logger    *zap.Logger
}

// New creates the store and ensures an FT index exists per collection.
func New(ctx context.Context, backend backend, embed embedder, keyPrefix string, dimensions int, logger *zap.Logger) (*Store, error) {
	s := &Store{
		db:        backend,
		embed:     embed,
		keyPrefix: keyPrefix,
		logger:    logger,
	}

	for _, collection := range []string{store.CollectionMaterials, store.CollectionQuestions} {
		if err := s.ensureIndex(ctx, collection, dimensions); err != nil {
			return nil, fmt.Errorf("ensure index for %s: %w", collection, err)
		}
	}

	return s, nil
}

func (s *Store) ensureIndex(ctx context.Context, collection string, dimensions int) error {
	b := db.NewIndex(s.indexName(collection)).
		Prefix(s.keyPrefix + collection + ":")
	for _, tag := range tagFields {
		b = b.Tag(tag)
	}
	def := b.Vector(fieldVector, dimensions, db.VectorFlat, db.DistanceCosine).Build()

	err := s.db.CreateIndex(ctx, def)
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Upsert embeds the document content and writes the hash. An existing key
// is fully overwritten; the index picks up the change automatically.
func (s *Store) Upsert(ctx context.Context, collection string, doc document.Document) error {
	if err := store.ValidateCollection(collection); err != nil {
		return err
	}

	vec, err := s.embed.Embed(ctx, doc.Content())
	if err != nil {
		return fmt.Errorf("embed document %s: %w", doc.ID(), err)
	}

	fields := make(map[string]string, len(doc.Metadata())+2)
	for k, v := range doc.Metadata() {
		fields[k] = v
	}
	fields[fieldContent] = doc.Content()
	fields[fieldVector] = encodeVector(vec)

	if err := s.db.HSet(ctx, s.key(collection, doc.ID()), fields); err != nil {
		return fmt.Errorf("store document %s: %w: %w", doc.ID(), domain.ErrStoreUnavailable, err)
	}

	return nil
}

// Query embeds the text and returns up to topK nearest documents,
// ascending by cosine distance. filter narrows candidates before the KNN
// step via TAG matches.
func (s *Store) Query(ctx context.Context, collection, text string, topK int, filter store.Filter) ([]retrieval.Result, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return nil, err
	}
	if err := store.ValidateQuery(text, topK); err != nil {
		return nil, err
	}

	vec, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	res, err := s.db.SearchKNN(ctx, &db.KNNQuery{
		IndexName:  s.indexName(collection),
		TagFilters: filter,
		Vector:     vec,
		K:          topK,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
	}

	results := make([]retrieval.Result, 0, len(res.Entries))
	for _, entry := range res.Entries {
		id := strings.TrimPrefix(entry.Key, s.keyPrefix+collection+":")

		metadata := make(map[string]string, len(entry.Fields))
		var content string
		for k, v := range entry.Fields {
			switch k {
			case fieldContent:
				content = v
			case fieldVector:
				// binary blob, never surfaced
			default:
				metadata[k] = v
			}
		}

		results = append(results, retrieval.NewResult(id, content, metadata, entry.Score))
	}

	return results, nil
}

// Delete removes a document. Deleting an absent ID is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := store.ValidateCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("document ID is required: %w", domain.ErrInvalidArgument)
	}

	if err := s.db.Del(ctx, s.key(collection, id)); err != nil {
		return fmt.Errorf("delete document %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Clear removes every document in the collection. The index stays in
// place and empties out as keys disappear.
func (s *Store) Clear(ctx context.Context, collection string) error {
	if err := store.ValidateCollection(collection); err != nil {
		return err
	}

	keys, err := s.db.Scan(ctx, s.keyPrefix+collection+":*")
	if err != nil {
		return fmt.Errorf("scan %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
	}

	for _, key := range keys {
		if err := s.db.Del(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
		}
	}

	s.logger.Info("Cleared collection",
		zap.String("collection", collection),
		zap.Int("documents", len(keys)))
	return nil
}

func (s *Store) key(collection, id string) string {
	return s.keyPrefix + collection + ":" + id
}

func (s *Store) indexName(collection string) string {
	return strings.TrimSuffix(s.keyPrefix, ":") + "_" + collection + "_idx"
}

// encodeVector serializes the embedding as the little-endian float32 blob
// the FT vector index expects in hash fields.
func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
