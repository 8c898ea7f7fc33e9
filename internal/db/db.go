// Package db defines the low-level storage contract for the Redis-backed
// document store: document hashes, an embedding cache KV, and FT vector
// indexes with KNN search.
package db

import (
	"context"
	"time"
)

// Store is the full backing-store contract implemented by the redis driver.
type Store interface {
	KV
	Hashes
	Indexes
	Searcher

	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// KV is a plain key-value store used by the embedding cache.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Hashes stores documents as flat field-value hashes.
type Hashes interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Indexes manages FT vector indexes.
type Indexes interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs KNN vector searches.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
