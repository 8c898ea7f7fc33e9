package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/db"
	"github.com/kailas-cloud/tutorrag/internal/domain"
)

type fakeKV struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

type countingEmbedder struct {
	embedCalls int
	batchCalls int
	batchSizes []int
	vec        []float32
	err        error
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	c.embedCalls++
	if c.err != nil {
		return domain.EmbeddingResult{}, c.err
	}
	return domain.EmbeddingResult{Embedding: c.vec, TotalTokens: 7}, nil
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([]domain.EmbeddingResult, error) {
	c.batchCalls++
	c.batchSizes = append(c.batchSizes, len(texts))
	if c.err != nil {
		return nil, c.err
	}
	out := make([]domain.EmbeddingResult, len(texts))
	for i := range out {
		out[i] = domain.EmbeddingResult{Embedding: c.vec}
	}
	return out, nil
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.25, -1.5, 3}}
	kv := newFakeKV()
	cached := NewCachedEmbedder(inner, kv, "tutorrag:", nil, zap.NewNop())
	ctx := context.Background()

	first, err := cached.Embed(ctx, "photosynthesis")
	if err != nil {
		t.Fatalf("first Embed() error = %v", err)
	}
	if inner.embedCalls != 1 {
		t.Errorf("provider calls = %d, want 1", inner.embedCalls)
	}

	second, err := cached.Embed(ctx, "photosynthesis")
	if err != nil {
		t.Fatalf("second Embed() error = %v", err)
	}
	if inner.embedCalls != 1 {
		t.Errorf("provider calls after hit = %d, want 1", inner.embedCalls)
	}

	if len(second.Embedding) != len(first.Embedding) {
		t.Fatalf("cached vector length mismatch")
	}
	for i := range first.Embedding {
		if first.Embedding[i] != second.Embedding[i] {
			t.Errorf("vector[%d] = %v, want %v", i, second.Embedding[i], first.Embedding[i])
		}
	}
}

func TestCachedEmbedder_DistinctTextsMiss(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	cached := NewCachedEmbedder(inner, newFakeKV(), "tutorrag:", nil, zap.NewNop())
	ctx := context.Background()

	_, _ = cached.Embed(ctx, "alpha")
	_, _ = cached.Embed(ctx, "beta")

	if inner.embedCalls != 2 {
		t.Errorf("provider calls = %d, want 2", inner.embedCalls)
	}
}

func TestCachedEmbedder_GetFailureFallsThrough(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	kv := newFakeKV()
	kv.getErr = errors.New("connection reset")
	cached := NewCachedEmbedder(inner, kv, "tutorrag:", nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed() error = %v, cache failures must not propagate", err)
	}
	if inner.embedCalls != 1 {
		t.Errorf("provider calls = %d, want 1", inner.embedCalls)
	}
}

func TestCachedEmbedder_SetFailureIsNonFatal(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	kv := newFakeKV()
	kv.setErr = errors.New("oom")
	cached := NewCachedEmbedder(inner, kv, "tutorrag:", nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed() error = %v, cache write failures must not propagate", err)
	}
}

func TestCachedEmbedder_ProviderErrorPropagates(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("quota exceeded")}
	cached := NewCachedEmbedder(inner, newFakeKV(), "tutorrag:", nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "text"); err == nil {
		t.Error("expected provider error to propagate")
	}
}

func TestCachedEmbedder_BatchForwardsOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2}}
	kv := newFakeKV()
	cached := NewCachedEmbedder(inner, kv, "tutorrag:", nil, zap.NewNop())
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "cached text"); err != nil {
		t.Fatalf("warmup Embed() error = %v", err)
	}

	results, err := cached.EmbedBatch(ctx, []string{"cached text", "new one", "another new"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if len(r.Embedding) == 0 {
			t.Errorf("result %d has no embedding", i)
		}
	}
	if inner.batchCalls != 1 {
		t.Errorf("batch calls = %d, want 1", inner.batchCalls)
	}
	if len(inner.batchSizes) != 1 || inner.batchSizes[0] != 2 {
		t.Errorf("batch sizes = %v, want [2]", inner.batchSizes)
	}
}

func TestCachedEmbedder_BatchAllHitsSkipsProvider(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	cached := NewCachedEmbedder(inner, newFakeKV(), "tutorrag:", nil, zap.NewNop())
	ctx := context.Background()

	if _, err := cached.EmbedBatch(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("warmup EmbedBatch() error = %v", err)
	}
	if _, err := cached.EmbedBatch(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("second EmbedBatch() error = %v", err)
	}

	if inner.batchCalls != 1 {
		t.Errorf("batch calls = %d, want 1", inner.batchCalls)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e-7}

	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("bytesToVector() error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("vector[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestBytesToVector_RejectsBadLength(t *testing.T) {
	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for non-multiple-of-4 data")
	}
}
