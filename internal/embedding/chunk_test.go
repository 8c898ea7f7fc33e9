package embedding

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/tutorrag/internal/domain"
)

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	chunks, err := Chunk("short text", 100, 10)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestChunk_EmptyText(t *testing.T) {
	chunks, err := Chunk("", 100, 10)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks from empty text, want 0", len(chunks))
	}
}

func TestChunk_OverlapAndCoverage(t *testing.T) {
	text := strings.Repeat("a", 95) + strings.Repeat("b", 95)
	chunks, err := Chunk(text, 100, 20)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if len([]rune(c)) != 100 {
			t.Errorf("chunk %d length = %d, want 100", i, len([]rune(c)))
		}
	}

	// Consecutive chunks share exactly the overlap region.
	first := []rune(chunks[0])
	second := []rune(chunks[1])
	if string(first[80:]) != string(second[:20]) {
		t.Error("overlap region mismatch between consecutive chunks")
	}

	// Last chunk ends at the end of the text.
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("last chunk does not end at the end of the text")
	}
}

func TestChunk_AdvancesPastOverlapOnEveryStep(t *testing.T) {
	// A step of chunkSize-overlap must terminate even for long inputs.
	text := strings.Repeat("x", 10_000)
	chunks, err := Chunk(text, 500, 50)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}

	wantMax := 10_000/(500-50) + 1
	if len(chunks) > wantMax {
		t.Errorf("got %d chunks, expected at most %d", len(chunks), wantMax)
	}
}

func TestChunk_MultibyteRunes(t *testing.T) {
	text := strings.Repeat("日", 30)
	chunks, err := Chunk(text, 20, 5)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}

	if len([]rune(chunks[0])) != 20 {
		t.Errorf("first chunk rune length = %d, want 20", len([]rune(chunks[0])))
	}
	for _, c := range chunks {
		if strings.ContainsRune(c, '�') {
			t.Errorf("chunk %q contains a broken rune", c)
		}
	}
}

func TestChunk_InvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -1, 0},
		{"negative overlap", 10, -1},
		{"overlap equals chunk size", 10, 10},
		{"overlap exceeds chunk size", 10, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Chunk("text", tt.chunkSize, tt.overlap); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}
