package document

import (
	"fmt"

	"github.com/kailas-cloud/tutorrag/internal/domain"
)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// MaxIDLength is the maximum document identifier length.
const MaxIDLength = 256

// Document is an embeddable record (immutable value object). IDs are
// caller-assigned and unique within a collection, not across collections.
type Document struct {
	id       string
	content  string
	metadata map[string]string
}

// New validates and creates a Document.
// ID: non-empty, max 256 chars. Content: non-empty, max 160KB.
// Metadata keys follow the per-collection schema but unknown keys are
// carried as-is, never rejected.
func New(id, content string, metadata map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required: %w", domain.ErrInvalidArgument)
	}
	if len(id) > MaxIDLength {
		return Document{}, fmt.Errorf("document ID too long (max %d): %w", MaxIDLength, domain.ErrInvalidArgument)
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required: %w", domain.ErrInvalidArgument)
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes): %w", MaxContentSize, domain.ErrInvalidArgument)
	}

	return Document{
		id:       id,
		content:  content,
		metadata: cloneStringMap(metadata),
	}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Content returns the document text content.
func (d *Document) Content() string { return d.content }

// Metadata returns the metadata fields.
func (d *Document) Metadata() map[string]string { return d.metadata }

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
