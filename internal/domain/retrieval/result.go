package retrieval

// Result is a single retrieval hit. Distance uses cosine-distance
// semantics: lower is closer.
type Result struct {
	id       string
	content  string
	metadata map[string]string
	distance float64
}

// NewResult creates a retrieval result.
func NewResult(id string, content string, metadata map[string]string, distance float64) Result {
	return Result{id: id, content: content, metadata: metadata, distance: distance}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Content returns the document content.
func (r *Result) Content() string { return r.content }

// Metadata returns the document metadata fields.
func (r *Result) Metadata() map[string]string { return r.metadata }

// Meta returns a single metadata field, or the fallback when absent.
func (r *Result) Meta(key, fallback string) string {
	if v, ok := r.metadata[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Distance returns the cosine distance to the query.
func (r *Result) Distance() float64 { return r.distance }
