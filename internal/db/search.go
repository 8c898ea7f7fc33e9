package db

// KNNQuery is the input for vector similarity search. TagFilters is an
// equality pre-filter applied before the KNN step.
type KNNQuery struct {
	IndexName    string
	TagFilters   map[string]string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Score is the raw cosine distance
// reported by the index (lower is closer).
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
