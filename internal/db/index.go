package db

// StorageType selects the FT index storage backend.
type StorageType string

// Supported storage types.
const (
	StorageHash StorageType = "HASH"
)

// IndexFieldType is the FT field type.
type IndexFieldType string

// Supported field types.
const (
	IndexFieldTag    IndexFieldType = "TAG"
	IndexFieldVector IndexFieldType = "VECTOR"
)

// VectorAlgorithm selects the vector index algorithm.
type VectorAlgorithm string

// Supported vector algorithms.
const (
	VectorFlat VectorAlgorithm = "FLAT"
	VectorHNSW VectorAlgorithm = "HNSW"
)

// DistanceMetric selects the vector distance function.
type DistanceMetric string

// Supported distance metrics. Cosine is the only metric the document store
// uses; the lower-is-closer convention throughout the pipeline depends on it.
const (
	DistanceCosine DistanceMetric = "COSINE"
)

// IndexDefinition describes an FT index to create.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// IndexField is a single schema field of an FT index.
type IndexField struct {
	Name string
	Type IndexFieldType

	// Vector field attributes.
	VectorDim         int
	VectorAlgo        VectorAlgorithm
	VectorDistance    DistanceMetric
	VectorM           int
	VectorEFConstruct int
}
