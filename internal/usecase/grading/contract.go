package grading

import (
	"context"

	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
)

// ModelClient is a single-turn generative model invocation.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Retriever fetches study context for the graded question. Optional:
// a nil Retriever disables context-aware grading.
type Retriever interface {
	Retrieve(ctx context.Context, query, subject string, topK int) retrieval.Context
}

// Params carries one grading request. Question and StudentAnswer are
// required; the rest refine the rubric the model grades against.
type Params struct {
	Question      string
	ModelAnswer   string
	StudentAnswer string
	Subject       string
	Rubric        string
	MaxScore      float64
}
