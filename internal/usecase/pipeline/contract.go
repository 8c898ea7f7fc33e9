package pipeline

import (
	"context"

	"github.com/kailas-cloud/tutorrag/internal/domain/document"
	"github.com/kailas-cloud/tutorrag/internal/domain/grade"
	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
	"github.com/kailas-cloud/tutorrag/internal/usecase/grading"
)

// Consumer interfaces over the pipeline stages (ISP).
type (
	// Retriever fetches the context for a query.
	Retriever interface {
		Retrieve(ctx context.Context, query, subject string, topK int) retrieval.Context
	}

	// Generator answers a query from retrieved context. An empty
	// systemPrompt selects the generator's configured default.
	Generator interface {
		Generate(ctx context.Context, query string, rctx retrieval.Context, systemPrompt string) string
	}

	// Grader scores a student answer.
	Grader interface {
		Grade(ctx context.Context, p grading.Params) grade.Result
	}

	// DocumentStore is the write side of the vector store.
	DocumentStore interface {
		Upsert(ctx context.Context, collection string, doc document.Document) error
		Delete(ctx context.Context, collection, id string) error
		Clear(ctx context.Context, collection string) error
	}
)

// Source identifies a study material that grounded an answer.
type Source struct {
	ID    string
	Title string
}

// Answer is the outcome of one answered question.
type Answer struct {
	Query   string
	Answer  string
	Sources []Source
	Context retrieval.Context
}
