// Package retrieval fetches the study materials and reference questions
// relevant to a query. Never fails: store errors degrade to an empty
// context so the caller can fall back gracefully.
package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
	"github.com/kailas-cloud/tutorrag/internal/store"
)

// DefaultTopK is used when the caller passes a non-positive topK.
const DefaultTopK = 5

// maxReferenceQuestions caps the reference-question fetch; a short answer
// key adds noise past a few entries.
const maxReferenceQuestions = 3

// Service retrieves context for a query from both collections.
type Service struct {
	store  DocumentStore
	logger *zap.Logger
}

// New creates a retrieval service.
func New(documentStore DocumentStore, logger *zap.Logger) *Service {
	return &Service{store: documentStore, logger: logger}
}

// Retrieve returns up to topK study materials and min(3, topK) reference
// questions, each closest first. A non-empty subject restricts both lookups
// to exact subject matches. Store failures are logged and produce an empty
// context, never an error.
func (s *Service) Retrieve(ctx context.Context, query, subject string, topK int) retrieval.Context {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var filter store.Filter
	if subject != "" {
		filter = store.Filter{"subject": subject}
	}

	materials, err := s.store.Query(ctx, store.CollectionMaterials, query, topK, filter)
	if err != nil {
		s.logger.Warn("Material retrieval failed, continuing without materials",
			zap.String("subject", subject), zap.Error(err))
		materials = nil
	}

	questionK := topK
	if questionK > maxReferenceQuestions {
		questionK = maxReferenceQuestions
	}

	questions, err := s.store.Query(ctx, store.CollectionQuestions, query, questionK, filter)
	if err != nil {
		s.logger.Warn("Reference question retrieval failed, continuing without questions",
			zap.String("subject", subject), zap.Error(err))
		questions = nil
	}

	return retrieval.NewContext(materials, questions)
}
