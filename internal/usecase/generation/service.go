// Package generation produces the tutoring answer for a query, grounded in
// retrieved context. A missing or failing generative model degrades to a
// deterministic extractive answer built from the retrieved materials.
package generation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
	"github.com/kailas-cloud/tutorrag/internal/metrics"
)

// DefaultSystemPrompt frames the model as a tutor grounded in the supplied
// context.
const DefaultSystemPrompt = "You are a helpful tutor. Answer the student's question using the " +
	"provided study materials. Be clear and educational. If the materials don't cover the " +
	"question, say so honestly."

// Extractive fallback shape.
const (
	fallbackExcerptLimit    = 300
	fallbackExcerptCount    = 2
	fallbackHeader          = "Based on available study materials:"
	fallbackNoMaterialsText = "Sorry, I couldn't find relevant materials to answer your question. " +
		"Please try rephrasing your question or check if the topic is covered in our database."
)

// Service generates answers. model may be nil, in which case every answer
// comes from the extractive fallback.
type Service struct {
	model        ModelClient
	systemPrompt string
	logger       *zap.Logger
}

// New creates a generation service. An empty systemPrompt selects the
// default tutoring prompt.
func New(model ModelClient, systemPrompt string, logger *zap.Logger) *Service {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Service{model: model, systemPrompt: systemPrompt, logger: logger}
}

// Generate answers the query from the retrieved context. A non-empty
// systemPrompt overrides the configured one for this call only. Model
// failures never propagate: the extractive fallback always yields a
// non-empty answer.
func (s *Service) Generate(ctx context.Context, query string, rctx retrieval.Context, systemPrompt string) string {
	if systemPrompt == "" {
		systemPrompt = s.systemPrompt
	}

	if s.model == nil {
		metrics.GenerationFallbacksTotal.WithLabelValues("not_configured").Inc()
		return s.fallback(rctx)
	}

	answer, err := s.model.Complete(ctx, s.buildPrompt(query, rctx, systemPrompt))
	if err != nil {
		s.logger.Warn("Generation failed, serving extractive fallback", zap.Error(err))
		metrics.GenerationFallbacksTotal.WithLabelValues("model_error").Inc()
		return s.fallback(rctx)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		s.logger.Warn("Model returned an empty answer, serving extractive fallback")
		metrics.GenerationFallbacksTotal.WithLabelValues("model_error").Inc()
		return s.fallback(rctx)
	}

	return answer
}

func (s *Service) buildPrompt(query string, rctx retrieval.Context, systemPrompt string) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nCONTEXT FROM STUDY MATERIALS:\n")
	sb.WriteString(FormatContext(rctx))
	sb.WriteString("\n\nSTUDENT QUESTION:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nRESPONSE:")
	return sb.String()
}

// fallback builds an extractive answer from the closest materials. It is
// deterministic: same context, same answer.
func (s *Service) fallback(rctx retrieval.Context) string {
	materials := rctx.Materials()
	if len(materials) == 0 {
		return fallbackNoMaterialsText
	}

	n := len(materials)
	if n > fallbackExcerptCount {
		n = fallbackExcerptCount
	}

	parts := make([]string, 0, n+1)
	parts = append(parts, fallbackHeader)
	for i := 0; i < n; i++ {
		parts = append(parts, truncateRunes(materials[i].Content(), fallbackExcerptLimit))
	}

	return strings.Join(parts, "\n\n")
}
