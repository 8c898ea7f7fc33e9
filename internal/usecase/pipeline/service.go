// Package pipeline is the stateless facade over the retrieval, generation
// and grading stages plus the document write path. All request state lives
// on the stack; a single Service handles concurrent requests.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/domain"
	"github.com/kailas-cloud/tutorrag/internal/domain/document"
	"github.com/kailas-cloud/tutorrag/internal/domain/grade"
	"github.com/kailas-cloud/tutorrag/internal/embedding"
	"github.com/kailas-cloud/tutorrag/internal/logger"
	"github.com/kailas-cloud/tutorrag/internal/store"
	"github.com/kailas-cloud/tutorrag/internal/usecase/grading"
)

// Service wires the pipeline stages together.
type Service struct {
	retriever Retriever
	generator Generator
	grader    Grader
	store     DocumentStore
	topK      int
	logger    *zap.Logger
}

// New creates the pipeline facade. topK bounds retrieval per question.
func New(retriever Retriever, generator Generator, grader Grader, documentStore DocumentStore, topK int, logger *zap.Logger) *Service {
	return &Service{
		retriever: retriever,
		generator: generator,
		grader:    grader,
		store:     documentStore,
		topK:      topK,
		logger:    logger,
	}
}

// AnswerQuestion retrieves context for the query and generates an answer.
// Sources list the distinct materials that grounded the answer, in
// retrieval order.
func (s *Service) AnswerQuestion(ctx context.Context, query, subject string) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, fmt.Errorf("query is required: %w", domain.ErrInvalidArgument)
	}

	rctx := s.retriever.Retrieve(ctx, query, subject, s.topK)
	answer := s.generator.Generate(ctx, query, rctx, "")

	materials := rctx.Materials()
	sources := make([]Source, 0, len(materials))
	seen := make(map[string]struct{}, len(materials))
	for i := range materials {
		m := &materials[i]
		if _, dup := seen[m.ID()]; dup {
			continue
		}
		seen[m.ID()] = struct{}{}
		sources = append(sources, Source{
			ID:    m.ID(),
			Title: m.Meta(document.MetaTitle, "Unknown"),
		})
	}

	logger.FromContext(ctx).Debug("Answered question",
		zap.String("subject", subject),
		zap.Int("materials", len(materials)),
		zap.Int("reference_questions", len(rctx.ReferenceQuestions())))

	return Answer{Query: query, Answer: answer, Sources: sources, Context: rctx}, nil
}

// GradeAnswer scores a student answer. Question and StudentAnswer are
// required; grading itself never fails past validation.
func (s *Service) GradeAnswer(ctx context.Context, p grading.Params) (grade.Result, error) {
	if strings.TrimSpace(p.Question) == "" {
		return grade.Result{}, fmt.Errorf("question is required: %w", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(p.StudentAnswer) == "" {
		return grade.Result{}, fmt.Errorf("student answer is required: %w", domain.ErrInvalidArgument)
	}

	return s.grader.Grade(ctx, p), nil
}

// AddStudyMaterial chunks the content and stores each chunk as a separate
// document sharing the material's metadata, under the caller-assigned ID.
// Re-adding the same ID overwrites the previous content. Chunk documents
// append a "_chunk_N" suffix to the ID when the content splits.
func (s *Service) AddStudyMaterial(ctx context.Context, id, content string, meta document.MaterialMeta) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("id is required: %w", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("content is required: %w", domain.ErrInvalidArgument)
	}

	chunks, err := embedding.Chunk(content, embedding.DefaultChunkSize, embedding.DefaultChunkOverlap)
	if err != nil {
		return "", fmt.Errorf("chunk material: %w", err)
	}

	metadata := meta.Map()

	for i, chunk := range chunks {
		chunkID := id
		if len(chunks) > 1 {
			chunkID = fmt.Sprintf("%s_chunk_%d", id, i)
		}

		doc, err := document.New(chunkID, chunk, metadata)
		if err != nil {
			return "", fmt.Errorf("build material document: %w", err)
		}
		if err := s.store.Upsert(ctx, store.CollectionMaterials, doc); err != nil {
			return "", fmt.Errorf("add study material: %w", err)
		}
	}

	s.logger.Info("Added study material",
		zap.String("id", id),
		zap.Int("chunks", len(chunks)),
		zap.String("subject", meta.Subject))
	return id, nil
}

// AddQuestion stores a reference question under the caller-assigned ID.
// The indexed content combines question and answer so retrieval matches
// against both.
func (s *Service) AddQuestion(ctx context.Context, id string, meta document.QuestionMeta) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("id is required: %w", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(meta.Question) == "" {
		return "", fmt.Errorf("question is required: %w", domain.ErrInvalidArgument)
	}

	content := meta.Question
	if meta.Answer != "" {
		content += "\n\nAnswer: " + meta.Answer
	}

	doc, err := document.New(id, content, meta.Map())
	if err != nil {
		return "", fmt.Errorf("build question document: %w", err)
	}
	if err := s.store.Upsert(ctx, store.CollectionQuestions, doc); err != nil {
		return "", fmt.Errorf("add question: %w", err)
	}

	s.logger.Info("Added reference question",
		zap.String("id", id),
		zap.String("subject", meta.Subject))
	return id, nil
}

// DeleteStudyMaterial removes one material document by ID.
func (s *Service) DeleteStudyMaterial(ctx context.Context, id string) error {
	return s.store.Delete(ctx, store.CollectionMaterials, id)
}

// DeleteQuestion removes one reference question by ID.
func (s *Service) DeleteQuestion(ctx context.Context, id string) error {
	return s.store.Delete(ctx, store.CollectionQuestions, id)
}

// ClearStudyMaterials removes every study material.
func (s *Service) ClearStudyMaterials(ctx context.Context) error {
	return s.store.Clear(ctx, store.CollectionMaterials)
}

// ClearQuestions removes every reference question.
func (s *Service) ClearQuestions(ctx context.Context) error {
	return s.store.Clear(ctx, store.CollectionQuestions)
}
