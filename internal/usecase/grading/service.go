// Package grading scores a student answer against a question, model answer
// and rubric. The model's reply is parsed defensively: malformed output
// degrades to a zero grade with the raw reply preserved for audit.
package grading

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/domain/grade"
	"github.com/kailas-cloud/tutorrag/internal/metrics"
)

// gradingInstruction pins the model to a bare JSON object so the parser
// has a fighting chance.
const gradingInstruction = "You are an expert grader. Evaluate the student's answer against the " +
	"question, the model answer and the rubric. Respond with ONLY a JSON object in exactly this " +
	"form and no other text:\n" +
	`{"score": <number from 0 to 1>, "feedback": "<specific, constructive feedback>", ` +
	`"confidence": <number from 0 to 1>}`

// contextTopK bounds the study context fetched for a graded question.
const contextTopK = 3

// Service grades student answers. model may be nil (always degraded);
// retriever may be nil (no study context in the prompt).
type Service struct {
	model     ModelClient
	retriever Retriever
	logger    *zap.Logger
}

// New creates a grading service.
func New(model ModelClient, retriever Retriever, logger *zap.Logger) *Service {
	return &Service{model: model, retriever: retriever, logger: logger}
}

// Grade scores the student answer. It never returns an error: every
// failure mode yields a conservative zero grade with empty feedback (the
// reason goes to the log, not the result), and parsed scores are clamped
// into [0, MaxScore].
func (s *Service) Grade(ctx context.Context, p Params) grade.Result {
	if s.model == nil {
		s.logger.Warn("No grading model configured, returning zero grade")
		return grade.New(0, 0, "", "", p.MaxScore)
	}

	reply, err := s.model.Complete(ctx, s.buildPrompt(ctx, p))
	if err != nil {
		s.logger.Warn("Grading model call failed", zap.Error(err))
		return grade.New(0, 0, "", "", p.MaxScore)
	}

	parsed, outcome := parseGradeReply(reply)
	metrics.GradeParseTotal.WithLabelValues(string(outcome)).Inc()

	if outcome == parseFailed {
		s.logger.Warn("Grading reply was not parseable", zap.String("reply", reply))
		return grade.New(0, 0, "", reply, p.MaxScore)
	}

	return grade.New(parsed.score, parsed.confidence, parsed.feedback, reply, p.MaxScore)
}

func (s *Service) buildPrompt(ctx context.Context, p Params) string {
	var sb strings.Builder
	sb.WriteString(gradingInstruction)

	sb.WriteString("\n\nQUESTION:\n")
	sb.WriteString(p.Question)

	if p.ModelAnswer != "" {
		sb.WriteString("\n\nMODEL ANSWER:\n")
		sb.WriteString(p.ModelAnswer)
	}

	if p.Rubric != "" {
		sb.WriteString("\n\nGRADING RUBRIC:\n")
		sb.WriteString(p.Rubric)
	}

	if s.retriever != nil {
		rctx := s.retriever.Retrieve(ctx, p.Question, p.Subject, contextTopK)
		if formatted := formatStudyContext(rctx); formatted != "" {
			sb.WriteString("\n\nRELEVANT STUDY CONTEXT:\n")
			sb.WriteString(formatted)
		}
	}

	sb.WriteString("\n\nSTUDENT ANSWER:\n")
	sb.WriteString(p.StudentAnswer)

	sb.WriteString("\n\nGRADE:")
	return sb.String()
}
