// Package chi exposes the tutoring pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/domain"
	"github.com/kailas-cloud/tutorrag/internal/domain/document"
	"github.com/kailas-cloud/tutorrag/internal/domain/grade"
	"github.com/kailas-cloud/tutorrag/internal/logger"
	"github.com/kailas-cloud/tutorrag/internal/metrics"
	"github.com/kailas-cloud/tutorrag/internal/usecase/grading"
	"github.com/kailas-cloud/tutorrag/internal/usecase/pipeline"
)

// Pipeline is the slice of the pipeline facade the server consumes (ISP).
type Pipeline interface {
	AnswerQuestion(ctx context.Context, query, subject string) (pipeline.Answer, error)
	GradeAnswer(ctx context.Context, p grading.Params) (grade.Result, error)
	AddStudyMaterial(ctx context.Context, id, content string, meta document.MaterialMeta) (string, error)
	AddQuestion(ctx context.Context, id string, meta document.QuestionMeta) (string, error)
	DeleteStudyMaterial(ctx context.Context, id string) error
	DeleteQuestion(ctx context.Context, id string) error
	ClearStudyMaterials(ctx context.Context) error
	ClearQuestions(ctx context.Context) error
}

// Server handles HTTP requests.
type Server struct {
	pipeline Pipeline
	logger   *zap.Logger
}

// NewServer creates the HTTP server.
func NewServer(p Pipeline, logger *zap.Logger) *Server {
	return &Server{pipeline: p, logger: logger}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Post("/grade", s.handleGrade)

		r.Route("/materials", func(r chi.Router) {
			r.Post("/", s.handleAddMaterial)
			r.Delete("/", s.handleClearMaterials)
			r.Delete("/{id}", s.handleDeleteMaterial)
		})

		r.Route("/questions", func(r chi.Router) {
			r.Post("/", s.handleAddQuestion)
			r.Delete("/", s.handleClearQuestions)
			r.Delete("/{id}", s.handleDeleteQuestion)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type askRequest struct {
	Query   string `json:"query"`
	Subject string `json:"subject,omitempty"`
}

type sourceDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type askResponse struct {
	Query              string      `json:"query"`
	Answer             string      `json:"answer"`
	Sources            []sourceDTO `json:"sources"`
	Materials          int         `json:"materials"`
	ReferenceQuestions int         `json:"reference_questions"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !s.decode(w, r, &req) {
		return
	}

	answer, err := s.pipeline.AnswerQuestion(r.Context(), req.Query, req.Subject)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sources := make([]sourceDTO, len(answer.Sources))
	for i, src := range answer.Sources {
		sources[i] = sourceDTO{ID: src.ID, Title: src.Title}
	}

	s.writeJSON(w, http.StatusOK, askResponse{
		Query:              answer.Query,
		Answer:             answer.Answer,
		Sources:            sources,
		Materials:          len(answer.Context.Materials()),
		ReferenceQuestions: len(answer.Context.ReferenceQuestions()),
	})
}

type gradeRequest struct {
	Question      string  `json:"question"`
	ModelAnswer   string  `json:"model_answer,omitempty"`
	StudentAnswer string  `json:"student_answer"`
	Subject       string  `json:"subject,omitempty"`
	Rubric        string  `json:"rubric,omitempty"`
	MaxScore      float64 `json:"max_score,omitempty"`
}

type gradeResponse struct {
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
	Confidence float64 `json:"confidence"`
	Raw        string  `json:"raw"`
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.pipeline.GradeAnswer(r.Context(), grading.Params{
		Question:      req.Question,
		ModelAnswer:   req.ModelAnswer,
		StudentAnswer: req.StudentAnswer,
		Subject:       req.Subject,
		Rubric:        req.Rubric,
		MaxScore:      req.MaxScore,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, gradeResponse{
		Score:      result.Score(),
		Feedback:   result.Feedback(),
		Confidence: result.Confidence(),
		Raw:        result.Raw(),
	})
}

type addMaterialRequest struct {
	ID         string `json:"id,omitempty"`
	Content    string `json:"content"`
	Title      string `json:"title,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleAddMaterial(w http.ResponseWriter, r *http.Request) {
	var req addMaterialRequest
	if !s.decode(w, r, &req) {
		return
	}

	id, err := s.pipeline.AddStudyMaterial(r.Context(), orGenerated(req.ID, "mat"), req.Content, document.MaterialMeta{
		Title:      req.Title,
		Topic:      req.Topic,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

type addQuestionRequest struct {
	ID         string `json:"id,omitempty"`
	Question   string `json:"question"`
	Answer     string `json:"answer,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var req addQuestionRequest
	if !s.decode(w, r, &req) {
		return
	}

	id, err := s.pipeline.AddQuestion(r.Context(), orGenerated(req.ID, "q"), document.QuestionMeta{
		Question:   req.Question,
		Answer:     req.Answer,
		Topic:      req.Topic,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.DeleteStudyMaterial(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.DeleteQuestion(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearMaterials(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.ClearStudyMaterials(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearQuestions(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.ClearQuestions(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// orGenerated returns the caller's ID, or mints a prefixed one when the
// request left it blank. Document IDs are caller-owned; generation is a
// request-layer convenience, not a pipeline concern.
func orGenerated(id, prefix string) string {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return trimmed
	}
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// requestLogger attaches a request-scoped logger to the context so deeper
// layers can log with the request's method and path attached.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLog := s.logger.With(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), reqLog)))
	})
}

// decode parses the JSON body; on failure it writes a 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrEmbeddingProviderError):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
