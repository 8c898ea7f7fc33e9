package grading

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
)

type mockModel struct {
	prompt string
	reply  string
	err    error
}

func (m *mockModel) Complete(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockRetriever struct {
	query   string
	subject string
	topK    int
	rctx    retrieval.Context
}

func (m *mockRetriever) Retrieve(_ context.Context, query, subject string, topK int) retrieval.Context {
	m.query, m.subject, m.topK = query, subject, topK
	return m.rctx
}

func params() Params {
	return Params{
		Question:      "What is mitosis?",
		ModelAnswer:   "Cell division producing two identical cells.",
		StudentAnswer: "Cells split in two.",
		MaxScore:      10,
	}
}

func TestGrade_ParsedAndScaled(t *testing.T) {
	model := &mockModel{reply: `{"score": 0.8, "feedback": "Mostly right", "confidence": 0.9}`}
	svc := New(model, nil, zap.NewNop())

	result := svc.Grade(context.Background(), params())

	if result.Score() != 8.0 {
		t.Errorf("score = %v, want 8.0", result.Score())
	}
	if result.Feedback() != "Mostly right" {
		t.Errorf("feedback = %q", result.Feedback())
	}
	if result.Confidence() != 0.9 {
		t.Errorf("confidence = %v, want 0.9", result.Confidence())
	}
	if result.Raw() != model.reply {
		t.Errorf("raw reply not preserved")
	}
}

func TestGrade_PromptLayout(t *testing.T) {
	model := &mockModel{reply: `{"score": 1}`}
	svc := New(model, nil, zap.NewNop())

	p := params()
	p.Rubric = "Full marks for mentioning identical daughter cells."
	svc.Grade(context.Background(), p)

	for _, want := range []string{
		"QUESTION:\nWhat is mitosis?",
		"MODEL ANSWER:\nCell division producing two identical cells.",
		"GRADING RUBRIC:\nFull marks for mentioning identical daughter cells.",
		"STUDENT ANSWER:\nCells split in two.",
		"GRADE:",
	} {
		if !strings.Contains(model.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, model.prompt)
		}
	}
}

func TestGrade_OptionalSectionsOmitted(t *testing.T) {
	model := &mockModel{reply: `{"score": 1}`}
	svc := New(model, nil, zap.NewNop())

	p := params()
	p.ModelAnswer = ""
	svc.Grade(context.Background(), p)

	if strings.Contains(model.prompt, "MODEL ANSWER:") {
		t.Error("empty model answer still rendered a section")
	}
	if strings.Contains(model.prompt, "GRADING RUBRIC:") {
		t.Error("empty rubric still rendered a section")
	}
}

func TestGrade_RetrieverAddsStudyContext(t *testing.T) {
	model := &mockModel{reply: `{"score": 1}`}
	ret := &mockRetriever{rctx: retrieval.NewContext(
		[]retrieval.Result{retrieval.NewResult("m1", "Mitosis has four phases.", nil, 0.1)},
		nil,
	)}
	svc := New(model, ret, zap.NewNop())

	p := params()
	p.Subject = "Biology"
	svc.Grade(context.Background(), p)

	if ret.query != p.Question || ret.subject != "Biology" || ret.topK != contextTopK {
		t.Errorf("retriever called with (%q, %q, %d)", ret.query, ret.subject, ret.topK)
	}
	if !strings.Contains(model.prompt, "RELEVANT STUDY CONTEXT:") {
		t.Error("prompt missing study context section")
	}
	if !strings.Contains(model.prompt, "Mitosis has four phases.") {
		t.Error("prompt missing retrieved material")
	}
}

func TestGrade_EmptyRetrievalSkipsContextSection(t *testing.T) {
	model := &mockModel{reply: `{"score": 1}`}
	ret := &mockRetriever{rctx: retrieval.NewContext(nil, nil)}
	svc := New(model, ret, zap.NewNop())

	svc.Grade(context.Background(), params())

	if strings.Contains(model.prompt, "RELEVANT STUDY CONTEXT:") {
		t.Error("empty retrieval still rendered a context section")
	}
}

func TestGrade_NoModelConfigured(t *testing.T) {
	svc := New(nil, nil, zap.NewNop())

	result := svc.Grade(context.Background(), params())

	if result.Score() != 0 {
		t.Errorf("score = %v, want 0", result.Score())
	}
	if result.Confidence() != 0 {
		t.Errorf("confidence = %v, want 0", result.Confidence())
	}
	if result.Feedback() != "" {
		t.Errorf("feedback = %q, want empty", result.Feedback())
	}
}

func TestGrade_ModelError(t *testing.T) {
	model := &mockModel{err: errors.New("timeout")}
	svc := New(model, nil, zap.NewNop())

	result := svc.Grade(context.Background(), params())

	if result.Score() != 0 {
		t.Errorf("score = %v, want 0", result.Score())
	}
	if result.Feedback() != "" {
		t.Errorf("feedback = %q, want empty", result.Feedback())
	}
}

func TestGrade_UnparseableReply(t *testing.T) {
	model := &mockModel{reply: "I think this is correct"}
	svc := New(model, nil, zap.NewNop())

	result := svc.Grade(context.Background(), params())

	if result.Score() != 0 {
		t.Errorf("score = %v, want 0", result.Score())
	}
	if result.Feedback() != "" {
		t.Errorf("feedback = %q, want empty", result.Feedback())
	}
	if result.Confidence() != 0 {
		t.Errorf("confidence = %v, want 0", result.Confidence())
	}
	if result.Raw() != "I think this is correct" {
		t.Errorf("raw = %q, want the reply verbatim", result.Raw())
	}
}

func TestGrade_MissingConfidenceYieldsZero(t *testing.T) {
	svc := New(&mockModel{reply: `{"score": 1, "feedback": "Correct"}`}, nil, zap.NewNop())

	result := svc.Grade(context.Background(), params())

	if result.Confidence() != 0 {
		t.Errorf("confidence = %v, want 0 when the model omits it", result.Confidence())
	}
	if result.Feedback() != "Correct" {
		t.Errorf("feedback = %q", result.Feedback())
	}
}

func TestGrade_ClampsOutOfRangeScores(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  float64
	}{
		{"negative", `{"score": -5, "feedback": "harsh"}`, 0},
		{"above one", `{"score": 99, "feedback": "generous"}`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockModel{reply: tt.reply}, nil, zap.NewNop())

			result := svc.Grade(context.Background(), params())

			if result.Score() != tt.want {
				t.Errorf("score = %v, want %v", result.Score(), tt.want)
			}
		})
	}
}

func TestGrade_DefaultMaxScore(t *testing.T) {
	svc := New(&mockModel{reply: `{"score": 0.5}`}, nil, zap.NewNop())

	p := params()
	p.MaxScore = 0
	result := svc.Grade(context.Background(), p)

	if result.Score() != 0.5 {
		t.Errorf("score = %v, want 0.5 with default max score", result.Score())
	}
}
