package generation

import (
	"strings"

	"github.com/kailas-cloud/tutorrag/internal/domain/document"
	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
)

// Per-item truncation limits, in runes. Materials carry the explanation so
// they get more room than reference Q&A pairs.
const (
	materialExcerptLimit = 500
	questionExcerptLimit = 200
)

// FormatContext renders a retrieved context as prompt text. Sections appear
// only when non-empty, materials first, each item in retrieval order
// (closest first). An empty context renders as an empty string.
func FormatContext(rctx retrieval.Context) string {
	var parts []string

	if materials := rctx.Materials(); len(materials) > 0 {
		parts = append(parts, "=== STUDY MATERIALS ===")
		for i := range materials {
			m := &materials[i]
			topic := m.Meta(document.MetaTopic, "General")
			parts = append(parts, "Topic: "+topic+"\n"+truncateRunes(m.Content(), materialExcerptLimit))
		}
	}

	if questions := rctx.ReferenceQuestions(); len(questions) > 0 {
		parts = append(parts, "=== REFERENCE QUESTIONS & ANSWERS ===")
		for i := range questions {
			q := &questions[i]
			parts = append(parts, truncateRunes(q.Content(), questionExcerptLimit))
		}
	}

	return strings.Join(parts, "\n\n")
}

// truncateRunes cuts s to at most limit runes, marking the cut with an
// ellipsis. Text at or under the limit passes through unchanged.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
