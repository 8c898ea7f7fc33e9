package grading

import (
	"strings"

	"github.com/kailas-cloud/tutorrag/internal/domain/retrieval"
)

// contextExcerptLimit bounds each study excerpt in the grading prompt; the
// grader needs less grounding text than the answer generator.
const contextExcerptLimit = 300

// formatStudyContext renders retrieved materials as grading grounding.
// Reference questions are skipped: the graded question comes from the
// caller, not the corpus.
func formatStudyContext(rctx retrieval.Context) string {
	materials := rctx.Materials()
	if len(materials) == 0 {
		return ""
	}

	parts := make([]string, 0, len(materials))
	for i := range materials {
		content := materials[i].Content()
		runes := []rune(content)
		if len(runes) > contextExcerptLimit {
			content = string(runes[:contextExcerptLimit]) + "..."
		}
		parts = append(parts, content)
	}

	return strings.Join(parts, "\n\n")
}
