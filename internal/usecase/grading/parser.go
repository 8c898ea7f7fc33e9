package grading

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseOutcome labels how a model reply was turned into a grade.
type parseOutcome string

const (
	parseDirect    parseOutcome = "direct"    // reply was the JSON object
	parseExtracted parseOutcome = "extracted" // JSON object fished out of prose
	parseFailed    parseOutcome = "failed"
)

// parsedGrade is a raw grade as parsed, before clamping.
type parsedGrade struct {
	score      float64
	feedback   string
	confidence float64
}

// parseGradeReply extracts {score, feedback, confidence} from a model
// reply. Models wrap JSON in prose or code fences often enough that a
// failed direct parse retries on the outermost {...} substring.
func parseGradeReply(reply string) (parsedGrade, parseOutcome) {
	if g, ok := decodeGrade(reply); ok {
		return g, parseDirect
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		if g, ok := decodeGrade(reply[start : end+1]); ok {
			return g, parseExtracted
		}
	}

	return parsedGrade{}, parseFailed
}

// decodeGrade parses one candidate JSON object. The score must be present
// and numeric (numeric strings accepted); feedback and confidence are
// optional, but a feedback of the wrong type rejects the candidate.
func decodeGrade(candidate string) (parsedGrade, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &obj); err != nil {
		return parsedGrade{}, false
	}

	score, ok := toFloat(obj["score"])
	if !ok {
		return parsedGrade{}, false
	}

	// Confidence stays at zero unless the model supplies one.
	g := parsedGrade{score: score}

	if raw, present := obj["feedback"]; present {
		feedback, isString := raw.(string)
		if !isString {
			return parsedGrade{}, false
		}
		g.feedback = feedback
	}

	if confidence, ok := toFloat(obj["confidence"]); ok {
		g.confidence = confidence
	}

	return g, true
}

// toFloat accepts JSON numbers and numeric strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
