package grading

import "testing"

func TestParseGradeReply_DirectJSON(t *testing.T) {
	g, outcome := parseGradeReply(`{"score": 0.85, "feedback": "Good answer", "confidence": 0.9}`)

	if outcome != parseDirect {
		t.Fatalf("outcome = %s, want direct", outcome)
	}
	if g.score != 0.85 {
		t.Errorf("score = %v, want 0.85", g.score)
	}
	if g.feedback != "Good answer" {
		t.Errorf("feedback = %q", g.feedback)
	}
	if g.confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", g.confidence)
	}
}

func TestParseGradeReply_JSONInProse(t *testing.T) {
	reply := "Here is my evaluation:\n```json\n" +
		`{"score": 0.5, "feedback": "Partially correct", "confidence": 0.7}` +
		"\n```\nLet me know if you need more detail."

	g, outcome := parseGradeReply(reply)

	if outcome != parseExtracted {
		t.Fatalf("outcome = %s, want extracted", outcome)
	}
	if g.score != 0.5 {
		t.Errorf("score = %v, want 0.5", g.score)
	}
}

func TestParseGradeReply_NumericStringScore(t *testing.T) {
	g, outcome := parseGradeReply(`{"score": "0.75", "feedback": "ok"}`)

	if outcome != parseDirect {
		t.Fatalf("outcome = %s, want direct", outcome)
	}
	if g.score != 0.75 {
		t.Errorf("score = %v, want 0.75", g.score)
	}
}

func TestParseGradeReply_MissingConfidenceDefaultsToZero(t *testing.T) {
	g, outcome := parseGradeReply(`{"score": 1, "feedback": "Perfect"}`)

	if outcome != parseDirect {
		t.Fatalf("outcome = %s, want direct", outcome)
	}
	if g.confidence != 0 {
		t.Errorf("confidence = %v, want 0", g.confidence)
	}
}

func TestParseGradeReply_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"empty reply", ""},
		{"plain prose", "The student did quite well overall."},
		{"missing score", `{"feedback": "Nice"}`},
		{"non-numeric score", `{"score": "abc", "feedback": "Nice"}`},
		{"boolean score", `{"score": true}`},
		{"non-string feedback", `{"score": 0.5, "feedback": 42}`},
		{"truncated json", `{"score": 0.5, "feedb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, outcome := parseGradeReply(tt.reply); outcome != parseFailed {
				t.Errorf("outcome = %s, want failed", outcome)
			}
		})
	}
}

func TestParseGradeReply_OutOfRangeScoresPassThrough(t *testing.T) {
	// Clamping happens at grade construction, not in the parser.
	g, outcome := parseGradeReply(`{"score": 99, "feedback": "way too generous"}`)

	if outcome != parseDirect {
		t.Fatalf("outcome = %s, want direct", outcome)
	}
	if g.score != 99 {
		t.Errorf("score = %v, want raw 99", g.score)
	}
}
