package grade

// Result is the outcome of grading one student answer. Score is in
// [0, maxScore], confidence in [0, 1]. Raw always carries the untouched
// model output for audit regardless of parse outcome.
type Result struct {
	score      float64
	feedback   string
	confidence float64
	raw        string
}

// New creates a grade result from a normalized score in [0, 1], scaling it
// by maxScore. Score and confidence are clamped at construction so the
// range invariants hold no matter what the model returned.
func New(score, confidence float64, feedback, raw string, maxScore float64) Result {
	if maxScore <= 0 {
		maxScore = 1.0
	}
	return Result{
		score:      clamp01(score) * maxScore,
		feedback:   feedback,
		confidence: clamp01(confidence),
		raw:        raw,
	}
}

// Score returns the scaled score in [0, maxScore].
func (r *Result) Score() float64 { return r.score }

// Feedback returns the model feedback, possibly empty.
func (r *Result) Feedback() string { return r.feedback }

// Confidence returns the model confidence in [0, 1].
func (r *Result) Confidence() float64 { return r.confidence }

// Raw returns the verbatim model output.
func (r *Result) Raw() string { return r.raw }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
