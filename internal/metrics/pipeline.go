package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics: generation calls, fallbacks, grade parsing.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutorrag",
			Name:      "generation_requests_total",
			Help:      "Total number of generative model invocations",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tutorrag",
			Name:      "generation_request_duration_seconds",
			Help:      "Generative model invocation duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	GenerationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutorrag",
			Name:      "generation_fallbacks_total",
			Help:      "Responses served from the extractive fallback",
		},
		[]string{"reason"}, // "not_configured" / "model_error"
	)

	GradeParseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutorrag",
			Name:      "grade_parse_total",
			Help:      "Grading responses by parse outcome",
		},
		[]string{"outcome"}, // "direct" / "extracted" / "failed"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationFallbacksTotal)
	prometheus.MustRegister(GradeParseTotal)
	pipelineMetricsRegistered = true
}
