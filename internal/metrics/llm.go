package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat-completion Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copilot",
			Name:      "llm_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "copilot",
			Name:      "llm_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "copilot",
			Name:      "llm_tokens_total",
			Help:      "Total chat completion tokens consumed",
		},
		[]string{"model", "type"}, // "prompt" / "completion"
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers Prometheus chat-completion metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	llmMetricsRegistered = true
}
