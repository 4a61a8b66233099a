package metrics

import "github.com/prometheus/client_golang/prometheus"

// Conversational model Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "llm_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesisrec",
			Name:      "llm_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "llm_tokens_total",
			Help:      "Total chat completion tokens consumed",
		},
		[]string{"provider", "model", "type"}, // "prompt" / "completion"
	)

	LLMBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "thesisrec",
			Name:      "llm_budget_tokens_remaining",
			Help:      "Tokens left in the LLM budget period (-1 when unlimited)",
		},
		[]string{"provider", "period"}, // "daily" / "monthly"
	)

	LLMCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "llm_cache_total",
			Help:      "Completion cache lookups",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	LLMBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "thesisrec",
			Name:      "llm_breaker_state",
			Help:      "Provider circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"provider"},
	)

	LLMBreakerRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "llm_breaker_rejected_total",
			Help:      "Completions refused while the circuit was open",
		},
		[]string{"provider"},
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "llm_errors_total",
			Help:      "Total chat completion errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers conversational model metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(LLMErrorsTotal)
	prometheus.MustRegister(LLMBudgetTokensRemaining)
	prometheus.MustRegister(LLMCacheTotal)
	prometheus.MustRegister(LLMBreakerState)
	prometheus.MustRegister(LLMBreakerRejectedTotal)
	llmMetricsRegistered = true
}
