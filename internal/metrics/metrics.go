package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ddadvisor"

// Advisor Prometheus metrics.
var (
	QuestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Questions answered, by the path that produced the answer",
		},
		[]string{"path"}, // primary / fallback / unanswered
	)

	FallbackAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_attempts_total",
			Help:      "Direct fallback tool invocations",
		},
		[]string{"tool", "result"}, // accepted / empty / error / missing
	)

	AgentSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_tool_steps",
			Help:      "Tool calls made by the language-model agent per question",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7},
		},
	)

	AgentErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_errors_total",
			Help:      "Primary agent calls that failed",
		},
	)

	LocalSearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "local_search_results",
			Help:      "Snippets returned per local search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		},
	)

	WebRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "web_requests_total",
			Help:      "Wiki HTTP requests by outcome",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Register registers all advisor metrics with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			QuestionsTotal,
			FallbackAttemptsTotal,
			AgentSteps,
			AgentErrorsTotal,
			LocalSearchResults,
			WebRequestsTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
