package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_events_processed_total",
			Help: "Total number of moderated events by final outcome (count)",
		},
		[]string{"outcome"},
	)

	ModerationProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_processing_duration_ms",
			Help:    "End-to-end pipeline duration per event in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"status"},
	)

	RuleVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_rule_verdicts_total",
			Help: "Total number of rule evaluations by rule and result (count)",
		},
		[]string{"rule", "result"},
	)

	IntakeMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_intake_messages_total",
			Help: "Total number of inbound queue messages by intake status (count)",
		},
		[]string{"status"},
	)

	ResultPublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_result_publish_total",
			Help: "Total number of approved-result publish attempts (count)",
		},
		[]string{"status"},
	)

	EnrichmentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Total number of enrichment fetches by final status (count)",
		},
		[]string{"status"},
	)

	EnrichmentRetryAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_retry_attempts_total",
			Help: "Total number of retried enrichment attempts (count)",
		},
	)

	EnrichmentAttemptDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_attempt_duration_ms",
			Help:    "Duration of individual enrichment HTTP attempts in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"status"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_requests_total",
			Help: "Total number of API requests by rate limiter decision (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breakers (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failed requests through circuit breakers (count)",
		},
		[]string{"name"},
	)
)

func RegisterModerationMetrics() {
	prometheus.MustRegister(
		EventsProcessedTotal,
		ModerationProcessingDuration,
		RuleVerdictsTotal,
		IntakeMessagesTotal,
		ResultPublishTotal,
	)
}

func RegisterEnrichmentMetrics() {
	prometheus.MustRegister(
		EnrichmentRequestsTotal,
		EnrichmentRetryAttemptsTotal,
		EnrichmentAttemptDuration,
	)
}

func RegisterAPIMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerFailures,
	)
}

func ObserveModerationDuration(d time.Duration, status string) {
	ModerationProcessingDuration.WithLabelValues(status).Observe(float64(d.Milliseconds()))
}

func ObserveEnrichmentAttempt(d time.Duration, status string) {
	EnrichmentAttemptDuration.WithLabelValues(status).Observe(float64(d.Milliseconds()))
}
