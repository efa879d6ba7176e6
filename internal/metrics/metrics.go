// Package metrics defines Prometheus metrics for product-scout.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pscout"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Health gauges.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last liveness probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last readiness probe succeeded, 0 otherwise.",
	})
)

// Scoring metrics.
var (
	ScoredProductsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scored_products_total",
		Help:      "Total number of products run through the scoring engine.",
	})

	QualifiedProductsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qualified_products_total",
		Help:      "Total number of products that passed the threshold gate.",
	})

	FinalScoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "final_score_distribution",
		Help:      "Distribution of final scores for qualified products.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11), // 0.0, 0.1, ..., 1.0
	})
)

// AI ranking metrics.
var (
	RankDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rank_duration_seconds",
		Help:      "Duration of AI ranking calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	RankFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rank_failures_total",
		Help:      "Total number of failed AI ranking calls.",
	})

	RankTokensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rank_tokens_total",
		Help:      "Total LLM tokens consumed by ranking calls.",
	})
)

// Persistence metrics.
var (
	EvaluationsStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluations_stored_total",
		Help:      "Total number of evaluations persisted.",
	})

	EvaluationsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluations_purged_total",
		Help:      "Total number of evaluations removed by retention purges.",
	})
)

// Tiki client metrics.
var (
	TikiAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tiki_api_calls_total",
		Help:      "Total Tiki catalog API calls.",
	})

	TikiAPIErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tiki_api_errors_total",
		Help:      "Total Tiki catalog API errors.",
	})
)
