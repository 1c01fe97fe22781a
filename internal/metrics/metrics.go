// Package metrics expone contadores Prometheus del pipeline de recomendacion.
//
// Uso:
//
//	metrics.RecommendationRequests.WithLabelValues("cache_hit").Inc()
//	metrics.ObserveMatch("programs", diag)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"school-advisor/internal/domain"
)

var (
	// RecommendationRequests cuenta requests por resultado:
	// cache_hit, generated, no_catalog, generation_failed, rate_limited, anonymous.
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_recommendation_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// PersistConflicts cuenta escrituras que perdieron contra otro writer.
	PersistConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_recommendation_persist_conflicts_total",
			Help: "Recommendation writes skipped because the (user, code) row already existed",
		},
	)

	// MatchTitlesRequested y MatchTitlesMatched permiten graficar el faltante de matching.
	MatchTitlesRequested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_match_titles_requested_total",
			Help: "Titles returned by the generative step, by pipeline",
		},
		[]string{"pipeline"},
	)
	MatchTitlesMatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_match_titles_matched_total",
			Help: "Titles reconciled against the canonical catalog, by pipeline",
		},
		[]string{"pipeline"},
	)

	// GenerationDuration mide la latencia del paso generativo.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_generation_duration_seconds",
			Help:    "Duration of generative calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"pipeline", "status"},
	)

	// HTTPRequestDuration mide cada request por ruta (template, no path crudo).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status class",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// BreakerState refleja el estado del circuit breaker (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "advisor_llm_breaker_state",
			Help: "Circuit breaker state for the generative client",
		},
		[]string{"name"},
	)
)

// ObserveMatch registra los contadores de un paso de matching.
func ObserveMatch(pipeline string, diag domain.MatchDiagnostics) {
	MatchTitlesRequested.WithLabelValues(pipeline).Add(float64(diag.Requested))
	MatchTitlesMatched.WithLabelValues(pipeline).Add(float64(diag.Matched))
}
