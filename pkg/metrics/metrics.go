package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ranking directions.
const (
	DirectionJobs       = "jobs"
	DirectionApplicants = "applicants"
)

var (
	RankingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_ranking_runs_total",
			Help: "Total number of ranking runs by direction and outcome",
		},
		[]string{"direction", "outcome"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_ranking_duration_seconds",
			Help:    "Duration of a ranking run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"direction"},
	)

	RankingCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_ranking_candidates",
			Help:    "Number of subjects scored per ranking run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"direction"},
	)

	RankingReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_ranking_returned",
			Help:    "Number of subjects returned per ranking run",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
		[]string{"direction"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"backend"},
	)
)

// Ranking outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// ObserveRanking records a finished ranking run.
func ObserveRanking(direction string, scored, returned int, elapsed time.Duration) {
	outcome := OutcomeOK
	if returned == 0 {
		outcome = OutcomeEmpty
	}
	RankingRuns.WithLabelValues(direction, outcome).Inc()
	RankingDuration.WithLabelValues(direction).Observe(elapsed.Seconds())
	RankingCandidates.WithLabelValues(direction).Observe(float64(scored))
	RankingReturned.WithLabelValues(direction).Observe(float64(returned))
}

// ObserveRankingError records a run that failed before ranking.
func ObserveRankingError(direction string) {
	RankingRuns.WithLabelValues(direction, OutcomeError).Inc()
}

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
