// internal/matching/metrics.go
// Prometheus metrics for the match pipeline

package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiezswap_match_requests_total",
		Help: "Total number of match requests by outcome",
	}, []string{"outcome"})

	matchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiezswap_match_duration_seconds",
		Help:    "End-to-end duration of match requests",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	matchResultsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiezswap_match_results_returned",
		Help:    "Number of results returned per match request",
		Buckets: []float64{0, 1, 5, 10, 20, 50},
	})

	matchCombinedScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiezswap_match_combined_score",
		Help:    "Distribution of combined scores before threshold filtering",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})
)
