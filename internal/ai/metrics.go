// internal/ai/metrics.go
// Prometheus metrics for model calls

package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	semanticBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiezswap_semantic_batches_total",
		Help: "Semantic scoring batches by outcome",
	}, []string{"outcome"})

	modelCallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiezswap_model_call_duration_seconds",
		Help:    "Latency of chat completion calls",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 45},
	})
)
