package rhythm

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    computations = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "rhythm_computations_total",
            Help: "Total number of rhythm score computations by outcome",
        },
        []string{"status", "trend"},
    )

    scoreDistribution = promauto.NewHistogram(
        prometheus.HistogramOpts{
            Name:    "rhythm_score_distribution",
            Help:    "Distribution of computed rhythm scores",
            Buckets: prometheus.LinearBuckets(0, 10, 11),
        },
    )
)

func RecordComputation(status, trend string, score float64) {
    computations.WithLabelValues(status, trend).Inc()
    if status == string(StatusReady) {
        scoreDistribution.Observe(score)
    }
}
