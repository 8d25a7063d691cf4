package engagement

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    scoresComputed = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "engagement_scores_computed_total",
            Help: "Total number of engagement score computations",
        },
    )

    scoreDistribution = promauto.NewHistogram(
        prometheus.HistogramOpts{
            Name:    "engagement_score_distribution",
            Help:    "Distribution of computed engagement scores",
            Buckets: prometheus.LinearBuckets(0, 10, 11),
        },
    )

    levelTransitions = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "engagement_level_transitions_total",
            Help: "Level changes between consecutive score computations",
        },
        []string{"from", "to"},
    )

    boostsGranted = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "engagement_boosts_granted_total",
            Help: "Total number of boosts granted",
        },
        []string{"boost_type"},
    )
)

func RecordScoreComputed(score float64) {
    scoresComputed.Inc()
    scoreDistribution.Observe(score)
}

func RecordLevelTransition(from, to string) {
    levelTransitions.WithLabelValues(from, to).Inc()
}

func RecordBoostGranted(boostType string) {
    boostsGranted.WithLabelValues(boostType).Inc()
}
