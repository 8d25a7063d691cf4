package comfort

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var levelsSet = promauto.NewCounterVec(
    prometheus.CounterOpts{
        Name: "comfort_levels_set_total",
        Help: "Total number of comfort level declarations",
    },
    []string{"level"},
)

func RecordLevelSet(level string) {
    levelsSet.WithLabelValues(level).Inc()
}
