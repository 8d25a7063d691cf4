package discovery

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    rankingsTotal = promauto.NewCounter(prometheus.CounterOpts{
        Name: "discovery_rankings_total",
        Help: "Discovery ranking requests served",
    })

    rankingListSize = promauto.NewHistogram(prometheus.HistogramOpts{
        Name:    "discovery_ranking_list_size",
        Help:    "Number of candidates returned per ranking request",
        Buckets: []float64{0, 5, 10, 25, 50, 100},
    })
)

func recordRanking(size int) {
    rankingsTotal.Inc()
    rankingListSize.Observe(float64(size))
}
