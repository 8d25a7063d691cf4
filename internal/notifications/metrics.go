package notifications

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    jobsScheduledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "notification_jobs_scheduled_total",
        Help: "Scheduled notification jobs by kind",
    }, []string{"kind"})

    jobsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
        Name: "notification_jobs_cancelled_total",
        Help: "Cancelled notification jobs",
    })

    jobsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "notification_jobs_dispatched_total",
        Help: "Dispatched notification jobs by kind and outcome",
    }, []string{"kind", "outcome"})
)

func recordScheduled(kind string) {
    jobsScheduledTotal.WithLabelValues(kind).Inc()
}

func recordCancelled() {
    jobsCancelledTotal.Inc()
}

func recordDispatched(kind, outcome string) {
    jobsDispatchedTotal.WithLabelValues(kind, outcome).Inc()
}
