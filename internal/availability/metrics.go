package availability

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    activationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "availability_activations_total",
        Help: "Availability mode activations by mode type",
    }, []string{"mode_type"})

    activationDurationHours = promauto.NewHistogram(prometheus.HistogramOpts{
        Name:    "availability_activation_duration_hours",
        Help:    "Requested duration of availability activations",
        Buckets: []float64{1, 4, 8, 12, 24, 48, 72},
    })

    refusalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "availability_refusals_total",
        Help: "Refused availability transitions by reason",
    }, []string{"reason"})

    deactivationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "availability_deactivations_total",
        Help: "Explicit early deactivations by mode type",
    }, []string{"mode_type"})

    sweptModesTotal = promauto.NewCounter(prometheus.CounterOpts{
        Name: "availability_swept_modes_total",
        Help: "Expired availability modes reconciled by the sweeper",
    })
)

func recordActivation(modeType string, durationHours int) {
    activationsTotal.WithLabelValues(modeType).Inc()
    activationDurationHours.Observe(float64(durationHours))
}

func recordRefusal(reason string) {
    refusalsTotal.WithLabelValues(reason).Inc()
}

func recordDeactivation(modeType string) {
    deactivationsTotal.WithLabelValues(modeType).Inc()
}

func recordSwept(count int64) {
    sweptModesTotal.Add(float64(count))
}
