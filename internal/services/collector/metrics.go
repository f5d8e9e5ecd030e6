package collector

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what the collector consumes and emits.
type Metrics struct {
	ReadingsConsumed *prometheus.CounterVec // labels: kind={weather,ndvi}
	ReadingsRejected *prometheus.CounterVec // labels: kind, field
	BatchesPublished prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReadingsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irrigation",
			Subsystem: "collector",
			Name:      "readings_consumed_total",
			Help:      "Raw readings received from the bus.",
		}, []string{"kind"}),
		ReadingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irrigation",
			Subsystem: "collector",
			Name:      "readings_rejected_total",
			Help:      "Raw readings that failed validation, by offending field.",
		}, []string{"kind", "field"}),
		BatchesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irrigation",
			Subsystem: "collector",
			Name:      "batches_published_total",
			Help:      "Daily aggregates published to the bus.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ReadingsConsumed, m.ReadingsRejected, m.BatchesPublished)
	}
	return m
}
