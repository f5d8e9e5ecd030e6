package gateway

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the grower-facing API.
type Metrics struct {
	Requests        *prometheus.CounterVec // labels: route, code
	RequestDuration *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec // labels: upstream
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irrigation",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "irrigation",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "API request duration.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irrigation",
			Subsystem: "gateway",
			Name:      "upstream_errors_total",
			Help:      "Failed upstream calls, after the circuit breaker.",
		}, []string{"upstream"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.RequestDuration, m.UpstreamErrors)
	}
	return m
}
