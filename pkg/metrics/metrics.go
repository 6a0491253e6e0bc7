package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	salesSubmitted  *prometheus.CounterVec
	cashoutsClosed  *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		salesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_submitted_total",
			Help: "Sales accepted by the upstream API, by payment method.",
		}, []string{"payment_method"}),
		cashoutsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_cashouts_closed_total",
			Help: "Daily box closures saved, by variance status.",
		}, []string{"status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_upstream_request_duration_seconds",
			Help:    "Latency of calls to the upstream API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(m.salesSubmitted, m.cashoutsClosed, m.upstreamLatency)
	return m
}

func (m *Metrics) SaleSubmitted(paymentMethod string) {
	if m == nil {
		return
	}
	m.salesSubmitted.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) CashoutClosed(status string) {
	if m == nil {
		return
	}
	m.cashoutsClosed.WithLabelValues(status).Inc()
}

// ObserveUpstream records one upstream call. outcome is "ok", "rejected" or "error".
func (m *Metrics) ObserveUpstream(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}
