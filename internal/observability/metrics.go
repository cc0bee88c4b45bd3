package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ingest result labels.
const (
	IngestAccepted  = "accepted"
	IngestDuplicate = "duplicate"
	IngestError     = "error"
)

// Finalization outcome labels.
const (
	FinalizeApplied = "applied"
	FinalizeNoop    = "noop"
	FinalizeError   = "error"
)

// Metrics bundles the Prometheus collectors exposed by the service.
type Metrics struct {
	ingestTotal       *prometheus.CounterVec
	finalizeTotal     *prometheus.CounterVec
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics constructs and registers the service collectors on the
// provided registerer. Pass prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_transactions_ingested_total",
			Help: "Total webhook ingestion attempts by result.",
		}, []string{"result"}),
		finalizeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transaction_finalizations_total",
			Help: "Total finalization attempts by outcome.",
		}, []string{"outcome"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.ingestTotal,
		m.finalizeTotal,
		m.httpRequestsTotal,
		m.httpDuration,
	)

	return m
}

// ObserveIngest records one ingestion attempt.
func (m *Metrics) ObserveIngest(result string) {
	if m == nil {
		return
	}
	m.ingestTotal.WithLabelValues(result).Inc()
}

// ObserveFinalize records one finalization attempt.
func (m *Metrics) ObserveFinalize(outcome string) {
	if m == nil {
		return
	}
	m.finalizeTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records a completed HTTP request.
func (m *Metrics) ObserveHTTP(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(seconds)
}
