package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the dashboard's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	StoreQueries  *prometheus.CounterVec
	StoreLatency  *prometheus.HistogramVec
	RowsFetched   *prometheus.CounterVec
	SignInResults *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		StoreQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_queries_total",
				Help: "Queries issued against the table store",
			},
			[]string{"table", "outcome"},
		),
		StoreLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_query_duration_seconds",
				Help:    "Latency of table store queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table"},
		),
		RowsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_rows_fetched_total",
				Help: "Rows accumulated by full-table fetches",
			},
			[]string{"table"},
		),
		SignInResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_sign_in_total",
				Help: "Dashboard sign-in attempts by outcome",
			},
			[]string{"outcome"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.StoreQueries, m.StoreLatency, m.RowsFetched, m.SignInResults)
	return m
}

func (m *Metrics) ObserveQuery(table, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.StoreQueries.WithLabelValues(table, outcome).Inc()
	m.StoreLatency.WithLabelValues(table).Observe(seconds)
}

func (m *Metrics) AddRows(table string, n int) {
	if m == nil {
		return
	}
	m.RowsFetched.WithLabelValues(table).Add(float64(n))
}

func (m *Metrics) SignIn(outcome string) {
	if m == nil {
		return
	}
	m.SignInResults.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
