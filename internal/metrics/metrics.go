// Package metrics holds the Prometheus collectors of the settlement server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	Registry *prometheus.Registry

	rpcDuration   *prometheus.HistogramVec
	rpcTotal      *prometheus.CounterVec
	plans         prometheus.Counter
	planTransfers prometheus.Histogram
	transitions   *prometheus.CounterVec
	rateTable     *prometheus.GaugeVec
}

// New creates a dedicated registry and registers every collector in it, so
// it can be called more than once (e.g. in tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settleup_rpc_duration_seconds",
				Help:    "Duration of RPCs by procedure.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"procedure"},
		),
		rpcTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleup_rpc_total",
				Help: "Total RPCs by procedure and result code.",
			},
			[]string{"procedure", "code"},
		),
		plans: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settleup_plans_generated_total",
				Help: "Total settlement plans computed.",
			},
		),
		planTransfers: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "settleup_plan_transfers",
				Help:    "Number of suggested transfers per plan.",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleup_settlement_transitions_total",
				Help: "Settlement records entering each status.",
			},
			[]string{"status"},
		),
		rateTable: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "settleup_currency_rates",
				Help: "Number of currencies in the active rate table, by source.",
			},
			[]string{"source"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveRPC records one finished RPC. code is "ok" or a connect error code.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
	m.rpcTotal.WithLabelValues(procedure, code).Inc()
}

// PlanGenerated records a computed plan and its transfer count.
func (m *Metrics) PlanGenerated(transfers int) {
	if m == nil {
		return
	}
	m.plans.Inc()
	m.planTransfers.Observe(float64(transfers))
}

// Transition counts a settlement entering status.
func (m *Metrics) Transition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

// RatesLoaded records the size of the rate table in use.
func (m *Metrics) RatesLoaded(source string, n int) {
	if m == nil {
		return
	}
	m.rateTable.Reset()
	m.rateTable.WithLabelValues(source).Set(float64(n))
}
