// Package metrics exports run statistics in the Prometheus text format. The
// CLI runs once and exits, so metrics go to a textfile for node_exporter's
// textfile collector rather than to an HTTP endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gauges of one eval run on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	BarsLoaded   prometheus.Gauge
	EvalDuration prometheus.Gauge
	Evaluations  *prometheus.GaugeVec // labels: indicator
	Warmup       *prometheus.GaugeVec // labels: indicator
}

// New registers every gauge with a fresh registry, labelled with the series
// name and number backend.
func New(series, backend string) *Metrics {
	labels := prometheus.Labels{"series": series, "backend": backend}
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		BarsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ohlcv_bars_loaded",
			Help:        "Bars held by the series after loading",
			ConstLabels: labels,
		}),
		EvalDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ohlcv_eval_duration_seconds",
			Help:        "Wall time spent evaluating the indicator graph",
			ConstLabels: labels,
		}),
		Evaluations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "ohlcv_indicator_evaluations",
			Help:        "Formula runs per indicator node, cache hits excluded",
			ConstLabels: labels,
		}, []string{"indicator"}),
		Warmup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "ohlcv_indicator_warmup_bars",
			Help:        "Bars before an indicator node is stable",
			ConstLabels: labels,
		}, []string{"indicator"}),
	}
	m.reg.MustRegister(m.BarsLoaded, m.EvalDuration, m.Evaluations, m.Warmup)
	return m
}

// Node is the part of an indicator the exporter reads. Warmup() int and
// Evaluations() int are reported when a node has them.
type Node interface {
	Name() string
}

// ObserveNodes sets the per-indicator gauges.
func (m *Metrics) ObserveNodes(nodes ...Node) {
	for _, n := range nodes {
		if w, ok := n.(interface{ Warmup() int }); ok {
			m.Warmup.WithLabelValues(n.Name()).Set(float64(w.Warmup()))
		}
		if c, ok := n.(interface{ Evaluations() int }); ok {
			m.Evaluations.WithLabelValues(n.Name()).Set(float64(c.Evaluations()))
		}
	}
}

func (m *Metrics) ObserveDuration(d time.Duration) {
	m.EvalDuration.Set(d.Seconds())
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }

// WriteFile writes every metric to path atomically.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
