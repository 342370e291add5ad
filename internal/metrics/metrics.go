package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "musicsales"

// Metrics holds the dashboard collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	renders      *prometheus.CounterVec
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	viewRows     *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render passes by artifact (page, chart, api).",
		}, []string{"artifact"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by outcome.",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent loading and filtering the dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		viewRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "view_rows",
			Help:      "Rows in each derived view after the last render pass.",
		}, []string{"view"}),
	}
	m.registry.MustRegister(
		m.renders, m.loads, m.loadDuration, m.viewRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRender(artifact string) {
	m.renders.WithLabelValues(artifact).Inc()
}

// ObserveLoad records one load attempt.
func (m *Metrics) ObserveLoad(took time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.loads.WithLabelValues(outcome).Inc()
	m.loadDuration.Observe(took.Seconds())
}

func (m *Metrics) SetViewRows(view string, n int) {
	m.viewRows.WithLabelValues(view).Set(float64(n))
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
