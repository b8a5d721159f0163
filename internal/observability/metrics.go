package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the dashboard service.
type Metrics struct {
	RecordsLoaded       prometheus.Gauge
	PipelineDuration    prometheus.Histogram
	PipelineSuperseded  prometheus.Counter
	ActiveSessions      prometheus.Gauge
	ImportRows          *prometheus.CounterVec // labels: outcome={added,duplicate,skipped,error}
	StreamSubscriptions prometheus.Gauge
}

// NewMetrics creates and registers all collectors with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.PipelineDuration,
		m.PipelineSuperseded,
		m.ActiveSessions,
		m.ImportRows,
		m.StreamSubscriptions,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_dashboard",
			Name:      "records_loaded",
			Help:      "Number of disaster records held in the record store.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_dashboard",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of one filter and aggregation cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		PipelineSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_dashboard",
			Name:      "pipeline_superseded_total",
			Help:      "Computations discarded because a newer criteria change arrived.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_dashboard",
			Name:      "active_sessions",
			Help:      "Sessions currently tracked by this instance.",
		}),
		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_dashboard",
			Name:      "import_rows_total",
			Help:      "Ingested rows by outcome.",
		}, []string{"outcome"}),
		StreamSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_dashboard",
			Name:      "stream_subscriptions",
			Help:      "Open server-sent event streams.",
		}),
	}
}
