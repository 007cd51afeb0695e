package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// collection run.
type Metrics struct {
	WindowsFetched  prometheus.Counter
	RowsWritten     prometheus.Counter
	StationOutcomes *prometheus.CounterVec // labels: outcome={success,error}
	RunActive       prometheus.Gauge

	FetchDuration   prometheus.Histogram
	StationDuration prometheus.Histogram
}

// NewMetrics creates and registers all collector metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		WindowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tide_collector",
			Name:      "windows_fetched_total",
			Help:      "Total month windows fetched from the CO-OPS API.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tide_collector",
			Name:      "rows_written_total",
			Help:      "Total data rows appended to station output files.",
		}),
		StationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tide_collector",
			Name:      "station_outcomes_total",
			Help:      "Per-station collection outcomes by result.",
		}, []string{"outcome"}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tide_collector",
			Name:      "run_active",
			Help:      "1 while a collection run is in progress.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tide_collector",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single window fetch.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tide_collector",
			Name:      "station_duration_seconds",
			Help:      "Duration of a complete per-station collection.",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 300, 900},
		}),
	}

	prometheus.MustRegister(
		m.WindowsFetched,
		m.RowsWritten,
		m.StationOutcomes,
		m.RunActive,
		m.FetchDuration,
		m.StationDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		WindowsFetched:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tide_collector", Name: "windows_fetched_total"}),
		RowsWritten:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tide_collector", Name: "rows_written_total"}),
		StationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tide_collector", Name: "station_outcomes_total"}, []string{"outcome"}),
		RunActive:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tide_collector", Name: "run_active"}),
		FetchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tide_collector", Name: "fetch_duration_seconds"}),
		StationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tide_collector", Name: "station_duration_seconds"}),
	}
}
