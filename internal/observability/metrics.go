package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	SheetFetches   *prometheus.CounterVec // labels: sheet, outcome={ok,fallback,empty}
	FetchRetries   prometheus.Counter
	RowsParsed     prometheus.Counter
	RowsSkipped    prometheus.Counter
	Warnings       prometheus.Counter
	IngestRuns     *prometheus.CounterVec // labels: status={ok,degraded,failed}
	IngestDegraded prometheus.Gauge
	IncidentCount  prometheus.Gauge
	IngestDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SheetFetches,
		m.FetchRetries,
		m.RowsParsed,
		m.RowsSkipped,
		m.Warnings,
		m.IngestRuns,
		m.IngestDegraded,
		m.IncidentCount,
		m.IngestDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SheetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_ingest",
			Name:      "sheet_fetches_total",
			Help:      "Sheet fetch attempts by sheet key and outcome.",
		}, []string{"sheet", "outcome"}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crime_ingest",
			Name:      "fetch_retries_total",
			Help:      "Total HTTP fetch retries across all sheets.",
		}),
		RowsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crime_ingest",
			Name:      "rows_parsed_total",
			Help:      "Total rows normalized into incidents.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crime_ingest",
			Name:      "rows_skipped_total",
			Help:      "Total rows rejected during normalization.",
		}),
		Warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crime_ingest",
			Name:      "validation_warnings_total",
			Help:      "Total validation warnings across all sheets.",
		}),
		IngestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_ingest",
			Name:      "runs_total",
			Help:      "Ingestion runs by final status.",
		}, []string{"status"}),
		IngestDegraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crime_ingest",
			Name:      "degraded",
			Help:      "1 when the latest run served stale cached data, 0 otherwise.",
		}),
		IncidentCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crime_ingest",
			Name:      "incidents",
			Help:      "Incidents in the latest published dataset.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crime_ingest",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-validate-aggregate run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}
