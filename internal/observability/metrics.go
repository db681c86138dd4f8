package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors describing an analysis run.
type Metrics struct {
	ObservationsLoaded prometheus.Gauge
	ClimatologyMonths  prometheus.Gauge
	ChartsRendered     prometheus.Counter
	ChartsSkipped      prometheus.Counter
	ChartErrors        prometheus.Counter
	LastRunSuccess     prometheus.Gauge

	// Latest-month results.
	LatestPrecipMM     prometheus.Gauge
	LatestDeviationPct prometheus.Gauge
	LatestDeviationInf prometheus.Gauge

	StageDuration *prometheus.HistogramVec // labels: stage={load,aggregate,render,publish}
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	return m, reg
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_climatology",
			Name:      "observations_loaded",
			Help:      "Monthly observations read from the input series.",
		}),
		ClimatologyMonths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_climatology",
			Name:      "climatology_months",
			Help:      "Calendar months with reference-window data.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_climatology",
			Name:      "charts_rendered_total",
			Help:      "Charts written to the output folder.",
		}),
		ChartsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_climatology",
			Name:      "charts_skipped_total",
			Help:      "Charts skipped for lack of data.",
		}),
		ChartErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_climatology",
			Name:      "chart_errors_total",
			Help:      "Chart rendering failures.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_climatology",
			Name:      "last_run_success",
			Help:      "1 when the last run completed without error, 0 otherwise.",
		}),
		LatestPrecipMM: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_climatology",
			Name:      "latest_precipitation_mm",
			Help:      "Precipitation of the most recent month.",
		}),
		LatestDeviationPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_climatology",
			Name:      "latest_deviation_percent",
			Help:      "Percent deviation of the most recent month from its climatological mean.",
		}),
		LatestDeviationInf: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_climatology",
			Name:      "latest_deviation_infinite",
			Help:      "1 when the most recent month's climatological mean is zero and the observation positive.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "precip_climatology",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ObservationsLoaded,
		m.ClimatologyMonths,
		m.ChartsRendered,
		m.ChartsSkipped,
		m.ChartErrors,
		m.LastRunSuccess,
		m.LatestPrecipMM,
		m.LatestDeviationPct,
		m.LatestDeviationInf,
		m.StageDuration,
	}
}

// WriteTextfile writes the gatherer's metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
