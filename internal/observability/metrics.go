package observability

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for a single fcnpost run.
type Metrics struct {
	Registry *prometheus.Registry

	FilesProcessed     *prometheus.CounterVec   // labels: command
	RunDuration        *prometheus.HistogramVec // labels: command
	EdgeCells          prometheus.Gauge
	ValuesDenormalized prometheus.Counter
	RecordsExported    prometheus.Counter
	ExportErrors       prometheus.Counter
}

// NewMetrics creates all collectors on a private registry. The tool is a
// batch job, so nothing is served; see WriteTextfile.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fcnpost",
			Name:      "files_processed_total",
			Help:      "Output files written, by subcommand.",
		}, []string{"command"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fcnpost",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a subcommand run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		}, []string{"command"}),
		EdgeCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fcnpost",
			Name:      "edge_cells",
			Help:      "Number of land/sea boundary cells in the last edge mask.",
		}),
		ValuesDenormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fcnpost",
			Name:      "values_denormalized_total",
			Help:      "Forecast values converted back to physical units.",
		}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fcnpost",
			Name:      "records_exported_total",
			Help:      "Forecast records sent to the export sink.",
		}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fcnpost",
			Name:      "export_errors_total",
			Help:      "Failed export batches.",
		}),
	}

	m.Registry.MustRegister(
		m.FilesProcessed,
		m.RunDuration,
		m.EdgeCells,
		m.ValuesDenormalized,
		m.RecordsExported,
		m.ExportErrors,
	)

	return m
}

// WriteTextfile dumps the registry in the node-exporter textfile format. An
// empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.Registry), "write metrics to %s", path)
}
