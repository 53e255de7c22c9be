package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons used as the "reason" label.
const (
	ReasonUnmatched   = "unmatched"
	ReasonOutOfRange  = "out_of_range"
	ReasonInvalidSize = "invalid_size"
)

// Metrics holds the counters of a single categorization run. Each run gets
// its own registry so the exported textfile only describes that run.
type Metrics struct {
	registry *prometheus.Registry

	// RecordsRead tracks rows read from the record source
	RecordsRead prometheus.Counter

	// RecordsDropped tracks records left out of the report per reason
	RecordsDropped *prometheus.CounterVec

	// RecordsClassified tracks records filed per category
	RecordsClassified *prometheus.CounterVec

	// RecordSize tracks the sizes of classified records
	RecordSize prometheus.Histogram

	// RunDuration tracks the wall time of the classification pass
	RunDuration prometheus.Gauge
}

// New creates the run metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsRead: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "categorize_records_read_total",
				Help: "Total number of records read from the input",
			},
		),
		RecordsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "categorize_records_dropped_total",
				Help: "Total number of records not counted in any category",
			},
			[]string{"reason"},
		),
		RecordsClassified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "categorize_records_classified_total",
				Help: "Total number of records classified per category",
			},
			[]string{"category"},
		),
		RecordSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "categorize_record_size",
				Help:    "Size of classified records",
				Buckets: prometheus.LinearBuckets(0, 10, 20),
			},
		),
		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "categorize_run_duration_seconds",
				Help: "Duration of the classification pass in seconds",
			},
		),
	}
}

// WriteTextfile writes the run metrics in the text exposition format, for
// the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
