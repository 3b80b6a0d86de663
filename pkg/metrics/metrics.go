// Package metrics keeps per-session Prometheus metrics on a private registry
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Import line outcomes
const (
	OutcomeImported  = "imported"
	OutcomeDuplicate = "duplicate"
	OutcomeHeader    = "header"
	OutcomeMalformed = "malformed"
)

// Metrics holds all Prometheus metrics for a session
type Metrics struct {
	registry *prometheus.Registry

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	records         prometheus.Gauge
	importLines     *prometheus.CounterVec
	fileOperations  *prometheus.CounterVec
	bytesWritten    prometheus.Counter
}

// NewMetrics creates and registers all metrics on a new registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classdb_commands_total",
				Help: "Total number of commands executed",
			},
			[]string{"command", "status"},
		),

		commandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "classdb_command_duration_seconds",
				Help:    "Command duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		records: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "classdb_records",
				Help: "Number of records in the table",
			},
		),

		importLines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classdb_import_lines_total",
				Help: "Imported input lines by outcome",
			},
			[]string{"outcome"},
		),

		fileOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classdb_file_operations_total",
				Help: "Total number of file operations",
			},
			[]string{"operation", "status"},
		),

		bytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "classdb_bytes_written_total",
				Help: "Bytes written to files",
			},
		),
	}
}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCommand records an executed command
func (m *Metrics) RecordCommand(command string, success bool, duration time.Duration) {
	m.commandsTotal.WithLabelValues(command, status(success)).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// SetRecords updates the record count
func (m *Metrics) SetRecords(n int) {
	m.records.Set(float64(n))
}

// RecordImport adds the line outcomes of one import
func (m *Metrics) RecordImport(imported, duplicates, headers, malformed int) {
	m.importLines.WithLabelValues(OutcomeImported).Add(float64(imported))
	m.importLines.WithLabelValues(OutcomeDuplicate).Add(float64(duplicates))
	m.importLines.WithLabelValues(OutcomeHeader).Add(float64(headers))
	m.importLines.WithLabelValues(OutcomeMalformed).Add(float64(malformed))
}

// RecordFileOperation records a read or write of a file
func (m *Metrics) RecordFileOperation(operation string, success bool, written int64) {
	m.fileOperations.WithLabelValues(operation, status(success)).Inc()
	if written > 0 {
		m.bytesWritten.Add(float64(written))
	}
}

// WriteTextfile writes the current values in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
