package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides an interface for collecting and exposing
// application metrics. It abstracts Prometheus metric operations with
// support for counters, histograms, and gauges.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// Default metric methods

	// IncrementMessages increments the deserialized-message counter for a
	// topic with the given status label.
	IncrementMessages(topic, status string)

	// RecordDeserializeDuration records the duration (in seconds) of a
	// deserialize call for a topic.
	RecordDeserializeDuration(start time.Time, topic string)

	// SetSchemaCacheSize sets the resident-entry gauge for a named cache.
	SetSchemaCacheSize(value float64, cache string)

	// Dynamic metric factories

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
