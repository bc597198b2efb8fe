package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementMessages increments the deserialized-message counter for a topic
// with the given status label.
// Example: metrics.IncrementMessages("payments", "success")
func (m *Metrics) IncrementMessages(topic, status string) {
	m.messagesTotal.WithLabelValues(topic, status).Inc()
}

// RecordDeserializeDuration records the duration (in seconds) of a
// deserialize call for a topic.
// Example: defer metrics.RecordDeserializeDuration(time.Now(), "payments")
func (m *Metrics) RecordDeserializeDuration(start time.Time, topic string) {
	duration := time.Since(start).Seconds()
	m.deserializeDuration.WithLabelValues(topic).Observe(duration)
}

// SetSchemaCacheSize sets the resident-entry gauge for a named schema cache.
// Example: metrics.SetSchemaCacheSize(float64(cache.Len()), "value")
func (m *Metrics) SetSchemaCacheSize(value float64, cache string) {
	m.schemaCacheSize.WithLabelValues(cache).Set(value)
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec for resource monitoring.
func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
