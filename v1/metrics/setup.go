package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing application metrics.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// Each service maintains its own isolated registry to prevent metric
	// name collisions.
	Registry *prometheus.Registry

	// Core built-in metrics
	messagesTotal       *prometheus.CounterVec
	deserializeDuration *prometheus.HistogramVec
	schemaCacheSize     *prometheus.GaugeVec
}

// NewMetrics initializes and returns a new instance of the Metrics struct.
// It sets up a dedicated Prometheus registry, registers default system
// collectors when enabled, wraps all metrics with a constant `service`
// label, and creates an HTTP server exposing the /metrics endpoint.
//
// The built-in metrics cover the deserialization pipeline:
//   - messages_deserialized_total{topic,status}
//   - deserialize_duration_seconds{topic}
//   - schema_cache_entries{cache}
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "payments-consumer",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	// A dedicated registry per service avoids collisions when multiple
	// services run in the same process.
	registry := prometheus.NewRegistry()

	// All metrics emitted through this registry carry service="<name>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.messagesTotal = createCounterVec("messages_deserialized_total", "Total number of deserialized messages", []string{"topic", "status"})
	m.deserializeDuration = createHistogramVec("deserialize_duration_seconds", "Duration of deserialize calls in seconds", []string{"topic"}, prometheus.DefBuckets)
	m.schemaCacheSize = createGaugeVec("schema_cache_entries", "Number of resident schema cache entries", []string{"cache"})

	wrappedRegistry.MustRegister(
		m.messagesTotal,
		m.deserializeDuration,
		m.schemaCacheSize,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	return m
}
