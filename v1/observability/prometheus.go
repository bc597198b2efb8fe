package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver is an Observer that records operations as Prometheus
// metrics: a counter of operations by component, operation and status, and
// a histogram of operation durations.
type PrometheusObserver struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	sizes      *prometheus.HistogramVec
}

// NewPrometheusObserver creates a PrometheusObserver and registers its
// collectors with the given registerer.
//
// Registering two observers with the same registerer panics on the duplicate
// collector, matching prometheus.MustRegister semantics.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	o := &PrometheusObserver{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "operations_total",
				Help: "Total number of observed operations",
			},
			[]string{"component", "operation", "status"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "operation_duration_seconds",
				Help:    "Duration of observed operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"component", "operation"},
		),
		sizes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "operation_size_bytes",
				Help:    "Size in bytes of observed operations",
				Buckets: prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{"component", "operation"},
		),
	}
	reg.MustRegister(o.operations, o.durations, o.sizes)
	return o
}

// ObserveOperation implements Observer.
func (o *PrometheusObserver) ObserveOperation(ctx OperationContext) {
	status := "success"
	if ctx.Error != nil {
		status = "error"
	}
	o.operations.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	if ctx.Duration > 0 {
		o.durations.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	}
	if ctx.Size > 0 {
		o.sizes.WithLabelValues(ctx.Component, ctx.Operation).Observe(float64(ctx.Size))
	}
}
