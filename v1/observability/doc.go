// Package observability defines the Observer interface used by the other
// packages in this module to report completed operations.
//
// Components such as the protobuf deserializer and the Kafka consumer call
// Observer.ObserveOperation once per operation with an OperationContext
// describing what happened. Observers turn those callbacks into metrics or
// traces; PrometheusObserver is the built-in metrics implementation, and
// NoopObserver is the default when observability is not configured.
//
// Basic Usage:
//
//	observer := observability.NewPrometheusObserver(metricsInstance.Registry)
//
//	deserializer, err := protodeser.NewDeserializer(protodeser.Config{
//	    Registry: registry,
//	    Observer: observer,
//	})
package observability
