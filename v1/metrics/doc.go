// Package metrics provides Prometheus metrics collection and exposure.
//
// Each service gets its own isolated Prometheus registry with a constant
// service label, optional Go runtime/process collectors, and an HTTP server
// exposing the /metrics endpoint for scraping.
//
// The built-in metrics track the deserialization pipeline: messages
// deserialized by topic and status, deserialize latency, and schema cache
// occupancy. Additional metrics can be created through the CreateCounter,
// CreateHistogram and CreateGauge factories.
//
// Basic Usage:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "payments-consumer",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
//
//	m.IncrementMessages("payments", "success")
//	defer m.RecordDeserializeDuration(time.Now(), "payments")
//
// Access metrics at: http://localhost:9090/metrics
//
// FX Module Integration:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    // ... other modules
//	)
//
// The module starts the HTTP server on application start and shuts it down
// gracefully on stop.
package metrics
