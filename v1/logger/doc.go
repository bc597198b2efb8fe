// Package logger provides structured logging built on Uber's Zap.
//
// The package wraps zap.Logger behind a small interface where contextual
// data is passed as plain maps, keeping call sites free of zap-specific
// types while retaining structured JSON output.
//
// Basic Usage:
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "payments-consumer",
//	})
//
//	log.Info("message decoded", nil, map[string]interface{}{
//	    "topic":     "payments",
//	    "schema_id": 42,
//	})
//
// FX Module Integration:
//
//	app := fx.New(
//	    logger.FXModule,
//	    // ... other modules
//	)
//
// The module registers a shutdown hook that flushes buffered entries when
// the application stops.
package logger
