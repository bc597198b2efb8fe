package observability

import "time"

// OperationContext carries the details of a single completed operation.
// Observers receive one OperationContext per operation and may use it to
// record metrics, traces, or logs.
type OperationContext struct {
	// Component identifies the package reporting the operation,
	// e.g. "protodeser" or "schema_registry".
	Component string

	// Operation is the name of the operation, e.g. "deserialize",
	// "cache_hit", "resolve".
	Operation string

	// Resource is the primary resource the operation acted on,
	// e.g. a topic or a subject.
	Resource string

	// SubResource adds optional context, e.g. a schema id.
	SubResource string

	// Duration is how long the operation took.
	Duration time.Duration

	// Error is the error the operation ended with, or nil on success.
	Error error

	// Size is an operation-specific byte count, e.g. payload length.
	Size int64

	// Metadata holds any additional key/value context.
	Metadata map[string]interface{}
}

// Observer receives completed operations from instrumented components.
//
// Implementations must be safe for concurrent use; components may report
// operations from multiple goroutines.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// NoopObserver is an Observer that discards all operations.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

// ObserveOperation implements Observer.
func (NoopObserver) ObserveOperation(OperationContext) {}
