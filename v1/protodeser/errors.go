package protodeser

import (
	"errors"
	"fmt"
)

// Common deserialization errors
var (
	// ErrNotConfigured is returned when no schema registry client or
	// resolver was configured. The call cannot succeed and must not be
	// retried without reconfiguration.
	ErrNotConfigured = errors.New("protodeser: schema registry not configured, make sure the schema registry URL is set")

	// ErrNoDescriptor is returned when message decoding is attempted
	// without a resolved protobuf descriptor.
	ErrNoDescriptor = errors.New("protodeser: no protobuf descriptor found")

	// ErrResolutionTimeout is returned when a schema resolution exceeded
	// its bound. It is distinct from other registry failures so callers
	// can apply separate backoff.
	ErrResolutionTimeout = errors.New("protodeser: schema resolution timed out")
)

// Phase names used in DeserializationError.
const (
	PhaseHeader     = "header parse"
	PhaseSchemaID   = "schema id extraction"
	PhaseIndexes    = "message index extraction"
	PhaseBody       = "message bytes extraction"
	PhaseResolution = "schema resolution"
	PhaseDecode     = "message decode"
)

// DeserializationError is the single failure type returned by
// Deserializer.Deserialize. It wraps the underlying cause together with the
// phase that failed and the schema id involved; the schema id is 0 when the
// failure occurred before the id could be parsed.
type DeserializationError struct {
	SchemaID int32
	Phase    string
	Err      error
}

// Error implements the error interface.
func (e *DeserializationError) Error() string {
	return fmt.Sprintf("protodeser: %s failed for schema id %d: %v", e.Phase, e.SchemaID, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (e *DeserializationError) Unwrap() error {
	return e.Err
}
