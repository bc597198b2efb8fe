package schema_registry

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Common schema registry errors
var (
	// ErrSchemaNotFound is returned when the registry does not know the
	// requested schema id or subject version.
	ErrSchemaNotFound = errors.New("schema_registry: schema not found")

	// ErrTimeout is returned when a registry request exceeds its deadline.
	ErrTimeout = errors.New("schema_registry: request timed out")
)

// IsNotFound checks if the error is a "schema not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSchemaNotFound)
}

// IsTimeout checks if the error is a registry timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// classifyTransportError maps low-level transport failures onto the package
// error taxonomy so callers can distinguish timeouts from other IO failures.
func classifyTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
