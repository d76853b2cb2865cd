package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidBody indicates non-positive or non-finite body parameters.
	ErrInvalidBody = errors.New("dynamo: invalid body parameters")

	// ErrSessionTerminated indicates the anchor body left the bounded space.
	ErrSessionTerminated = errors.New("dynamo: session terminated (anchor escaped)")

	// ErrUnknownBody indicates a lookup for an ID not in the world.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrInvalidState indicates a body state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// TickError wraps an error with the tick and body it was observed on.
type TickError struct {
	Tick    int
	Body    BodyID
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d body %s: %v", e.Tick, e.Body, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
