package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidIndex is returned when a caller tries to point the navigation state
// outside its stack.
var ErrInvalidIndex = errors.New("invalid index")

// ErrCorruptState is returned by State.Validate when an invariant does not hold.
var ErrCorruptState = errors.New("corrupt navigation state")

// ErrUnknownKind is returned when a wire destination names no known variant.
var ErrUnknownKind = errors.New("unknown destination kind")

// ErrMissingField is returned when a wire destination lacks a required identifier.
var ErrMissingField = errors.New("missing destination field")

// ErrNilDestination is reported to hooks when a nil destination is passed to a mutation.
var ErrNilDestination = errors.New("nil destination")

// ErrInvalidDestination is returned for a destination that is not one of the value
// variants of this package, such as a pointer to one.
var ErrInvalidDestination = errors.New("invalid destination")

// ErrUnknownOperation is returned by Coordinator.Apply for a command it cannot run.
var ErrUnknownOperation = errors.New("unknown operation")

// IndexError reports an out-of-range pointer update.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid index %d for stack of %d", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrInvalidIndex
}
