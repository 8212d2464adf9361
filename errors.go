package meshid

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when an insertion or translation request
	// does not fit the declared size of the map.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound is returned when a global id is not present in the map.
	ErrNotFound = errors.New("not found")

	// ErrContractViolation is returned when a caller contract was broken:
	// duplicate global ids, slots written twice, or queries issued before
	// every local index was written. Detection is opportunistic.
	ErrContractViolation = errors.New("contract violation")
)

// RangeError indicates that offset+count exceeds the size of the map.
//
// It unwraps to ErrConfiguration.
type RangeError struct {
	Offset int
	Count  int
	Size   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range [%d, %d) exceeds map size %d", e.Offset, e.Offset+e.Count, e.Size)
}

func (e *RangeError) Unwrap() error { return ErrConfiguration }

// NotFoundError indicates a global id that was never written.
//
// It unwraps to ErrNotFound.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("global id %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ContractViolationError describes a detected caller contract violation.
//
// It unwraps to ErrContractViolation.
type ContractViolationError struct {
	Reason string
	// Local is the offending local index, or 0 if not applicable.
	Local int64
}

func (e *ContractViolationError) Error() string {
	if e.Local > 0 {
		return fmt.Sprintf("contract violation at local index %d: %s", e.Local, e.Reason)
	}
	return "contract violation: " + e.Reason
}

func (e *ContractViolationError) Unwrap() error { return ErrContractViolation }

// BufferTypeError indicates a data buffer whose Go type does not match the
// field it is translated for.
//
// It unwraps to ErrConfiguration.
type BufferTypeError struct {
	Field string
	Want  string
	Got   any
}

func (e *BufferTypeError) Error() string {
	return fmt.Sprintf("field %q: expected %s buffer, got %T", e.Field, e.Want, e.Got)
}

func (e *BufferTypeError) Unwrap() error { return ErrConfiguration }

// WidthError indicates an id that does not fit the configured id width.
//
// It unwraps to ErrConfiguration.
type WidthError struct {
	ID    int64
	Width IDWidth
	cause error
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("id %d does not fit %s map", e.ID, e.Width)
}

func (e *WidthError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.cause}
}
