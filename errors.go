package blit

import (
	"errors"
	"fmt"
)

// Recoverable error kinds.
//
// Contract violations are deliberately absent from this list: writing past
// the end of a GPU buffer or constructing a context with an impossible
// sprite capacity indicate misuse, not an environmental condition, and
// panic instead of returning an error.
var (
	// ErrPlatform is the base error for failures reported by the underlying
	// graphics device: buffer allocation, data upload, program compilation.
	// Match with errors.Is.
	ErrPlatform = errors.New("blit: platform error")

	// ErrTessellation is the base error for shape geometry that could not
	// be triangulated (degenerate or unsupported input). The geometry
	// accumulated before the failing call is left untouched.
	ErrTessellation = errors.New("blit: tessellation error")
)

// platformErr wraps a device failure so that errors.Is(err, ErrPlatform)
// holds while preserving the underlying cause for errors.Unwrap.
func platformErr(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrPlatform, op, cause)
}

// tessellationErr wraps a geometry failure so that
// errors.Is(err, ErrTessellation) holds.
func tessellationErr(shape string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrTessellation, shape, cause)
}
