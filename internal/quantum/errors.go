package quantum

import "errors"

// Domain errors for device construction and evolution operations.
var (
	// ErrTimeDependent indicates an absolute-time query against an operator
	// that is not static; only static operators support arbitrary-time
	// evolvers.
	ErrTimeDependent = errors.New("quantum: operator is time-dependent; static evolver unavailable")

	// ErrNotImplemented indicates a device variant that has not opted into
	// a required capability.
	ErrNotImplemented = errors.New("quantum: capability not implemented by device variant")

	// ErrDimensionMismatch indicates mismatched state/operator dimensions.
	ErrDimensionMismatch = errors.New("quantum: dimension mismatch")

	// ErrBadParameterCount indicates a Bind call with the wrong vector length.
	ErrBadParameterCount = errors.New("quantum: bound parameter vector has wrong length")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("quantum: invalid state (NaN or Inf detected)")
)
