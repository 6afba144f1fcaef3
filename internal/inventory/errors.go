package inventory

import "errors"

var (
	// ErrNotFound is returned by Update and Get for an unknown id.
	ErrNotFound = errors.New("asset not found")
	// ErrMalformedState marks a persisted record that cannot be decoded
	// as a collection of assets.
	ErrMalformedState = errors.New("malformed persisted state")
	// ErrPersist wraps a failed write; the in-memory collection is left
	// as it was before the operation.
	ErrPersist = errors.New("persist inventory")
	// ErrNotReady is returned when the record could not be read yet, so
	// the collection is unknown.
	ErrNotReady = errors.New("inventory not ready")
	// ErrValidation is returned when an input misses required fields or
	// carries a value outside the configured set.
	ErrValidation = errors.New("invalid asset")
)
