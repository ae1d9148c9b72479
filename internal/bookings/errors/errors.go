package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrVersionConflict means a concurrent writer advanced the booking
	// between our read and write.
	ErrVersionConflict = errors.New("booking was modified concurrently")

	ErrPropertyNotFound = errors.New("property not found")
)
