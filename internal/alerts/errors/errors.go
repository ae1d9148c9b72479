package errors

import "errors"

var (
	ErrNotFound  = errors.New("alert not found")
	ErrInvalidID = errors.New("invalid alert ID format")
)
