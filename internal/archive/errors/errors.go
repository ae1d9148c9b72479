package errors

import "errors"

var (
	ErrNotFound        = errors.New("archive record not found")
	ErrInvalidID       = errors.New("invalid archive ID format")
	ErrAlreadyArchived = errors.New("property is already archived")
)
