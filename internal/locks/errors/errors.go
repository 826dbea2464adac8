package errors

import "errors"

var (
	ErrNotFound = errors.New("lock not found")

	ErrInvalidID = errors.New("invalid lock ID format")
)
