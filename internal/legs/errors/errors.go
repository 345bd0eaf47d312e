package errors

import "errors"

var (
	ErrNotFound = errors.New("leg not found")

	ErrInvalidID = errors.New("invalid leg ID format")

	ErrInvalidSeatCount = errors.New("seat count must be positive")
)
