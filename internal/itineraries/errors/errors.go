package errors

import "errors"

var (
	ErrNotFound = errors.New("itinerary not found")

	ErrInvalidID = errors.New("invalid itinerary ID format")
)
