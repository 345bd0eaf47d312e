package errors

import "errors"

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrAirportNotFound = errors.New("airport not found")
	ErrAirlineNotFound = errors.New("airline not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrDuplicateIATACode = errors.New("IATA code already exists")
)
