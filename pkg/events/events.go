package events

import (
	"time"

	"skyfare/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// Envelope is the wire shape of a booking lifecycle event.
type Envelope struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Booking    model.Booking `json:"booking"`
}
