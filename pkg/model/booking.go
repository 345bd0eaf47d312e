package model

import "time"

const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking transitions status at most twice in its lifetime: created
// CONFIRMED, optionally moved to CANCELLED. Version increments on every
// status transition.
// BookingRequest is the create-booking request body. The idempotency key
// travels in a header, not here.
type BookingRequest struct {
	UserID      string `json:"user_id" validate:"required,min=1,max=100"`
	ItineraryID string `json:"itinerary_id" validate:"required,mongodb"`
}

type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID      string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=100"`
	ItineraryID string    `json:"itinerary_id" bson:"itinerary_id" validate:"required,mongodb"`
	Status      string    `json:"status" bson:"status" validate:"required,oneof=CONFIRMED CANCELLED"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Version     int64     `json:"version" bson:"version"`
}
