package model

import "time"

// Leg is a single dated operating instance of a scheduled flight, carrying
// its own seat inventory. Version is the optimistic-lock token: it is only
// ever advanced by the store's conditional update, never assigned by
// application code.
type Leg struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FlightID       string    `json:"flight_id" bson:"flight_id" validate:"required,mongodb"`
	ServiceDate    string    `json:"service_date" bson:"service_date" validate:"required,datetime=2006-01-02"`
	DepartureUTC   time.Time `json:"departure_utc" bson:"departure_utc" validate:"required"`
	ArrivalUTC     time.Time `json:"arrival_utc" bson:"arrival_utc" validate:"required,gtfield=DepartureUTC"`
	CapacityTotal  int       `json:"capacity_total" bson:"capacity_total" validate:"required,min=1"`
	SeatsAvailable int       `json:"seats_available" bson:"seats_available" validate:"min=0"`
	Version        int64     `json:"version" bson:"version"`
}

func (l *Leg) HasAvailableSeats(requested int) bool {
	return l.SeatsAvailable >= requested
}
