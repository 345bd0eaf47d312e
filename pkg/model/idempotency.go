package model

import "time"

// IdempotencyRecord maps a client-supplied key to the booking produced the
// first time that key was seen. Written once per successful creation, read
// on every later attempt with the same key.
type IdempotencyRecord struct {
	Key       string    `json:"key" bson:"_id"`
	Booking   Booking   `json:"booking" bson:"booking"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
