package model

// Itinerary is an ordered, non-empty sequence of legs forming one bookable
// journey. Immutable once created; there is no update operation.
type Itinerary struct {
	ID     string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	LegIDs []string `json:"leg_ids" bson:"leg_ids" validate:"required,min=1,dive,mongodb"`
}
