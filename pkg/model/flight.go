package model

// Flight is a scheduled route definition. Frequency lists the weekdays the
// flight operates (0 = Sunday .. 6 = Saturday). Legs are materialized from
// flights by the generator; a flight itself carries no inventory.
type Flight struct {
	ID                 string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FlightNumber       string `json:"flight_number" bson:"flight_number" validate:"required,min=3,max=8"`
	AirlineID          string `json:"airline_id" bson:"airline_id" validate:"required,mongodb"`
	OriginIATA         string `json:"origin_iata" bson:"origin_iata" validate:"required,len=3,uppercase,alpha"`
	DestinationIATA    string `json:"destination_iata" bson:"destination_iata" validate:"required,len=3,uppercase,alpha"`
	DepartureTimeLocal string `json:"departure_time_local" bson:"departure_time_local" validate:"required,datetime=15:04"`
	ArrivalTimeLocal   string `json:"arrival_time_local" bson:"arrival_time_local" validate:"required,datetime=15:04"`
	Frequency          []int  `json:"frequency" bson:"frequency" validate:"required,min=1,max=7,dive,min=0,max=6"`
}
