package model

// Airport timezone is stored as a UTC offset in ±HH:MM form; anything else
// is treated as UTC by the leg generator.
type Airport struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name     string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	IATACode string `json:"iata_code" bson:"iata_code" validate:"required,len=3,uppercase,alpha"`
	Timezone string `json:"timezone" bson:"timezone" validate:"required"`
}

type Airline struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name     string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	IATACode string `json:"iata_code" bson:"iata_code" validate:"required,len=2,max=3"`
}
