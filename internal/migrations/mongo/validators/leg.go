package validators

import "go.mongodb.org/mongo-driver/bson"

// LegValidator enforces the seat invariant at the storage layer:
// seats_available can never go below zero or above capacity_total.
var LegValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"flight_id",
			"service_date",
			"departure_utc",
			"arrival_utc",
			"capacity_total",
			"seats_available",
			"version",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"flight_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"departure_utc": bson.M{
				"bsonType": "date",
			},

			"arrival_utc": bson.M{
				"bsonType": "date",
			},

			"capacity_total": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"seats_available": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"version": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},
		},
	},
}
