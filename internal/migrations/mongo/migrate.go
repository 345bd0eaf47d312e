package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"skyfare/internal/migrations/mongo/validators"
)

var (
	LegsIndexes = []mongo.IndexModel{
		// One leg per flight per service date; the generator relies on this
		// for safe regeneration over overlapping windows.
		{
			Keys:    bson.D{{Key: "flight_id", Value: 1}, {Key: "service_date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "service_date", Value: 1}, {Key: "departure_utc", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "itinerary_id", Value: 1}}},
	}

	IdempotencyIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	FlightsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "origin_iata", Value: 1}, {Key: "destination_iata", Value: 1}}},
		{Keys: bson.D{{Key: "airline_id", Value: 1}}},
	}

	AirportsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "iata_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	AirlinesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "iata_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Skyfare Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Legs": {
			Indexes:   LegsIndexes,
			Validator: validators.LegValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Idempotency_keys": {
			Indexes:   IdempotencyIndexes,
			Validator: validators.IdempotencyValidator,
		},
		"Flights": {
			Indexes: FlightsIndexes,
		},
		"Airports": {
			Indexes: AirportsIndexes,
		},
		"Airlines": {
			Indexes: AirlinesIndexes,
		},
		"Itineraries": {},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if len(def.Indexes) == 0 {
			continue
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator != nil {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
