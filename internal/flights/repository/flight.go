package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	flightserrors "skyfare/internal/flights/errors"
	"skyfare/pkg/config"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	FlightCollectionName = "Flights"
)

// FlightFilter narrows FindAll. Zero values mean "any".
type FlightFilter struct {
	OriginIATA      string
	DestinationIATA string
	AirlineID       string
}

func (f FlightFilter) query() bson.M {
	query := bson.M{}
	if f.OriginIATA != "" {
		query["origin_iata"] = f.OriginIATA
	}
	if f.DestinationIATA != "" {
		query["destination_iata"] = f.DestinationIATA
	}
	if f.AirlineID != "" {
		query["airline_id"] = f.AirlineID
	}
	return query
}

type FlightRepository interface {
	Create(ctx context.Context, flight *model.Flight) error
	FindByID(ctx context.Context, id string) (*model.Flight, error)
	FindAll(ctx context.Context, filter FlightFilter, limit, offset int) ([]*model.Flight, error)
	Count(ctx context.Context, filter FlightFilter) (int64, error)
	Delete(ctx context.Context, id string) error
}

type mongoFlightRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFlightRepository(cfg *config.Config) FlightRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFlightRepository{
		cfg:        cfg,
		collection: db.Collection(FlightCollectionName),
	}
}

func (r *mongoFlightRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoFlightRepository) Create(ctx context.Context, flight *model.Flight) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, flight)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		flight.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFlightRepository) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	var flight model.Flight
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&flight)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, flightserrors.ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}

	return &flight, nil
}

// FindAll returns a page of flights matching the filter, sorted by flight
// number. A non-positive limit disables paging.
func (r *mongoFlightRepository) FindAll(ctx context.Context, filter FlightFilter, limit, offset int) ([]*model.Flight, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "flight_number", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit)).SetSkip(int64(offset))
	}
	cursor, err := r.collection.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find flights: %w", err)
	}
	defer cursor.Close(ctx)

	var flights []*model.Flight
	if err = cursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}

	return flights, nil
}

func (r *mongoFlightRepository) Count(ctx context.Context, filter FlightFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter.query())
	if err != nil {
		return 0, fmt.Errorf("failed to count flights: %w", err)
	}

	return count, nil
}

func (r *mongoFlightRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	if result.DeletedCount == 0 {
		return flightserrors.ErrFlightNotFound
	}

	return nil
}
