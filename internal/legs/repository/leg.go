package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	legserrors "skyfare/internal/legs/errors"
	"skyfare/pkg/config"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Legs"
)

// LegFilter narrows FindMany. Zero values mean "any".
type LegFilter struct {
	FlightID    string
	ServiceDate string
}

// LegRepository is the leg inventory store. ConditionalDecrement is the only
// way seats are taken and Increment the only way they are returned; leg
// inventory is never read-modify-written outside these two calls.
type LegRepository interface {
	Create(ctx context.Context, leg *model.Leg) error
	FindByID(ctx context.Context, id string) (*model.Leg, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Leg, error)
	FindByFlightAndDate(ctx context.Context, flightID, serviceDate string) (*model.Leg, error)
	FindMany(ctx context.Context, filter LegFilter) ([]*model.Leg, error)
	ConditionalDecrement(ctx context.Context, legID string, expectedVersion int64, seats int) (bool, error)
	Increment(ctx context.Context, legID string, seats int) error
}

type mongoLegRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLegRepository(cfg *config.Config) LegRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLegRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoLegRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLegRepository) Create(ctx context.Context, leg *model.Leg) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if leg.Version == 0 {
		leg.Version = 1
	}

	result, err := r.collection.InsertOne(ctx, leg)
	if err != nil {
		return fmt.Errorf("failed to create leg: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		leg.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLegRepository) FindByID(ctx context.Context, id string) (*model.Leg, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", legserrors.ErrInvalidID, id)
	}

	var leg model.Leg
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&leg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, legserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leg: %w", err)
	}

	return &leg, nil
}

// FindByIDs returns a point-in-time snapshot of the requested legs. The
// result order is unspecified; callers that care about itinerary order must
// reorder by their own leg id sequence.
func (r *mongoLegRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Leg, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", legserrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find legs: %w", err)
	}
	defer cursor.Close(ctx)

	var legs []*model.Leg
	if err = cursor.All(ctx, &legs); err != nil {
		return nil, fmt.Errorf("failed to decode legs: %w", err)
	}

	return legs, nil
}

func (r *mongoLegRepository) FindByFlightAndDate(ctx context.Context, flightID, serviceDate string) (*model.Leg, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var leg model.Leg
	err := r.collection.FindOne(ctx, bson.M{
		"flight_id":    flightID,
		"service_date": serviceDate,
	}).Decode(&leg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, legserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leg by flight and date: %w", err)
	}

	return &leg, nil
}

func (r *mongoLegRepository) FindMany(ctx context.Context, filter LegFilter) ([]*model.Leg, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := bson.M{}
	if filter.FlightID != "" {
		query["flight_id"] = filter.FlightID
	}
	if filter.ServiceDate != "" {
		query["service_date"] = filter.ServiceDate
	}

	opts := options.Find().SetSort(bson.D{{Key: "departure_utc", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find legs: %w", err)
	}
	defer cursor.Close(ctx)

	var legs []*model.Leg
	if err = cursor.All(ctx, &legs); err != nil {
		return nil, fmt.Errorf("failed to decode legs: %w", err)
	}

	return legs, nil
}

// ConditionalDecrement takes seats from a leg in one atomic document update.
// The filter carries both guards: enough seats remaining and an unchanged
// version. Either both the seat decrement and the version bump apply, or
// nothing does — this single call is what makes the reservation protocol
// correct under concurrency. Returns false when a guard failed (capacity
// exhausted or a concurrent writer advanced the version first).
func (r *mongoLegRepository) ConditionalDecrement(ctx context.Context, legID string, expectedVersion int64, seats int) (bool, error) {
	if seats <= 0 {
		return false, legserrors.ErrInvalidSeatCount
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(legID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", legserrors.ErrInvalidID, legID)
	}

	filter := bson.M{
		"_id":             objectID,
		"seats_available": bson.M{"$gte": seats},
		"version":         expectedVersion,
	}
	update := bson.M{
		"$inc": bson.M{
			"seats_available": -seats,
			"version":         1,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to decrement seats: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// Increment returns seats to a leg unconditionally and bumps the version.
// Used for compensation and cancellation; there is no expected-version guard
// because increments are commutative.
func (r *mongoLegRepository) Increment(ctx context.Context, legID string, seats int) error {
	if seats <= 0 {
		return legserrors.ErrInvalidSeatCount
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(legID)
	if err != nil {
		return fmt.Errorf("%w: %s", legserrors.ErrInvalidID, legID)
	}

	update := bson.M{
		"$inc": bson.M{
			"seats_available": seats,
			"version":         1,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to increment seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return legserrors.ErrNotFound
	}

	return nil
}
