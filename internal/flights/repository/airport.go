package repository

import (
	"context"
	"errors"
	"fmt"

	flightserrors "skyfare/internal/flights/errors"
	"skyfare/pkg/config"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AirportCollectionName = "Airports"
)

type AirportRepository interface {
	Create(ctx context.Context, airport *model.Airport) error
	FindByID(ctx context.Context, id string) (*model.Airport, error)
	FindByIATACode(ctx context.Context, iataCode string) (*model.Airport, error)
	FindAll(ctx context.Context, limit, offset int) ([]*model.Airport, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

type mongoAirportRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAirportRepository(cfg *config.Config) AirportRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAirportRepository{
		cfg:        cfg,
		collection: db.Collection(AirportCollectionName),
	}
}

func (r *mongoAirportRepository) Create(ctx context.Context, airport *model.Airport) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, airport)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return flightserrors.ErrDuplicateIATACode
		}
		return fmt.Errorf("failed to create airport: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		airport.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAirportRepository) FindByID(ctx context.Context, id string) (*model.Airport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	var airport model.Airport
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&airport)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, flightserrors.ErrAirportNotFound
		}
		return nil, fmt.Errorf("failed to find airport: %w", err)
	}

	return &airport, nil
}

func (r *mongoAirportRepository) FindByIATACode(ctx context.Context, iataCode string) (*model.Airport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var airport model.Airport
	err := r.collection.FindOne(ctx, bson.M{"iata_code": iataCode}).Decode(&airport)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, flightserrors.ErrAirportNotFound
		}
		return nil, fmt.Errorf("failed to find airport by IATA code: %w", err)
	}

	return &airport, nil
}

// FindAll returns a page of airports sorted by IATA code. A non-positive
// limit disables paging.
func (r *mongoAirportRepository) FindAll(ctx context.Context, limit, offset int) ([]*model.Airport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "iata_code", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit)).SetSkip(int64(offset))
	}
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find airports: %w", err)
	}
	defer cursor.Close(ctx)

	var airports []*model.Airport
	if err = cursor.All(ctx, &airports); err != nil {
		return nil, fmt.Errorf("failed to decode airports: %w", err)
	}

	return airports, nil
}

func (r *mongoAirportRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count airports: %w", err)
	}

	return count, nil
}

func (r *mongoAirportRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete airport: %w", err)
	}
	if result.DeletedCount == 0 {
		return flightserrors.ErrAirportNotFound
	}

	return nil
}
