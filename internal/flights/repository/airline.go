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
	AirlineCollectionName = "Airlines"
)

type AirlineRepository interface {
	Create(ctx context.Context, airline *model.Airline) error
	FindByID(ctx context.Context, id string) (*model.Airline, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Airline, error)
	FindAll(ctx context.Context) ([]*model.Airline, error)
	Delete(ctx context.Context, id string) error
}

type mongoAirlineRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAirlineRepository(cfg *config.Config) AirlineRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAirlineRepository{
		cfg:        cfg,
		collection: db.Collection(AirlineCollectionName),
	}
}

func (r *mongoAirlineRepository) Create(ctx context.Context, airline *model.Airline) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, airline)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return flightserrors.ErrDuplicateIATACode
		}
		return fmt.Errorf("failed to create airline: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		airline.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAirlineRepository) FindByID(ctx context.Context, id string) (*model.Airline, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	var airline model.Airline
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&airline)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, flightserrors.ErrAirlineNotFound
		}
		return nil, fmt.Errorf("failed to find airline: %w", err)
	}

	return &airline, nil
}

func (r *mongoAirlineRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Airline, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find airlines: %w", err)
	}
	defer cursor.Close(ctx)

	var airlines []*model.Airline
	if err = cursor.All(ctx, &airlines); err != nil {
		return nil, fmt.Errorf("failed to decode airlines: %w", err)
	}

	return airlines, nil
}

func (r *mongoAirlineRepository) FindAll(ctx context.Context) ([]*model.Airline, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "iata_code", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find airlines: %w", err)
	}
	defer cursor.Close(ctx)

	var airlines []*model.Airline
	if err = cursor.All(ctx, &airlines); err != nil {
		return nil, fmt.Errorf("failed to decode airlines: %w", err)
	}

	return airlines, nil
}

func (r *mongoAirlineRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete airline: %w", err)
	}
	if result.DeletedCount == 0 {
		return flightserrors.ErrAirlineNotFound
	}

	return nil
}
