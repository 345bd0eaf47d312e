package repository

import (
	"context"
	"errors"
	"fmt"

	itinerarieserrors "skyfare/internal/itineraries/errors"
	"skyfare/pkg/config"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Itineraries"
)

// ItineraryRepository is read-mostly: itineraries are immutable once
// created, so there is no update operation.
type ItineraryRepository interface {
	Create(ctx context.Context, itinerary *model.Itinerary) error
	FindByID(ctx context.Context, id string) (*model.Itinerary, error)
	FindMany(ctx context.Context) ([]*model.Itinerary, error)
}

type mongoItineraryRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoItineraryRepository(cfg *config.Config) ItineraryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoItineraryRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoItineraryRepository) Create(ctx context.Context, itinerary *model.Itinerary) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, itinerary)
	if err != nil {
		return fmt.Errorf("failed to create itinerary: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		itinerary.ID = oid.Hex()
	}
	return nil
}

func (r *mongoItineraryRepository) FindByID(ctx context.Context, id string) (*model.Itinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", itinerarieserrors.ErrInvalidID, id)
	}

	var itinerary model.Itinerary
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&itinerary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, itinerarieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find itinerary: %w", err)
	}

	return &itinerary, nil
}

func (r *mongoItineraryRepository) FindMany(ctx context.Context) ([]*model.Itinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find itineraries: %w", err)
	}
	defer cursor.Close(ctx)

	var itineraries []*model.Itinerary
	if err = cursor.All(ctx, &itineraries); err != nil {
		return nil, fmt.Errorf("failed to decode itineraries: %w", err)
	}

	return itineraries, nil
}
