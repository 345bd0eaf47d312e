package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skyfare/pkg/config"
	"skyfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	IdempotencyCollectionName = "Idempotency_keys"
)

// IdempotencyStore deduplicates booking creation by an opaque client token.
// It is a cache, not a lock: two concurrent callers that both miss on Get
// may both proceed to reserve seats and create bookings before either Set
// runs. The last Set wins (upsert). Closing that window would take an
// atomic claim-then-commit insert before any seat is touched.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*model.Booking, error)
	Set(ctx context.Context, key string, booking model.Booking) error
}

type mongoIdempotencyStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoIdempotencyStore(cfg *config.Config) IdempotencyStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoIdempotencyStore{
		cfg:        cfg,
		collection: db.Collection(IdempotencyCollectionName),
	}
}

// Get returns the booking previously recorded for the key, or nil when the
// key has never been seen.
func (s *mongoIdempotencyStore) Get(ctx context.Context, key string) (*model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var record model.IdempotencyRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	return &record.Booking, nil
}

func (s *mongoIdempotencyStore) Set(ctx context.Context, key string, booking model.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	record := model.IdempotencyRecord{
		Key:       key,
		Booking:   booking,
		CreatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, record, opts)
	if err != nil {
		return fmt.Errorf("failed to write idempotency key: %w", err)
	}

	return nil
}
