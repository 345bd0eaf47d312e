package service

import (
	"context"
	"errors"

	itinerarieserrors "skyfare/internal/itineraries/errors"
	"skyfare/internal/itineraries/repository"
	legsrepo "skyfare/internal/legs/repository"
	"skyfare/pkg/config"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/model"
)

type ItineraryService interface {
	Create(ctx context.Context, itinerary *model.Itinerary) error
	GetByID(ctx context.Context, id string) (*model.Itinerary, error)
	SearchAvailability(ctx context.Context, query AvailabilityQuery) ([]ItineraryOption, error)
}

type itineraryService struct {
	repo       repository.ItineraryRepository
	legRepo    legsrepo.LegRepository
	flightRepo FlightResolver
	cfg        *config.Config
}

// FlightResolver is the slice of the flights repository the availability
// search needs.
type FlightResolver interface {
	FindByID(ctx context.Context, id string) (*model.Flight, error)
}

func NewItineraryService(
	repo repository.ItineraryRepository,
	legRepo legsrepo.LegRepository,
	flightRepo FlightResolver,
	cfg *config.Config,
) ItineraryService {
	return &itineraryService{
		repo:       repo,
		legRepo:    legRepo,
		flightRepo: flightRepo,
		cfg:        cfg,
	}
}

// Create persists a new itinerary after checking every referenced leg
// exists. Itineraries are immutable afterwards.
func (s *itineraryService) Create(ctx context.Context, itinerary *model.Itinerary) error {
	if len(itinerary.LegIDs) == 0 {
		return apperrors.InvalidInput("Itinerary must reference at least one leg")
	}

	legs, err := s.legRepo.FindByIDs(ctx, itinerary.LegIDs)
	if err != nil {
		return apperrors.Internal("Failed to resolve itinerary legs", err)
	}
	if len(legs) != len(itinerary.LegIDs) {
		return apperrors.NotFound("One or more legs")
	}

	if err := s.repo.Create(ctx, itinerary); err != nil {
		s.cfg.Log.Error("Failed to create itinerary", "error", err)
		return apperrors.Internal("Failed to create itinerary", err)
	}

	s.cfg.Log.Info("Itinerary created successfully",
		"id", itinerary.ID,
		"legs", len(itinerary.LegIDs),
	)
	return nil
}

func (s *itineraryService) GetByID(ctx context.Context, id string) (*model.Itinerary, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Itinerary ID cannot be empty")
	}

	itinerary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, itinerarieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Itinerary", id)
		}
		if errors.Is(err, itinerarieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid itinerary ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve itinerary", err)
	}

	return itinerary, nil
}
