package service

import (
	"context"
	"errors"

	flightserrors "skyfare/internal/flights/errors"
	"skyfare/internal/flights/repository"
	"skyfare/internal/flights/validator"
	"skyfare/pkg/config"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/model"
)

type FlightService interface {
	CreateFlight(ctx context.Context, flight *model.Flight) error
	GetFlight(ctx context.Context, id string) (*model.Flight, error)
	ListFlights(ctx context.Context, filter repository.FlightFilter, limit, offset int) ([]*model.Flight, int64, error)
	DeleteFlight(ctx context.Context, id string) error

	CreateAirport(ctx context.Context, airport *model.Airport) error
	GetAirportByIATA(ctx context.Context, iataCode string) (*model.Airport, error)
	ListAirports(ctx context.Context, limit, offset int) ([]*model.Airport, int64, error)

	CreateAirline(ctx context.Context, airline *model.Airline) error
	ListAirlines(ctx context.Context) ([]*model.Airline, error)
}

type flightService struct {
	flightRepo  repository.FlightRepository
	airportRepo repository.AirportRepository
	airlineRepo repository.AirlineRepository
	validator   *validator.FlightValidator
	cfg         *config.Config
}

func NewFlightService(
	flightRepo repository.FlightRepository,
	airportRepo repository.AirportRepository,
	airlineRepo repository.AirlineRepository,
	flightValidator *validator.FlightValidator,
	cfg *config.Config,
) FlightService {
	return &flightService{
		flightRepo:  flightRepo,
		airportRepo: airportRepo,
		airlineRepo: airlineRepo,
		validator:   flightValidator,
		cfg:         cfg,
	}
}

func (s *flightService) CreateFlight(ctx context.Context, flight *model.Flight) error {
	if err := s.validator.ValidateFlight(flight); err != nil {
		s.cfg.Log.Warn("Flight validation failed", "error", err)
		return apperrors.Validation("Flight validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.airlineRepo.FindByID(ctx, flight.AirlineID); err != nil {
		if errors.Is(err, flightserrors.ErrAirlineNotFound) {
			return apperrors.NotFoundWithID("Airline", flight.AirlineID)
		}
		return apperrors.Internal("Failed to resolve airline", err)
	}

	for _, iata := range []string{flight.OriginIATA, flight.DestinationIATA} {
		if _, err := s.airportRepo.FindByIATACode(ctx, iata); err != nil {
			if errors.Is(err, flightserrors.ErrAirportNotFound) {
				return apperrors.NotFoundWithID("Airport", iata)
			}
			return apperrors.Internal("Failed to resolve airport", err)
		}
	}

	if err := s.flightRepo.Create(ctx, flight); err != nil {
		s.cfg.Log.Error("Failed to create flight", "error", err)
		return apperrors.Internal("Failed to create flight", err)
	}

	s.cfg.Log.Info("Flight created successfully",
		"id", flight.ID,
		"flight_number", flight.FlightNumber,
		"origin", flight.OriginIATA,
		"destination", flight.DestinationIATA,
	)
	return nil
}

func (s *flightService) GetFlight(ctx context.Context, id string) (*model.Flight, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Flight ID cannot be empty")
	}

	flight, err := s.flightRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, flightserrors.ErrFlightNotFound) {
			return nil, apperrors.NotFoundWithID("Flight", id)
		}
		if errors.Is(err, flightserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid flight ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve flight", err)
	}

	return flight, nil
}

func (s *flightService) ListFlights(ctx context.Context, filter repository.FlightFilter, limit, offset int) ([]*model.Flight, int64, error) {
	total, err := s.flightRepo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count flights", "error", err)
		return nil, 0, apperrors.Internal("Failed to count flights", err)
	}

	flights, err := s.flightRepo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list flights", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve flights", err)
	}

	return flights, total, nil
}

func (s *flightService) DeleteFlight(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Flight ID cannot be empty")
	}

	if err := s.flightRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, flightserrors.ErrFlightNotFound) {
			return apperrors.NotFoundWithID("Flight", id)
		}
		if errors.Is(err, flightserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid flight ID format")
		}
		return apperrors.Internal("Failed to delete flight", err)
	}

	s.cfg.Log.Info("Flight deleted successfully", "id", id)
	return nil
}

func (s *flightService) CreateAirport(ctx context.Context, airport *model.Airport) error {
	airport.Name = validator.SanitizeName(airport.Name)
	if err := s.validator.ValidateAirport(airport); err != nil {
		s.cfg.Log.Warn("Airport validation failed", "error", err)
		return apperrors.Validation("Airport validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.airportRepo.Create(ctx, airport); err != nil {
		if errors.Is(err, flightserrors.ErrDuplicateIATACode) {
			return apperrors.Conflict("Airport IATA code already exists")
		}
		s.cfg.Log.Error("Failed to create airport", "error", err)
		return apperrors.Internal("Failed to create airport", err)
	}

	s.cfg.Log.Info("Airport created successfully", "id", airport.ID, "iata_code", airport.IATACode)
	return nil
}

func (s *flightService) GetAirportByIATA(ctx context.Context, iataCode string) (*model.Airport, error) {
	if iataCode == "" {
		return nil, apperrors.InvalidInput("IATA code cannot be empty")
	}

	airport, err := s.airportRepo.FindByIATACode(ctx, iataCode)
	if err != nil {
		if errors.Is(err, flightserrors.ErrAirportNotFound) {
			return nil, apperrors.NotFoundWithID("Airport", iataCode)
		}
		return nil, apperrors.Internal("Failed to retrieve airport", err)
	}

	return airport, nil
}

func (s *flightService) ListAirports(ctx context.Context, limit, offset int) ([]*model.Airport, int64, error) {
	total, err := s.airportRepo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count airports", "error", err)
		return nil, 0, apperrors.Internal("Failed to count airports", err)
	}

	airports, err := s.airportRepo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list airports", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve airports", err)
	}

	return airports, total, nil
}

func (s *flightService) CreateAirline(ctx context.Context, airline *model.Airline) error {
	airline.Name = validator.SanitizeName(airline.Name)
	if err := s.validator.ValidateAirline(airline); err != nil {
		s.cfg.Log.Warn("Airline validation failed", "error", err)
		return apperrors.Validation("Airline validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.airlineRepo.Create(ctx, airline); err != nil {
		if errors.Is(err, flightserrors.ErrDuplicateIATACode) {
			return apperrors.Conflict("Airline IATA code already exists")
		}
		s.cfg.Log.Error("Failed to create airline", "error", err)
		return apperrors.Internal("Failed to create airline", err)
	}

	s.cfg.Log.Info("Airline created successfully", "id", airline.ID, "iata_code", airline.IATACode)
	return nil
}

func (s *flightService) ListAirlines(ctx context.Context) ([]*model.Airline, error) {
	airlines, err := s.airlineRepo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list airlines", "error", err)
		return nil, apperrors.Internal("Failed to retrieve airlines", err)
	}
	return airlines, nil
}
