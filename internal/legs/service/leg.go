package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	flightsrepo "skyfare/internal/flights/repository"
	legserrors "skyfare/internal/legs/errors"
	"skyfare/internal/legs/repository"
	"skyfare/pkg/config"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/model"
)

const dateLayout = "2006-01-02"

var offsetRegex = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

type LegService interface {
	Generate(ctx context.Context, startDate, endDate string) (int, error)
	GetByID(ctx context.Context, id string) (*model.Leg, error)
	Search(ctx context.Context, filter repository.LegFilter) ([]*model.Leg, error)
}

type legService struct {
	legRepo     repository.LegRepository
	flightRepo  flightsrepo.FlightRepository
	airportRepo flightsrepo.AirportRepository
	cfg         *config.Config
}

func NewLegService(
	legRepo repository.LegRepository,
	flightRepo flightsrepo.FlightRepository,
	airportRepo flightsrepo.AirportRepository,
	cfg *config.Config,
) LegService {
	return &legService{
		legRepo:     legRepo,
		flightRepo:  flightRepo,
		airportRepo: airportRepo,
		cfg:         cfg,
	}
}

// Generate materializes legs for every flight whose weekday frequency
// matches a date in [startDate, endDate]. Dates already holding a leg for a
// flight are skipped, so regeneration over an overlapping window is safe.
// Returns how many legs were created.
func (s *legService) Generate(ctx context.Context, startDate, endDate string) (int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid start date: %s", startDate))
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid end date: %s", endDate))
	}
	if !start.Before(end) {
		return 0, apperrors.InvalidInput("start date must be before end date")
	}

	flights, err := s.flightRepo.FindAll(ctx, flightsrepo.FlightFilter{}, 0, 0)
	if err != nil {
		return 0, apperrors.Internal("Failed to load flights for generation", err)
	}

	generated := 0
	for _, flight := range flights {
		count, err := s.generateForFlight(ctx, flight, start, end)
		if err != nil {
			return generated, err
		}
		generated += count
	}

	s.cfg.Log.Info("Leg generation completed",
		"start_date", startDate,
		"end_date", endDate,
		"flights", len(flights),
		"generated", generated,
	)
	return generated, nil
}

func (s *legService) generateForFlight(ctx context.Context, flight *model.Flight, start, end time.Time) (int, error) {
	origin, err := s.airportRepo.FindByIATACode(ctx, flight.OriginIATA)
	if err != nil {
		s.cfg.Log.Warn("Origin airport not found, skipping flight",
			"flight_number", flight.FlightNumber,
			"origin", flight.OriginIATA,
		)
		return 0, nil
	}
	destination, err := s.airportRepo.FindByIATACode(ctx, flight.DestinationIATA)
	if err != nil {
		s.cfg.Log.Warn("Destination airport not found, skipping flight",
			"flight_number", flight.FlightNumber,
			"destination", flight.DestinationIATA,
		)
		return 0, nil
	}

	operatesOn := map[int]bool{}
	for _, day := range flight.Frequency {
		operatesOn[day] = true
	}

	generated := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if !operatesOn[int(date.Weekday())] {
			continue
		}

		serviceDate := date.Format(dateLayout)
		_, err := s.legRepo.FindByFlightAndDate(ctx, flight.ID, serviceDate)
		if err == nil {
			continue // already materialized
		}
		if !errors.Is(err, legserrors.ErrNotFound) {
			return generated, apperrors.Internal("Failed to check existing leg", err)
		}

		departureUTC := localTimeToUTC(date, flight.DepartureTimeLocal, origin.Timezone, s.cfg)
		arrivalUTC := localTimeToUTC(date, flight.ArrivalTimeLocal, destination.Timezone, s.cfg)
		// Arrival before departure means the flight lands the next day.
		if arrivalUTC.Before(departureUTC) {
			arrivalUTC = arrivalUTC.AddDate(0, 0, 1)
		}

		leg := &model.Leg{
			FlightID:       flight.ID,
			ServiceDate:    serviceDate,
			DepartureUTC:   departureUTC,
			ArrivalUTC:     arrivalUTC,
			CapacityTotal:  s.cfg.DefaultLegCapacity,
			SeatsAvailable: s.cfg.DefaultLegCapacity,
			Version:        1,
		}

		if err := s.legRepo.Create(ctx, leg); err != nil {
			s.cfg.Log.Error("Failed to create leg",
				"flight_number", flight.FlightNumber,
				"service_date", serviceDate,
				"error", err,
			)
			continue
		}
		generated++
	}

	return generated, nil
}

// localTimeToUTC anchors an HH:MM local time on the given date and shifts it
// by the airport's UTC offset. Timezones not in ±HH:MM form are treated as
// UTC.
func localTimeToUTC(date time.Time, localTime, timezone string, cfg *config.Config) time.Time {
	parsed, err := time.Parse("15:04", localTime)
	if err != nil {
		cfg.Log.Warn("Invalid local time, using midnight", "local_time", localTime)
		parsed = time.Time{}
	}

	local := time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)

	match := offsetRegex.FindStringSubmatch(timezone)
	if match == nil {
		cfg.Log.Warn("Timezone is not a UTC offset, assuming UTC", "timezone", timezone)
		return local
	}

	offset := time.Duration(atoiOrZero(match[2]))*time.Hour + time.Duration(atoiOrZero(match[3]))*time.Minute
	if match[1] == "+" {
		return local.Add(-offset)
	}
	return local.Add(offset)
}

func atoiOrZero(s string) int {
	n := 0
	for _, ch := range s {
		n = n*10 + int(ch-'0')
	}
	return n
}

func (s *legService) GetByID(ctx context.Context, id string) (*model.Leg, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Leg ID cannot be empty")
	}

	leg, err := s.legRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, legserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Leg", id)
		}
		if errors.Is(err, legserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid leg ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve leg", err)
	}

	return leg, nil
}

func (s *legService) Search(ctx context.Context, filter repository.LegFilter) ([]*model.Leg, error) {
	legs, err := s.legRepo.FindMany(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to search legs", "error", err)
		return nil, apperrors.Internal("Failed to retrieve legs", err)
	}
	return legs, nil
}
