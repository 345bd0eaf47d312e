package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/model"
)

type AvailabilityQuery struct {
	Origin                  string
	Destination             string
	DepartureDate           string
	Airlines                []string
	MaxStops                *int
	ExcludeRedEye           bool
	MaxTotalDurationMinutes *int
}

// LegOption is a leg snapshot enriched with the route data of its flight.
type LegOption struct {
	Leg                model.Leg `json:"leg"`
	OriginIATA         string    `json:"origin_iata"`
	DestinationIATA    string    `json:"destination_iata"`
	AirlineID          string    `json:"airline_id"`
	DepartureTimeLocal string    `json:"departure_time_local"`
}

type ItineraryOption struct {
	ItineraryID          string      `json:"itinerary_id"`
	Legs                 []LegOption `json:"legs"`
	TotalDurationMinutes int         `json:"total_duration_minutes"`
	Stops                int         `json:"stops"`
}

// SearchAvailability filters existing itineraries against the query and
// returns options sorted by total duration, then by number of stops. Seat
// counts in the result are point-in-time snapshots; only CreateBooking can
// claim them.
func (s *itineraryService) SearchAvailability(ctx context.Context, query AvailabilityQuery) ([]ItineraryOption, error) {
	if query.Origin == "" || query.Destination == "" || query.DepartureDate == "" {
		return nil, apperrors.InvalidInput("origin, destination and departure_date are required")
	}

	itineraries, err := s.repo.FindMany(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load itineraries for availability search", "error", err)
		return nil, apperrors.Internal("Failed to search availability", err)
	}

	options := make([]ItineraryOption, 0)
	for _, itinerary := range itineraries {
		option, ok, err := s.resolveOption(ctx, itinerary)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if s.matches(option, query) {
			options = append(options, option)
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].TotalDurationMinutes != options[j].TotalDurationMinutes {
			return options[i].TotalDurationMinutes < options[j].TotalDurationMinutes
		}
		return options[i].Stops < options[j].Stops
	})

	s.cfg.Log.Debug("Availability search completed",
		"origin", query.Origin,
		"destination", query.Destination,
		"departure_date", query.DepartureDate,
		"results", len(options),
	)
	return options, nil
}

// resolveOption materializes the legs of an itinerary in order, enriched
// with flight route data. Itineraries with dangling leg or flight
// references are skipped rather than failing the whole search.
func (s *itineraryService) resolveOption(ctx context.Context, itinerary *model.Itinerary) (ItineraryOption, bool, error) {
	legs, err := s.legRepo.FindByIDs(ctx, itinerary.LegIDs)
	if err != nil {
		return ItineraryOption{}, false, apperrors.Internal("Failed to resolve legs", err)
	}

	byID := make(map[string]*model.Leg, len(legs))
	for _, leg := range legs {
		byID[leg.ID] = leg
	}

	ordered := make([]LegOption, 0, len(itinerary.LegIDs))
	for _, legID := range itinerary.LegIDs {
		leg, found := byID[legID]
		if !found {
			s.cfg.Log.Warn("Itinerary references missing leg, skipping",
				"itinerary_id", itinerary.ID,
				"leg_id", legID,
			)
			return ItineraryOption{}, false, nil
		}

		flight, err := s.flightRepo.FindByID(ctx, leg.FlightID)
		if err != nil {
			s.cfg.Log.Warn("Leg references missing flight, skipping itinerary",
				"itinerary_id", itinerary.ID,
				"leg_id", legID,
				"flight_id", leg.FlightID,
			)
			return ItineraryOption{}, false, nil
		}

		ordered = append(ordered, LegOption{
			Leg:                *leg,
			OriginIATA:         flight.OriginIATA,
			DestinationIATA:    flight.DestinationIATA,
			AirlineID:          flight.AirlineID,
			DepartureTimeLocal: flight.DepartureTimeLocal,
		})
	}

	if len(ordered) == 0 {
		return ItineraryOption{}, false, nil
	}

	first := ordered[0]
	last := ordered[len(ordered)-1]
	duration := int(last.Leg.ArrivalUTC.Sub(first.Leg.DepartureUTC).Minutes())

	return ItineraryOption{
		ItineraryID:          itinerary.ID,
		Legs:                 ordered,
		TotalDurationMinutes: duration,
		Stops:                len(ordered) - 1,
	}, true, nil
}

func (s *itineraryService) matches(option ItineraryOption, query AvailabilityQuery) bool {
	first := option.Legs[0]
	last := option.Legs[len(option.Legs)-1]

	if first.OriginIATA != query.Origin {
		return false
	}
	if last.DestinationIATA != query.Destination {
		return false
	}
	if first.Leg.ServiceDate != query.DepartureDate {
		return false
	}

	if len(query.Airlines) > 0 {
		preferred := false
		for _, leg := range option.Legs {
			for _, airlineID := range query.Airlines {
				if leg.AirlineID == airlineID {
					preferred = true
				}
			}
		}
		if !preferred {
			return false
		}
	}

	if query.ExcludeRedEye {
		hour, ok := departureHour(first.DepartureTimeLocal)
		if !ok {
			return false
		}
		if hour >= 0 && hour < 5 {
			return false
		}
	}

	if query.MaxStops != nil && option.Stops > *query.MaxStops {
		return false
	}

	if query.MaxTotalDurationMinutes != nil && option.TotalDurationMinutes > *query.MaxTotalDurationMinutes {
		return false
	}

	return true
}

func departureHour(localTime string) (int, bool) {
	parts := strings.SplitN(localTime, ":", 2)
	if len(parts) < 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return hour, true
}
