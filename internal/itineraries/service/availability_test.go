package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"skyfare/internal/legs/repository"
	"skyfare/pkg/config"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"
)

type mockItineraryRepository struct {
	itineraries []*model.Itinerary
}

func (m *mockItineraryRepository) Create(ctx context.Context, itinerary *model.Itinerary) error {
	m.itineraries = append(m.itineraries, itinerary)
	return nil
}

func (m *mockItineraryRepository) FindByID(ctx context.Context, id string) (*model.Itinerary, error) {
	for _, it := range m.itineraries {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, errors.New("itinerary not found")
}

func (m *mockItineraryRepository) FindMany(ctx context.Context) ([]*model.Itinerary, error) {
	return m.itineraries, nil
}

type mockLegFinder struct {
	legs map[string]*model.Leg
}

func (m *mockLegFinder) Create(ctx context.Context, leg *model.Leg) error { return nil }

func (m *mockLegFinder) FindByID(ctx context.Context, id string) (*model.Leg, error) {
	return nil, errors.New("not used")
}

func (m *mockLegFinder) FindByIDs(ctx context.Context, ids []string) ([]*model.Leg, error) {
	var result []*model.Leg
	for _, id := range ids {
		if leg, ok := m.legs[id]; ok {
			result = append(result, leg)
		}
	}
	return result, nil
}

func (m *mockLegFinder) FindByFlightAndDate(ctx context.Context, flightID, serviceDate string) (*model.Leg, error) {
	return nil, errors.New("not used")
}

func (m *mockLegFinder) FindMany(ctx context.Context, filter repository.LegFilter) ([]*model.Leg, error) {
	return nil, errors.New("not used")
}

func (m *mockLegFinder) ConditionalDecrement(ctx context.Context, legID string, expectedVersion int64, seats int) (bool, error) {
	return false, errors.New("not used")
}

func (m *mockLegFinder) Increment(ctx context.Context, legID string, seats int) error {
	return errors.New("not used")
}

type mockFlightResolver struct {
	flights map[string]*model.Flight
}

func (m *mockFlightResolver) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	flight, ok := m.flights[id]
	if !ok {
		return nil, errors.New("flight not found")
	}
	return flight, nil
}

type searchFixture struct {
	service     ItineraryService
	itineraries *mockItineraryRepository
	legs        *mockLegFinder
	flights     *mockFlightResolver
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		itineraries: &mockItineraryRepository{},
		legs:        &mockLegFinder{legs: map[string]*model.Leg{}},
		flights:     &mockFlightResolver{flights: map[string]*model.Flight{}},
	}
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
	}
	f.service = NewItineraryService(f.itineraries, f.legs, f.flights, cfg)
	return f
}

// addRoute registers a flight and a leg for it on 2026-09-07, departing and
// arriving at the given UTC hours.
func (f *searchFixture) addRoute(legID, flightID, origin, destination, airlineID, departureLocal string, departHour, arriveHour int) {
	f.flights.flights[flightID] = &model.Flight{
		ID:                 flightID,
		FlightNumber:       "SF" + legID,
		AirlineID:          airlineID,
		OriginIATA:         origin,
		DestinationIATA:    destination,
		DepartureTimeLocal: departureLocal,
		ArrivalTimeLocal:   "00:00",
		Frequency:          []int{1},
	}
	f.legs.legs[legID] = &model.Leg{
		ID:             legID,
		FlightID:       flightID,
		ServiceDate:    "2026-09-07",
		DepartureUTC:   time.Date(2026, 9, 7, departHour, 0, 0, 0, time.UTC),
		ArrivalUTC:     time.Date(2026, 9, 7, arriveHour, 0, 0, 0, time.UTC),
		CapacityTotal:  120,
		SeatsAvailable: 120,
		Version:        1,
	}
}

func (f *searchFixture) addItinerary(id string, legIDs ...string) {
	f.itineraries.itineraries = append(f.itineraries.itineraries, &model.Itinerary{
		ID:     id,
		LegIDs: legIDs,
	})
}

func TestSearchAvailability_DirectAndConnecting(t *testing.T) {
	f := newSearchFixture()
	// Direct AAA->CCC, 8 hours.
	f.addRoute("leg-direct", "fl-1", "AAA", "CCC", "al-1", "08:00", 8, 16)
	// Connection AAA->BBB->CCC, 6 hours total.
	f.addRoute("leg-a", "fl-2", "AAA", "BBB", "al-2", "07:00", 7, 9)
	f.addRoute("leg-b", "fl-3", "BBB", "CCC", "al-2", "11:00", 11, 13)
	f.addItinerary("itin-direct", "leg-direct")
	f.addItinerary("itin-conn", "leg-a", "leg-b")

	options, err := f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:        "AAA",
		Destination:   "CCC",
		DepartureDate: "2026-09-07",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	// Shorter total duration sorts first even with more stops.
	if options[0].ItineraryID != "itin-conn" {
		t.Errorf("expected itin-conn first (360 min), got %s", options[0].ItineraryID)
	}
	if options[0].TotalDurationMinutes != 360 || options[0].Stops != 1 {
		t.Errorf("itin-conn: expected 360 min / 1 stop, got %d / %d",
			options[0].TotalDurationMinutes, options[0].Stops)
	}
	if options[1].TotalDurationMinutes != 480 || options[1].Stops != 0 {
		t.Errorf("itin-direct: expected 480 min / 0 stops, got %d / %d",
			options[1].TotalDurationMinutes, options[1].Stops)
	}
}

func TestSearchAvailability_FiltersByRoute(t *testing.T) {
	f := newSearchFixture()
	f.addRoute("leg-1", "fl-1", "AAA", "CCC", "al-1", "08:00", 8, 16)
	f.addRoute("leg-2", "fl-2", "AAA", "DDD", "al-1", "08:00", 8, 16)
	f.addItinerary("itin-1", "leg-1")
	f.addItinerary("itin-2", "leg-2")

	options, err := f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:        "AAA",
		Destination:   "CCC",
		DepartureDate: "2026-09-07",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 || options[0].ItineraryID != "itin-1" {
		t.Errorf("expected only itin-1, got %+v", options)
	}
}

func TestSearchAvailability_AirlinePreference(t *testing.T) {
	f := newSearchFixture()
	f.addRoute("leg-1", "fl-1", "AAA", "CCC", "al-1", "08:00", 8, 16)
	f.addRoute("leg-2", "fl-2", "AAA", "CCC", "al-2", "09:00", 9, 17)
	f.addItinerary("itin-1", "leg-1")
	f.addItinerary("itin-2", "leg-2")

	options, err := f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:        "AAA",
		Destination:   "CCC",
		DepartureDate: "2026-09-07",
		Airlines:      []string{"al-2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 || options[0].ItineraryID != "itin-2" {
		t.Errorf("expected only the al-2 itinerary, got %+v", options)
	}
}

func TestSearchAvailability_ExcludeRedEye(t *testing.T) {
	f := newSearchFixture()
	// First leg departs 03:30 local, inside the red-eye window [00:00, 05:00).
	f.addRoute("leg-redeye", "fl-1", "AAA", "CCC", "al-1", "03:30", 3, 9)
	f.addRoute("leg-day", "fl-2", "AAA", "CCC", "al-1", "09:00", 9, 15)
	f.addItinerary("itin-redeye", "leg-redeye")
	f.addItinerary("itin-day", "leg-day")

	options, err := f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:        "AAA",
		Destination:   "CCC",
		DepartureDate: "2026-09-07",
		ExcludeRedEye: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 || options[0].ItineraryID != "itin-day" {
		t.Errorf("expected only the daytime itinerary, got %+v", options)
	}

	// 05:00 exactly is not red-eye.
	f2 := newSearchFixture()
	f2.addRoute("leg-5am", "fl-1", "AAA", "CCC", "al-1", "05:00", 5, 11)
	f2.addItinerary("itin-5am", "leg-5am")
	options, err = f2.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:        "AAA",
		Destination:   "CCC",
		DepartureDate: "2026-09-07",
		ExcludeRedEye: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 {
		t.Errorf("a 05:00 departure must survive the red-eye filter, got %+v", options)
	}
}

func TestSearchAvailability_MaxStopsAndDuration(t *testing.T) {
	f := newSearchFixture()
	f.addRoute("leg-direct", "fl-1", "AAA", "CCC", "al-1", "08:00", 8, 16)
	f.addRoute("leg-a", "fl-2", "AAA", "BBB", "al-1", "07:00", 7, 9)
	f.addRoute("leg-b", "fl-3", "BBB", "CCC", "al-1", "11:00", 11, 13)
	f.addItinerary("itin-direct", "leg-direct")
	f.addItinerary("itin-conn", "leg-a", "leg-b")

	zero := 0
	options, err := f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:        "AAA",
		Destination:   "CCC",
		DepartureDate: "2026-09-07",
		MaxStops:      &zero,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 || options[0].ItineraryID != "itin-direct" {
		t.Errorf("max_stops=0 must keep only the direct option, got %+v", options)
	}

	maxDuration := 400
	options, err = f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:                  "AAA",
		Destination:             "CCC",
		DepartureDate:           "2026-09-07",
		MaxTotalDurationMinutes: &maxDuration,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 || options[0].ItineraryID != "itin-conn" {
		t.Errorf("max duration 400 must keep only the 360-minute option, got %+v", options)
	}
}

func TestSearchAvailability_SkipsDanglingReferences(t *testing.T) {
	f := newSearchFixture()
	f.addRoute("leg-1", "fl-1", "AAA", "CCC", "al-1", "08:00", 8, 16)
	f.addItinerary("itin-ok", "leg-1")
	f.addItinerary("itin-broken", "leg-missing")

	options, err := f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:        "AAA",
		Destination:   "CCC",
		DepartureDate: "2026-09-07",
	})
	if err != nil {
		t.Fatalf("a broken itinerary must be skipped, not fail the search: %v", err)
	}
	if len(options) != 1 || options[0].ItineraryID != "itin-ok" {
		t.Errorf("expected only itin-ok, got %+v", options)
	}
}

func TestSearchAvailability_RequiredParameters(t *testing.T) {
	f := newSearchFixture()

	_, err := f.service.SearchAvailability(context.Background(), AvailabilityQuery{
		Origin:      "AAA",
		Destination: "CCC",
	})
	if err == nil {
		t.Error("expected error for missing departure_date")
	}
}

func TestCreate_RejectsUnknownLegs(t *testing.T) {
	f := newSearchFixture()
	f.addRoute("leg-1", "fl-1", "AAA", "CCC", "al-1", "08:00", 8, 16)

	err := f.service.Create(context.Background(), &model.Itinerary{
		LegIDs: []string{"leg-1", "leg-missing"},
	})
	if err == nil {
		t.Error("expected error when an itinerary references a missing leg")
	}

	if err := f.service.Create(context.Background(), &model.Itinerary{ID: "itin-1", LegIDs: []string{"leg-1"}}); err != nil {
		t.Errorf("unexpected error for a valid itinerary: %v", err)
	}
}
