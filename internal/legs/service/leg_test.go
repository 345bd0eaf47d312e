package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	flightsrepo "skyfare/internal/flights/repository"
	legserrors "skyfare/internal/legs/errors"
	"skyfare/internal/legs/repository"
	"skyfare/pkg/config"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"
)

type mockLegRepository struct {
	created             []*model.Leg
	findByFlightAndDate func(ctx context.Context, flightID, serviceDate string) (*model.Leg, error)
}

func (m *mockLegRepository) Create(ctx context.Context, leg *model.Leg) error {
	m.created = append(m.created, leg)
	return nil
}

func (m *mockLegRepository) FindByID(ctx context.Context, id string) (*model.Leg, error) {
	return nil, legserrors.ErrNotFound
}

func (m *mockLegRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Leg, error) {
	return nil, nil
}

func (m *mockLegRepository) FindByFlightAndDate(ctx context.Context, flightID, serviceDate string) (*model.Leg, error) {
	if m.findByFlightAndDate != nil {
		return m.findByFlightAndDate(ctx, flightID, serviceDate)
	}
	return nil, legserrors.ErrNotFound
}

func (m *mockLegRepository) FindMany(ctx context.Context, filter repository.LegFilter) ([]*model.Leg, error) {
	return nil, nil
}

func (m *mockLegRepository) ConditionalDecrement(ctx context.Context, legID string, expectedVersion int64, seats int) (bool, error) {
	return false, errors.New("not used in generation tests")
}

func (m *mockLegRepository) Increment(ctx context.Context, legID string, seats int) error {
	return errors.New("not used in generation tests")
}

type mockFlightRepository struct {
	flights []*model.Flight
}

func (m *mockFlightRepository) Create(ctx context.Context, flight *model.Flight) error {
	return nil
}

func (m *mockFlightRepository) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	for _, f := range m.flights {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, errors.New("flight not found")
}

func (m *mockFlightRepository) FindAll(ctx context.Context, filter flightsrepo.FlightFilter, limit, offset int) ([]*model.Flight, error) {
	return m.flights, nil
}

func (m *mockFlightRepository) Count(ctx context.Context, filter flightsrepo.FlightFilter) (int64, error) {
	return int64(len(m.flights)), nil
}

func (m *mockFlightRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockAirportRepository struct {
	airports map[string]*model.Airport
}

func (m *mockAirportRepository) Create(ctx context.Context, airport *model.Airport) error {
	return nil
}

func (m *mockAirportRepository) FindByID(ctx context.Context, id string) (*model.Airport, error) {
	return nil, errors.New("not used in generation tests")
}

func (m *mockAirportRepository) FindByIATACode(ctx context.Context, iataCode string) (*model.Airport, error) {
	airport, ok := m.airports[iataCode]
	if !ok {
		return nil, errors.New("airport not found")
	}
	return airport, nil
}

func (m *mockAirportRepository) FindAll(ctx context.Context, limit, offset int) ([]*model.Airport, error) {
	return nil, nil
}

func (m *mockAirportRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.airports)), nil
}

func (m *mockAirportRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
		DefaultLegCapacity: 120,
	}
}

func newGenerationService(flights []*model.Flight, airports map[string]*model.Airport) (*legService, *mockLegRepository) {
	legRepo := &mockLegRepository{}
	return &legService{
		legRepo:     legRepo,
		flightRepo:  &mockFlightRepository{flights: flights},
		airportRepo: &mockAirportRepository{airports: airports},
		cfg:         testConfig(),
	}, legRepo
}

func utcAirports() map[string]*model.Airport {
	return map[string]*model.Airport{
		"AAA": {ID: "ap-1", Name: "Alpha", IATACode: "AAA", Timezone: "+00:00"},
		"BBB": {ID: "ap-2", Name: "Bravo", IATACode: "BBB", Timezone: "+00:00"},
	}
}

// 2026-09-07 is a Monday.
func weekFlight(frequency []int) *model.Flight {
	return &model.Flight{
		ID:                 "flight-1",
		FlightNumber:       "SF100",
		AirlineID:          "al-1",
		OriginIATA:         "AAA",
		DestinationIATA:    "BBB",
		DepartureTimeLocal: "08:00",
		ArrivalTimeLocal:   "11:30",
		Frequency:          frequency,
	}
}

func TestGenerate_WeekdayFrequency(t *testing.T) {
	// Monday (1) and Thursday (4) over a full week window.
	svc, legRepo := newGenerationService([]*model.Flight{weekFlight([]int{1, 4})}, utcAirports())

	generated, err := svc.Generate(context.Background(), "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated != 2 {
		t.Fatalf("expected 2 legs, got %d", generated)
	}

	wantDates := []string{"2026-09-07", "2026-09-10"}
	for i, leg := range legRepo.created {
		if leg.ServiceDate != wantDates[i] {
			t.Errorf("leg %d: expected service date %s, got %s", i, wantDates[i], leg.ServiceDate)
		}
		if leg.CapacityTotal != 120 || leg.SeatsAvailable != 120 {
			t.Errorf("leg %d: expected full capacity 120, got total=%d available=%d",
				i, leg.CapacityTotal, leg.SeatsAvailable)
		}
		if leg.Version != 1 {
			t.Errorf("leg %d: expected version 1, got %d", i, leg.Version)
		}
	}
}

func TestGenerate_SkipsExistingLegs(t *testing.T) {
	svc, legRepo := newGenerationService([]*model.Flight{weekFlight([]int{1})}, utcAirports())
	legRepo.findByFlightAndDate = func(ctx context.Context, flightID, serviceDate string) (*model.Leg, error) {
		if serviceDate == "2026-09-07" {
			return &model.Leg{ID: "existing"}, nil
		}
		return nil, legserrors.ErrNotFound
	}

	generated, err := svc.Generate(context.Background(), "2026-09-07", "2026-09-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Mondays in window: 09-07 (exists) and 09-14.
	if generated != 1 {
		t.Fatalf("expected 1 new leg, got %d", generated)
	}
	if legRepo.created[0].ServiceDate != "2026-09-14" {
		t.Errorf("expected 2026-09-14, got %s", legRepo.created[0].ServiceDate)
	}
}

func TestGenerate_OffsetConversion(t *testing.T) {
	airports := map[string]*model.Airport{
		"AAA": {ID: "ap-1", Name: "Alpha", IATACode: "AAA", Timezone: "+02:00"},
		"BBB": {ID: "ap-2", Name: "Bravo", IATACode: "BBB", Timezone: "-05:30"},
	}
	svc, legRepo := newGenerationService([]*model.Flight{weekFlight([]int{1})}, airports)

	generated, err := svc.Generate(context.Background(), "2026-09-07", "2026-09-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated != 1 {
		t.Fatalf("expected 1 leg, got %d", generated)
	}

	leg := legRepo.created[0]
	// 08:00 at +02:00 is 06:00 UTC.
	wantDeparture := time.Date(2026, 9, 7, 6, 0, 0, 0, time.UTC)
	if !leg.DepartureUTC.Equal(wantDeparture) {
		t.Errorf("expected departure %v, got %v", wantDeparture, leg.DepartureUTC)
	}
	// 11:30 at -05:30 is 17:00 UTC.
	wantArrival := time.Date(2026, 9, 7, 17, 0, 0, 0, time.UTC)
	if !leg.ArrivalUTC.Equal(wantArrival) {
		t.Errorf("expected arrival %v, got %v", wantArrival, leg.ArrivalUTC)
	}
}

func TestGenerate_OvernightArrival(t *testing.T) {
	flight := weekFlight([]int{1})
	flight.DepartureTimeLocal = "23:00"
	flight.ArrivalTimeLocal = "01:30"
	svc, legRepo := newGenerationService([]*model.Flight{flight}, utcAirports())

	generated, err := svc.Generate(context.Background(), "2026-09-07", "2026-09-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated != 1 {
		t.Fatalf("expected 1 leg, got %d", generated)
	}

	leg := legRepo.created[0]
	if !leg.ArrivalUTC.After(leg.DepartureUTC) {
		t.Errorf("overnight arrival must land the next day: departure=%v arrival=%v",
			leg.DepartureUTC, leg.ArrivalUTC)
	}
	wantArrival := time.Date(2026, 9, 8, 1, 30, 0, 0, time.UTC)
	if !leg.ArrivalUTC.Equal(wantArrival) {
		t.Errorf("expected arrival %v, got %v", wantArrival, leg.ArrivalUTC)
	}
}

func TestGenerate_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	airports := map[string]*model.Airport{
		"AAA": {ID: "ap-1", Name: "Alpha", IATACode: "AAA", Timezone: "America/New_York"},
		"BBB": {ID: "ap-2", Name: "Bravo", IATACode: "BBB", Timezone: "+00:00"},
	}
	svc, legRepo := newGenerationService([]*model.Flight{weekFlight([]int{1})}, airports)

	if _, err := svc.Generate(context.Background(), "2026-09-07", "2026-09-08"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leg := legRepo.created[0]
	wantDeparture := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	if !leg.DepartureUTC.Equal(wantDeparture) {
		t.Errorf("IANA names are not offsets and must fall back to UTC: expected %v, got %v",
			wantDeparture, leg.DepartureUTC)
	}
}

func TestGenerate_SkipsFlightWithMissingAirport(t *testing.T) {
	airports := map[string]*model.Airport{
		"AAA": {ID: "ap-1", Name: "Alpha", IATACode: "AAA", Timezone: "+00:00"},
		// BBB missing
	}
	svc, legRepo := newGenerationService([]*model.Flight{weekFlight([]int{1})}, airports)

	generated, err := svc.Generate(context.Background(), "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("a missing airport must skip the flight, not fail the run: %v", err)
	}
	if generated != 0 || len(legRepo.created) != 0 {
		t.Errorf("expected no legs for a flight with a dangling airport, got %d", generated)
	}
}

func TestGenerate_InvalidDates(t *testing.T) {
	svc, _ := newGenerationService(nil, nil)

	cases := []struct {
		name       string
		start, end string
	}{
		{"malformed start", "07-09-2026", "2026-09-13"},
		{"malformed end", "2026-09-07", "next week"},
		{"start after end", "2026-09-13", "2026-09-07"},
		{"start equals end", "2026-09-07", "2026-09-07"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Generate(context.Background(), tc.start, tc.end); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGenerate_MultipleFlights(t *testing.T) {
	second := weekFlight([]int{1})
	second.ID = "flight-2"
	second.FlightNumber = "SF200"

	svc, legRepo := newGenerationService([]*model.Flight{weekFlight([]int{1}), second}, utcAirports())

	generated, err := svc.Generate(context.Background(), "2026-09-07", "2026-09-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated != 2 {
		t.Fatalf("expected 2 legs across 2 flights, got %d", generated)
	}

	seen := map[string]bool{}
	for _, leg := range legRepo.created {
		seen[leg.FlightID] = true
	}
	for _, id := range []string{"flight-1", "flight-2"} {
		if !seen[id] {
			t.Errorf("expected a leg for %s", id)
		}
	}
}
