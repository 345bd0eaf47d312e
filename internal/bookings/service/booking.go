package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "skyfare/internal/bookings/errors"
	"skyfare/internal/bookings/repository"
	itinerarieserrors "skyfare/internal/itineraries/errors"
	itinerariesrepo "skyfare/internal/itineraries/repository"
	legsrepo "skyfare/internal/legs/repository"
	"skyfare/pkg/config"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/events"
	"skyfare/pkg/metrics"
	"skyfare/pkg/model"

	"github.com/google/uuid"
)

// Every booking claims exactly one seat per leg of its itinerary.
const seatsPerBooking = 1

type CreateBookingInput struct {
	UserID         string
	ItineraryID    string
	IdempotencyKey string
}

type BookingService interface {
	Create(ctx context.Context, input CreateBookingInput) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID string) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo          repository.BookingRepository
	idempotency   repository.IdempotencyStore
	itineraryRepo itinerariesrepo.ItineraryRepository
	legRepo       legsrepo.LegRepository
	reporter      metrics.Reporter
	publisher     events.Publisher
	cfg           *config.Config
}

// NewBookingService wires the reservation and cancellation coordinators.
// publisher may be nil when no broker is configured.
func NewBookingService(
	repo repository.BookingRepository,
	idempotency repository.IdempotencyStore,
	itineraryRepo itinerariesrepo.ItineraryRepository,
	legRepo legsrepo.LegRepository,
	reporter metrics.Reporter,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:          repo,
		idempotency:   idempotency,
		itineraryRepo: itineraryRepo,
		legRepo:       legRepo,
		reporter:      reporter,
		publisher:     publisher,
		cfg:           cfg,
	}
}

// Create reserves one seat on every leg of the itinerary, strictly in
// itinerary order, then records the booking. There is no multi-document
// transaction: each leg is claimed by an independent conditional decrement,
// and a failure at leg i releases legs [0, i) by the exact inverse
// increment. A failed call leaves every leg's seat count net-unchanged.
func (s *bookingService) Create(ctx context.Context, input CreateBookingInput) (*model.Booking, error) {
	if input.IdempotencyKey == "" {
		return nil, apperrors.InvalidInput("Idempotency key is required")
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("User ID is required")
	}

	start := time.Now()

	// Replay detection. A hit returns the original booking with no new
	// mutation; the caller cannot tell a replay from a first call.
	existing, err := s.idempotency.Get(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, apperrors.Internal("Failed to check idempotency key", err)
	}
	if existing != nil {
		s.cfg.Log.Info("Booking request replayed from idempotency cache",
			"idempotency_key", input.IdempotencyKey,
			"booking_id", existing.ID,
		)
		return existing, nil
	}

	legs, err := s.resolveLegs(ctx, input.ItineraryID)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check only: a concurrent writer can invalidate it before
	// the reservation phase below, which is why every decrement re-checks
	// atomically.
	for _, leg := range legs {
		if !leg.HasAvailableSeats(seatsPerBooking) {
			traceID := uuid.NewString()
			s.reporter.SeatConflict()
			s.cfg.Log.Warn("Seat availability pre-check failed",
				"itinerary_id", input.ItineraryID,
				"leg_id", leg.ID,
				"trace_id", traceID,
			)
			return nil, apperrors.SeatUnavailable(
				fmt.Sprintf("No seats available for leg %s", leg.ID), traceID)
		}
	}

	// Reservation phase. reserved is the explicit list of resources mutated
	// so far; rollback walks it, never ambient state.
	reserved := make([]*model.Leg, 0, len(legs))
	for _, leg := range legs {
		applied, err := s.legRepo.ConditionalDecrement(ctx, leg.ID, leg.Version, seatsPerBooking)
		if err != nil {
			s.releaseSeats(ctx, reserved, "reservation rollback")
			return nil, apperrors.Internal("Failed to reserve seat", err)
		}
		if !applied {
			s.releaseSeats(ctx, reserved, "reservation rollback")
			traceID := uuid.NewString()
			s.reporter.SeatConflict()
			s.cfg.Log.Warn("Seat reservation lost to concurrent writer or exhausted capacity",
				"itinerary_id", input.ItineraryID,
				"leg_id", leg.ID,
				"expected_version", leg.Version,
				"trace_id", traceID,
			)
			return nil, apperrors.SeatUnavailable("No seats available for one or more legs", traceID)
		}
		reserved = append(reserved, leg)
	}

	booking := &model.Booking{
		UserID:      input.UserID,
		ItineraryID: input.ItineraryID,
		Status:      model.BookingStatusConfirmed,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		Version:     1,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		// Ledger write failed: every reserved seat goes back, then the
		// underlying failure propagates.
		s.releaseSeats(ctx, reserved, "ledger failure rollback")
		return nil, apperrors.Internal("Failed to persist booking", err)
	}

	if err := s.idempotency.Set(ctx, input.IdempotencyKey, *booking); err != nil {
		// The booking is valid; only replay protection for this key is lost.
		s.cfg.Log.Error("Failed to record idempotency key",
			"idempotency_key", input.IdempotencyKey,
			"booking_id", booking.ID,
			"error", err,
		)
	}

	s.reporter.BookingCreated()
	s.reporter.ObserveReservationSeconds(time.Since(start).Seconds())
	s.publish(ctx, events.TypeBookingCreated, *booking)

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"user_id", booking.UserID,
		"itinerary_id", booking.ItineraryID,
		"legs", len(legs),
	)
	return booking, nil
}

// Cancel releases one seat on every leg of the booking's itinerary and
// moves the booking to CANCELLED. Cancelling an already-cancelled booking
// has no effect. Seat releases are best-effort: a failing leg is recorded
// and skipped, so a partial failure can under-restore capacity — accepted
// in favor of letting the cancellation finish.
func (s *bookingService) Cancel(ctx context.Context, bookingID string) error {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.Status == model.BookingStatusCancelled {
		s.cfg.Log.Info("Booking already cancelled", "booking_id", bookingID)
		return nil
	}

	itinerary, err := s.itineraryRepo.FindByID(ctx, booking.ItineraryID)
	if err != nil {
		if errors.Is(err, itinerarieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Itinerary", booking.ItineraryID)
		}
		return apperrors.Internal("Failed to retrieve itinerary", err)
	}

	outcomes := make([]seatRelease, 0, len(itinerary.LegIDs))
	for _, legID := range itinerary.LegIDs {
		err := s.legRepo.Increment(ctx, legID, seatsPerBooking)
		outcomes = append(outcomes, seatRelease{LegID: legID, Err: err})
		if err != nil {
			s.reporter.CompensationFailure()
			s.cfg.Log.Error("Failed to release seat during cancellation",
				"booking_id", bookingID,
				"leg_id", legID,
				"error", err,
			)
		}
	}

	booking.Status = model.BookingStatusCancelled
	booking.Version++

	if err := s.repo.Update(ctx, booking); err != nil {
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.reporter.BookingCancelled()
	s.publish(ctx, events.TypeBookingCancelled, *booking)

	s.cfg.Log.Info("Booking cancelled successfully",
		"booking_id", bookingID,
		"released_legs", countReleased(outcomes),
		"failed_legs", len(outcomes)-countReleased(outcomes),
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// resolveLegs loads the itinerary and its leg snapshots, reordered into
// itinerary order. The reservation phase depends on that order being
// strict.
func (s *bookingService) resolveLegs(ctx context.Context, itineraryID string) ([]*model.Leg, error) {
	itinerary, err := s.itineraryRepo.FindByID(ctx, itineraryID)
	if err != nil {
		if errors.Is(err, itinerarieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Itinerary", itineraryID)
		}
		if errors.Is(err, itinerarieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid itinerary ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve itinerary", err)
	}

	snapshots, err := s.legRepo.FindByIDs(ctx, itinerary.LegIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve itinerary legs", err)
	}

	byID := make(map[string]*model.Leg, len(snapshots))
	for _, leg := range snapshots {
		byID[leg.ID] = leg
	}

	ordered := make([]*model.Leg, 0, len(itinerary.LegIDs))
	for _, legID := range itinerary.LegIDs {
		leg, found := byID[legID]
		if !found {
			return nil, apperrors.NotFoundWithID("Leg", legID)
		}
		ordered = append(ordered, leg)
	}

	return ordered, nil
}

// seatRelease is the per-leg outcome of a compensation or cancellation
// increment. Failures are collected, not escalated.
type seatRelease struct {
	LegID string
	Err   error
}

// releaseSeats undoes prior decrements in the same order they were applied.
// A failing leg is recorded and skipped; the remaining legs are still
// released.
func (s *bookingService) releaseSeats(ctx context.Context, reserved []*model.Leg, reason string) []seatRelease {
	outcomes := make([]seatRelease, 0, len(reserved))
	for _, leg := range reserved {
		err := s.legRepo.Increment(ctx, leg.ID, seatsPerBooking)
		outcomes = append(outcomes, seatRelease{LegID: leg.ID, Err: err})
		if err != nil {
			s.reporter.CompensationFailure()
			s.cfg.Log.Error("Failed to release reserved seat",
				"reason", reason,
				"leg_id", leg.ID,
				"error", err,
			)
		}
	}
	return outcomes
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking model.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBooking(ctx, eventType, booking); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func countReleased(outcomes []seatRelease) int {
	released := 0
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			released++
		}
	}
	return released
}
