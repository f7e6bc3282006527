package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/repository/postgres"
	"quickcourt/internal/util"
)

// BookingService reserves courts for users. A booking belongs to the caller
// that created it; only the booker or an admin can cancel.
type BookingService struct {
	bookings postgres.BookingRepository
	courts   postgres.CourtRepository
	logger   *zap.Logger
}

func NewBookingService(bookings postgres.BookingRepository, courts postgres.CourtRepository, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = util.Get()
	}
	return &BookingService{bookings: bookings, courts: courts, logger: logger}
}

func (s *BookingService) CreateBooking(ctx context.Context, caller *models.User, booking *models.Booking) error {
	if booking.CourtID == "" || booking.StartTime == "" || booking.EndTime == "" || booking.Date.IsZero() {
		return fmt.Errorf("%w: courtId, date, startTime and endTime are required", ErrInvalidInput)
	}
	if booking.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	court, err := s.courts.FindByID(ctx, booking.CourtID)
	if errors.Is(err, postgres.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// Reject any overlap with an existing confirmed slot on the same court.
	existing, err := s.bookings.ListByCourt(ctx, booking.CourtID)
	if err != nil {
		return err
	}
	for _, b := range existing {
		if b.Status == models.BookingCancelled {
			continue
		}
		if sameDay(b.Date, booking.Date) && slotsOverlap(b.StartTime, b.EndTime, booking.StartTime, booking.EndTime) {
			return fmt.Errorf("%w: slot is already booked", ErrInvalidInput)
		}
	}

	booking.UserID = caller.ID
	booking.Status = models.BookingConfirmed
	booking.PaymentStatus = models.PaymentPending
	if err := s.bookings.Create(ctx, booking); err != nil {
		return err
	}
	s.logger.Info("booking created",
		util.String("booking_id", booking.ID),
		util.String("court_id", court.ID),
		util.String("user_id", caller.ID))
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, caller *models.User, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if booking.UserID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListMyBookings(ctx context.Context, caller *models.User) ([]models.Booking, error) {
	return s.bookings.ListByUser(ctx, caller.ID)
}

func (s *BookingService) CancelBooking(ctx context.Context, caller *models.User, id string) error {
	booking, err := s.GetBooking(ctx, caller, id)
	if err != nil {
		return err
	}
	if booking.Status == models.BookingCancelled {
		return nil
	}
	if booking.Status == models.BookingCompleted {
		return fmt.Errorf("%w: completed bookings cannot be cancelled", ErrInvalidInput)
	}
	booking.Status = models.BookingCancelled
	if booking.PaymentStatus == models.PaymentPaid {
		booking.PaymentStatus = models.PaymentRefund
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return err
	}
	s.logger.Info("booking cancelled", util.String("booking_id", id))
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// slotsOverlap compares "HH:MM" strings; lexical order matches temporal
// order for zero-padded 24h times.
func slotsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
