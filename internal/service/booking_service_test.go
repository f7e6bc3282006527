package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/repository/postgres"
)

type fakeCourtRepo struct {
	courts map[string]*models.Court
}

func (r *fakeCourtRepo) FindByID(_ context.Context, id string) (*models.Court, error) {
	c, ok := r.courts[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return c, nil
}

func (r *fakeCourtRepo) ListByFacility(_ context.Context, facilityID string) ([]models.Court, error) {
	var out []models.Court
	for _, c := range r.courts {
		if c.FacilityID == facilityID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourtRepo) Create(_ context.Context, court *models.Court) error {
	if court.ID == "" {
		court.ID = "court-" + court.Name
	}
	r.courts[court.ID] = court
	return nil
}

func (r *fakeCourtRepo) Update(_ context.Context, court *models.Court) error {
	r.courts[court.ID] = court
	return nil
}

func (r *fakeCourtRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.courts[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.courts, id)
	return nil
}

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	seq      int
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByCourt(_ context.Context, courtID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CourtID == courtID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.seq++
	if booking.ID == "" {
		booking.ID = "booking-" + string(rune('a'+r.seq))
	}
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func newBookingFixture() (*BookingService, *fakeBookingRepo, *fakeCourtRepo) {
	courts := &fakeCourtRepo{courts: map[string]*models.Court{
		"court-1": {BaseModel: models.BaseModel{ID: "court-1"}, FacilityID: "fac-1", Name: "Court 1", SportType: models.SportBadminton, PricePerHour: 20},
	}}
	bookings := &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
	return NewBookingService(bookings, courts, zap.NewNop()), bookings, courts
}

func testUser(id string, role models.UserRole) *models.User {
	return &models.User{BaseModel: models.BaseModel{ID: id}, Email: id + "@example.com", Role: role}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	t.Run("books a free slot", func(t *testing.T) {
		svc, _, _ := newBookingFixture()
		b := &models.Booking{CourtID: "court-1", Date: date, StartTime: "10:00", EndTime: "11:00", Duration: 1}
		require.NoError(t, svc.CreateBooking(ctx, testUser("u1", models.RoleUser), b))
		assert.Equal(t, "u1", b.UserID)
		assert.Equal(t, models.BookingConfirmed, b.Status)
		assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	})

	t.Run("rejects overlapping slot on the same day", func(t *testing.T) {
		svc, _, _ := newBookingFixture()
		first := &models.Booking{CourtID: "court-1", Date: date, StartTime: "10:00", EndTime: "12:00", Duration: 2}
		require.NoError(t, svc.CreateBooking(ctx, testUser("u1", models.RoleUser), first))

		overlap := &models.Booking{CourtID: "court-1", Date: date, StartTime: "11:00", EndTime: "13:00", Duration: 2}
		err := svc.CreateBooking(ctx, testUser("u2", models.RoleUser), overlap)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("adjacent slots do not collide", func(t *testing.T) {
		svc, _, _ := newBookingFixture()
		first := &models.Booking{CourtID: "court-1", Date: date, StartTime: "10:00", EndTime: "11:00", Duration: 1}
		require.NoError(t, svc.CreateBooking(ctx, testUser("u1", models.RoleUser), first))

		next := &models.Booking{CourtID: "court-1", Date: date, StartTime: "11:00", EndTime: "12:00", Duration: 1}
		assert.NoError(t, svc.CreateBooking(ctx, testUser("u2", models.RoleUser), next))
	})

	t.Run("same slot on another day is free", func(t *testing.T) {
		svc, _, _ := newBookingFixture()
		first := &models.Booking{CourtID: "court-1", Date: date, StartTime: "10:00", EndTime: "11:00", Duration: 1}
		require.NoError(t, svc.CreateBooking(ctx, testUser("u1", models.RoleUser), first))

		nextDay := &models.Booking{CourtID: "court-1", Date: date.AddDate(0, 0, 1), StartTime: "10:00", EndTime: "11:00", Duration: 1}
		assert.NoError(t, svc.CreateBooking(ctx, testUser("u2", models.RoleUser), nextDay))
	})

	t.Run("cancelled slot can be rebooked", func(t *testing.T) {
		svc, _, _ := newBookingFixture()
		user := testUser("u1", models.RoleUser)
		first := &models.Booking{CourtID: "court-1", Date: date, StartTime: "10:00", EndTime: "11:00", Duration: 1}
		require.NoError(t, svc.CreateBooking(ctx, user, first))
		require.NoError(t, svc.CancelBooking(ctx, user, first.ID))

		again := &models.Booking{CourtID: "court-1", Date: date, StartTime: "10:00", EndTime: "11:00", Duration: 1}
		assert.NoError(t, svc.CreateBooking(ctx, testUser("u2", models.RoleUser), again))
	})

	t.Run("unknown court", func(t *testing.T) {
		svc, _, _ := newBookingFixture()
		b := &models.Booking{CourtID: "missing", Date: date, StartTime: "10:00", EndTime: "11:00", Duration: 1}
		assert.ErrorIs(t, svc.CreateBooking(ctx, testUser("u1", models.RoleUser), b), ErrNotFound)
	})
}

func TestBookingOwnership(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	svc, _, _ := newBookingFixture()

	owner := testUser("u1", models.RoleUser)
	booking := &models.Booking{CourtID: "court-1", Date: date, StartTime: "10:00", EndTime: "11:00", Duration: 1}
	require.NoError(t, svc.CreateBooking(ctx, owner, booking))

	t.Run("another user cannot read or cancel", func(t *testing.T) {
		_, err := svc.GetBooking(ctx, testUser("u2", models.RoleUser), booking.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, svc.CancelBooking(ctx, testUser("u2", models.RoleUser), booking.ID), ErrForbidden)
	})

	t.Run("admin can read", func(t *testing.T) {
		_, err := svc.GetBooking(ctx, testUser("root", models.RoleAdmin), booking.ID)
		assert.NoError(t, err)
	})

	t.Run("owner cancels, refund follows payment state", func(t *testing.T) {
		got, err := svc.GetBooking(ctx, owner, booking.ID)
		require.NoError(t, err)
		got.PaymentStatus = models.PaymentPaid
		require.NoError(t, svc.bookings.Update(ctx, got))

		require.NoError(t, svc.CancelBooking(ctx, owner, booking.ID))
		cancelled, err := svc.GetBooking(ctx, owner, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, cancelled.Status)
		assert.Equal(t, models.PaymentRefund, cancelled.PaymentStatus)
	})
}
