package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quickcourt/internal/models"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByCourt(ctx context.Context, courtID string) ([]models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date desc").Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by user: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListByCourt(ctx context.Context, courtID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).Where("court_id = ?", courtID).Order("date desc").Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by court: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	if err := r.db.WithContext(ctx).Save(booking).Error; err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}
