package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quickcourt/internal/models"
)

type CourtRepository interface {
	FindByID(ctx context.Context, id string) (*models.Court, error)
	ListByFacility(ctx context.Context, facilityID string) ([]models.Court, error)
	Create(ctx context.Context, court *models.Court) error
	Update(ctx context.Context, court *models.Court) error
	Delete(ctx context.Context, id string) error
}

type courtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) CourtRepository {
	return &courtRepository{db: db}
}

func (r *courtRepository) FindByID(ctx context.Context, id string) (*models.Court, error) {
	var court models.Court
	err := r.db.WithContext(ctx).First(&court, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find court: %w", err)
	}
	return &court, nil
}

func (r *courtRepository) ListByFacility(ctx context.Context, facilityID string) ([]models.Court, error) {
	var courts []models.Court
	err := r.db.WithContext(ctx).Where("facility_id = ?", facilityID).Find(&courts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	return courts, nil
}

func (r *courtRepository) Create(ctx context.Context, court *models.Court) error {
	if err := r.db.WithContext(ctx).Create(court).Error; err != nil {
		return fmt.Errorf("failed to create court: %w", err)
	}
	return nil
}

func (r *courtRepository) Update(ctx context.Context, court *models.Court) error {
	if err := r.db.WithContext(ctx).Save(court).Error; err != nil {
		return fmt.Errorf("failed to update court: %w", err)
	}
	return nil
}

func (r *courtRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Court{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete court: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
