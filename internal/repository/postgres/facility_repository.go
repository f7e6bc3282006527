package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quickcourt/internal/models"
)

type FacilityRepository interface {
	FindByID(ctx context.Context, id string) (*models.Facility, error)
	List(ctx context.Context) ([]models.Facility, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Facility, error)
	Create(ctx context.Context, facility *models.Facility) error
	Update(ctx context.Context, facility *models.Facility) error
	Delete(ctx context.Context, id string) error
}

type facilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) FacilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) FindByID(ctx context.Context, id string) (*models.Facility, error) {
	var facility models.Facility
	err := r.db.WithContext(ctx).Preload("Courts").First(&facility, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find facility: %w", err)
	}
	return &facility, nil
}

func (r *facilityRepository) List(ctx context.Context) ([]models.Facility, error) {
	var facilities []models.Facility
	if err := r.db.WithContext(ctx).Preload("Courts").Find(&facilities).Error; err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	return facilities, nil
}

func (r *facilityRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Facility, error) {
	var facilities []models.Facility
	err := r.db.WithContext(ctx).Preload("Courts").Where("owner_id = ?", ownerID).Find(&facilities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities by owner: %w", err)
	}
	return facilities, nil
}

func (r *facilityRepository) Create(ctx context.Context, facility *models.Facility) error {
	if err := r.db.WithContext(ctx).Create(facility).Error; err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}
	return nil
}

func (r *facilityRepository) Update(ctx context.Context, facility *models.Facility) error {
	if err := r.db.WithContext(ctx).Save(facility).Error; err != nil {
		return fmt.Errorf("failed to update facility: %w", err)
	}
	return nil
}

func (r *facilityRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Facility{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete facility: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
