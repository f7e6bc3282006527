package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"quickcourt/internal/models"
)

type ReviewRepository interface {
	ListByFacility(ctx context.Context, facilityID string) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) ListByFacility(ctx context.Context, facilityID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("facility_id = ?", facilityID).Order("created_at desc").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}
