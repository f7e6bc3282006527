package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/repository/postgres"
	"quickcourt/internal/util"
)

// ReviewService records facility ratings from users.
type ReviewService struct {
	reviews    postgres.ReviewRepository
	facilities postgres.FacilityRepository
	logger     *zap.Logger
}

func NewReviewService(reviews postgres.ReviewRepository, facilities postgres.FacilityRepository, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = util.Get()
	}
	return &ReviewService{reviews: reviews, facilities: facilities, logger: logger}
}

func (s *ReviewService) ListReviews(ctx context.Context, facilityID string) ([]models.Review, error) {
	if _, err := s.facilities.FindByID(ctx, facilityID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.reviews.ListByFacility(ctx, facilityID)
}

func (s *ReviewService) CreateReview(ctx context.Context, caller *models.User, review *models.Review) error {
	if review.FacilityID == "" {
		return fmt.Errorf("%w: facilityId is required", ErrInvalidInput)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if _, err := s.facilities.FindByID(ctx, review.FacilityID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	review.UserID = caller.ID
	review.Comment = util.SanitizeInput(review.Comment)
	if err := s.reviews.Create(ctx, review); err != nil {
		return err
	}
	s.logger.Info("review created",
		util.String("facility_id", review.FacilityID),
		util.String("user_id", caller.ID),
		util.Int("rating", review.Rating))
	return nil
}
