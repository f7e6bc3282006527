package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quickcourt/internal/models"
)

// ErrDuplicate reports a write that violated a uniqueness constraint.
var ErrDuplicate = errors.New("record already exists")

type MatchRepository interface {
	FindByID(ctx context.Context, id string) (*models.Match, error)
	ListOpen(ctx context.Context) ([]models.Match, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Match, error)
	Create(ctx context.Context, match *models.Match) error
	Update(ctx context.Context, match *models.Match) error
	AddParticipant(ctx context.Context, participant *models.MatchParticipant) error
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) FindByID(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).First(&match, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &match, nil
}

func (r *matchRepository) ListOpen(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).Where("status = ?", models.MatchOpen).Order("date").Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open matches: %w", err)
	}
	return matches, nil
}

func (r *matchRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("date desc").Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches by creator: %w", err)
	}
	return matches, nil
}

func (r *matchRepository) Create(ctx context.Context, match *models.Match) error {
	if err := r.db.WithContext(ctx).Create(match).Error; err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *matchRepository) Update(ctx context.Context, match *models.Match) error {
	if err := r.db.WithContext(ctx).Save(match).Error; err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return nil
}

func (r *matchRepository) AddParticipant(ctx context.Context, participant *models.MatchParticipant) error {
	err := r.db.WithContext(ctx).Create(participant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to add match participant: %w", err)
	}
	return nil
}
