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

// MatchService manages open games that other players can join. Joining is
// first-come-first-served up to MaxPlayers; the creator counts as the first
// player.
type MatchService struct {
	matches postgres.MatchRepository
	courts  postgres.CourtRepository
	logger  *zap.Logger
}

func NewMatchService(matches postgres.MatchRepository, courts postgres.CourtRepository, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = util.Get()
	}
	return &MatchService{matches: matches, courts: courts, logger: logger}
}

func (s *MatchService) CreateMatch(ctx context.Context, caller *models.User, match *models.Match) error {
	if match.CourtID == "" || match.StartTime == "" || match.EndTime == "" || match.Date.IsZero() {
		return fmt.Errorf("%w: courtId, date, startTime and endTime are required", ErrInvalidInput)
	}
	if match.MaxPlayers < 2 {
		return fmt.Errorf("%w: a match needs at least two players", ErrInvalidInput)
	}
	if _, err := s.courts.FindByID(ctx, match.CourtID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	match.CreatorID = caller.ID
	match.CurrentPlayers = 1
	match.Status = models.MatchOpen
	if err := s.matches.Create(ctx, match); err != nil {
		return err
	}
	if err := s.matches.AddParticipant(ctx, &models.MatchParticipant{MatchID: match.ID, UserID: caller.ID}); err != nil {
		return err
	}
	s.logger.Info("match created",
		util.String("match_id", match.ID),
		util.String("creator_id", caller.ID))
	return nil
}

func (s *MatchService) ListOpenMatches(ctx context.Context) ([]models.Match, error) {
	return s.matches.ListOpen(ctx)
}

func (s *MatchService) ListMyMatches(ctx context.Context, caller *models.User) ([]models.Match, error) {
	return s.matches.ListByCreator(ctx, caller.ID)
}

func (s *MatchService) JoinMatch(ctx context.Context, caller *models.User, id string) (*models.Match, error) {
	match, err := s.matches.FindByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchOpen {
		return nil, fmt.Errorf("%w: match is not open", ErrInvalidInput)
	}

	// The unique match+user index is the authority on membership; it also
	// covers the creator, who is registered at creation time.
	err = s.matches.AddParticipant(ctx, &models.MatchParticipant{MatchID: match.ID, UserID: caller.ID})
	if errors.Is(err, postgres.ErrDuplicate) {
		return nil, fmt.Errorf("%w: already in the match", ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	match.CurrentPlayers++
	if match.CurrentPlayers >= match.MaxPlayers {
		match.Status = models.MatchFull
	}
	if err := s.matches.Update(ctx, match); err != nil {
		return nil, err
	}
	s.logger.Info("player joined match",
		util.String("match_id", match.ID),
		util.String("user_id", caller.ID),
		util.Int("current_players", match.CurrentPlayers))
	return match, nil
}

func (s *MatchService) CancelMatch(ctx context.Context, caller *models.User, id string) error {
	match, err := s.matches.FindByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if match.CreatorID != caller.ID && caller.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if match.Status == models.MatchCompleted {
		return fmt.Errorf("%w: completed matches cannot be cancelled", ErrInvalidInput)
	}
	match.Status = models.MatchCancelled
	return s.matches.Update(ctx, match)
}
