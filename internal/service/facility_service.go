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

// FacilityService manages venues and their courts. Mutations require the
// facilities:manage capability, and non-admins may only touch venues they
// own.
type FacilityService struct {
	facilities postgres.FacilityRepository
	courts     postgres.CourtRepository
	logger     *zap.Logger
}

func NewFacilityService(facilities postgres.FacilityRepository, courts postgres.CourtRepository, logger *zap.Logger) *FacilityService {
	if logger == nil {
		logger = util.Get()
	}
	return &FacilityService{facilities: facilities, courts: courts, logger: logger}
}

func (s *FacilityService) GetFacility(ctx context.Context, id string) (*models.Facility, error) {
	facility, err := s.facilities.FindByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrNotFound
	}
	return facility, err
}

func (s *FacilityService) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	return s.facilities.List(ctx)
}

func (s *FacilityService) ListOwnedFacilities(ctx context.Context, caller *models.User) ([]models.Facility, error) {
	return s.facilities.ListByOwner(ctx, caller.ID)
}

func (s *FacilityService) CreateFacility(ctx context.Context, caller *models.User, facility *models.Facility) error {
	if !caller.Role.Has(models.CapFacilitiesManage) {
		return ErrForbidden
	}
	if facility.Name == "" || facility.Address == "" || facility.City == "" {
		return fmt.Errorf("%w: name, address and city are required", ErrInvalidInput)
	}
	facility.OwnerID = caller.ID
	if err := s.facilities.Create(ctx, facility); err != nil {
		return err
	}
	s.logger.Info("facility created",
		util.String("facility_id", facility.ID),
		util.String("owner_id", caller.ID))
	return nil
}

func (s *FacilityService) UpdateFacility(ctx context.Context, caller *models.User, facility *models.Facility) error {
	existing, err := s.GetFacility(ctx, facility.ID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(caller, existing); err != nil {
		return err
	}
	facility.OwnerID = existing.OwnerID
	return s.facilities.Update(ctx, facility)
}

func (s *FacilityService) DeleteFacility(ctx context.Context, caller *models.User, id string) error {
	existing, err := s.GetFacility(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(caller, existing); err != nil {
		return err
	}
	if err := s.facilities.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("facility deleted", util.String("facility_id", id))
	return nil
}

func (s *FacilityService) ListCourts(ctx context.Context, facilityID string) ([]models.Court, error) {
	return s.courts.ListByFacility(ctx, facilityID)
}

func (s *FacilityService) AddCourt(ctx context.Context, caller *models.User, court *models.Court) error {
	facility, err := s.GetFacility(ctx, court.FacilityID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(caller, facility); err != nil {
		return err
	}
	if court.Name == "" || court.SportType == "" {
		return fmt.Errorf("%w: court name and sport type are required", ErrInvalidInput)
	}
	if court.PricePerHour <= 0 {
		return fmt.Errorf("%w: price per hour must be positive", ErrInvalidInput)
	}
	return s.courts.Create(ctx, court)
}

func (s *FacilityService) UpdateCourt(ctx context.Context, caller *models.User, court *models.Court) error {
	existing, err := s.courts.FindByID(ctx, court.ID)
	if errors.Is(err, postgres.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	facility, err := s.GetFacility(ctx, existing.FacilityID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(caller, facility); err != nil {
		return err
	}
	court.FacilityID = existing.FacilityID
	return s.courts.Update(ctx, court)
}

func (s *FacilityService) DeleteCourt(ctx context.Context, caller *models.User, id string) error {
	existing, err := s.courts.FindByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	facility, err := s.GetFacility(ctx, existing.FacilityID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(caller, facility); err != nil {
		return err
	}
	return s.courts.Delete(ctx, id)
}

func (s *FacilityService) authorizeOwner(caller *models.User, facility *models.Facility) error {
	if !caller.Role.Has(models.CapFacilitiesManage) {
		return ErrForbidden
	}
	if caller.Role != models.RoleAdmin && facility.OwnerID != caller.ID {
		return ErrForbidden
	}
	return nil
}
