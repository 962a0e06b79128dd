package service

import (
	"context"
	"strings"

	"food-ordering-api/internal/apperr"
	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"gorm.io/gorm"
)

type LocationService interface {
	CreateLocation(ctx context.Context, userID uint, req *dto.LocationRequest) (*model.Location, error)
	ListLocations(ctx context.Context, userID uint) ([]*model.Location, error)
}

type locationServiceImpl struct {
	db           *gorm.DB
	locationRepo repository.LocationRepository
}

func NewLocationService(db *gorm.DB, locationRepo repository.LocationRepository) LocationService {
	return &locationServiceImpl{db: db, locationRepo: locationRepo}
}

// CreateLocation makes the new address the user's single active one;
// previous addresses are deactivated in the same transaction.
func (s *locationServiceImpl) CreateLocation(ctx context.Context, userID uint, req *dto.LocationRequest) (*model.Location, error) {
	if strings.TrimSpace(req.Street) == "" || strings.TrimSpace(req.City) == "" {
		return nil, apperr.New(apperr.KindValidation, "street and city are required")
	}

	location := &model.Location{
		UserID: userID,
		Label:  req.Label,
		Street: req.Street,
		City:   req.City,
		Notes:  req.Notes,
		Active: true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.locationRepo.DeactivateAllForUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.locationRepo.Create(ctx, tx, location)
	})
	if err != nil {
		return nil, err
	}

	return location, nil
}

func (s *locationServiceImpl) ListLocations(ctx context.Context, userID uint) ([]*model.Location, error) {
	return s.locationRepo.ListByUser(ctx, userID)
}
