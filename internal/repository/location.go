package repository

import (
	"context"
	"time"

	"food-ordering-api/internal/model"

	"gorm.io/gorm"
)

type LocationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, location *model.Location) error
	DeactivateAllForUser(ctx context.Context, tx *gorm.DB, userID uint) error
	FindByIDForUser(ctx context.Context, tx *gorm.DB, locationID, userID uint) (*model.Location, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Location, error)
}

type locationRepoImpl struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepoImpl{db: db}
}

func (r *locationRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *locationRepoImpl) Create(ctx context.Context, tx *gorm.DB, location *model.Location) error {
	return r.conn(tx).WithContext(ctx).Create(location).Error
}

func (r *locationRepoImpl) DeactivateAllForUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	return r.conn(tx).WithContext(ctx).Model(&model.Location{}).
		Where("user_id = ? AND active = ?", userID, true).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		}).Error
}

func (r *locationRepoImpl) FindByIDForUser(ctx context.Context, tx *gorm.DB, locationID, userID uint) (*model.Location, error) {
	var location model.Location
	err := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", locationID, userID).
		First(&location).Error

	if err != nil {
		return nil, err
	}

	return &location, nil
}

func (r *locationRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Location, error) {
	var locations []*model.Location
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("active DESC, created_at DESC").
		Find(&locations).Error

	if err != nil {
		return nil, err
	}

	return locations, nil
}
