package repository

import (
	"context"

	"food-ordering-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID uint) (*model.User, error)
	AdminDeviceTokens(ctx context.Context) ([]string, error)
	DeviceTokensForUser(ctx context.Context, userID uint) ([]string, error)
	SaveDeviceToken(ctx context.Context, userID uint, token string) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{db: db}
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) AdminDeviceTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Joins("JOIN users ON users.id = device_tokens.user_id").
		Where("users.role = ? AND users.active = ?", model.RoleAdmin, true).
		Pluck("device_tokens.token", &tokens).Error

	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (r *userRepoImpl) DeviceTokensForUser(ctx context.Context, userID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error

	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (r *userRepoImpl) SaveDeviceToken(ctx context.Context, userID uint, token string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.DeviceToken{UserID: userID, Token: token}).Error
}
