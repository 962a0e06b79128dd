package repository

import (
	"context"
	"time"

	"food-ordering-api/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error
	ListUnsent(ctx context.Context, limit int) ([]*model.Notification, error)
	MarkSent(ctx context.Context, notificationID string, sentAt time.Time) error
	ListByOrder(ctx context.Context, orderID uint) ([]*model.Notification, error)
}

type notificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepoImpl{db: db}
}

func (r *notificationRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *notificationRepoImpl) Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error {
	return r.conn(tx).WithContext(ctx).Create(notification).Error
}

func (r *notificationRepoImpl) ListUnsent(ctx context.Context, limit int) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.WithContext(ctx).
		Where("sent = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error

	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepoImpl) MarkSent(ctx context.Context, notificationID string, sentAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"sent":    true,
			"sent_at": sentAt,
		}).Error
}

func (r *notificationRepoImpl) ListByOrder(ctx context.Context, orderID uint) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&notifications).Error

	if err != nil {
		return nil, err
	}

	return notifications, nil
}
