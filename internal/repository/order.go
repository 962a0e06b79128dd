package repository

import (
	"context"
	"time"

	"food-ordering-api/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	FindByIntentID(ctx context.Context, tx *gorm.DB, intentID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)

	// UpdateIntent persists the gateway's payment intent on an order after
	// the order itself has committed.
	UpdateIntent(ctx context.Context, orderID uint, intentID, clientSecret, paymentStatus string) error

	// MarkPaid flips an unpaid order to paid and reports whether a row
	// actually changed; a second call for the same order is a no-op.
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID uint, status model.OrderStatus, paidAt time.Time) (bool, error)

	// MarkPaymentFailed cancels an unpaid order and reports whether a row
	// actually changed; a paid order is never cancelled by a late failure.
	MarkPaymentFailed(ctx context.Context, tx *gorm.DB, orderID uint) (bool, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status model.OrderStatus, deliveredAt *time.Time) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return r.conn(tx).WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.conn(tx).WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIntentID(ctx context.Context, tx *gorm.DB, intentID string) (*model.Order, error) {
	var order model.Order
	err := r.conn(tx).WithContext(ctx).
		Where("payment_intent_id = ?", intentID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) UpdateIntent(ctx context.Context, orderID uint, intentID, clientSecret, paymentStatus string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_intent_id": intentID,
			"client_secret":     clientSecret,
			"payment_status":    paymentStatus,
			"updated_at":        time.Now(),
		}).Error
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderID uint, status model.OrderStatus, paidAt time.Time) (bool, error) {
	result := r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND paid = ?", orderID, false).
		Updates(map[string]interface{}{
			"paid":           true,
			"paid_at":        paidAt,
			"status":         status,
			"payment_status": "succeeded",
			"updated_at":     time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) MarkPaymentFailed(ctx context.Context, tx *gorm.DB, orderID uint) (bool, error) {
	result := r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND paid = ?", orderID, false).
		Updates(map[string]interface{}{
			"status":         model.StatusCancelled,
			"payment_status": "failed",
			"updated_at":     time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status model.OrderStatus, deliveredAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}

	return r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}
