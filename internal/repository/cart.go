package repository

import (
	"context"
	"time"

	"food-ordering-api/internal/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	FindActive(ctx context.Context, tx *gorm.DB, userID uint) (*model.Cart, error)
	Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error
	Deactivate(ctx context.Context, tx *gorm.DB, cartID uint) error

	FindItem(ctx context.Context, tx *gorm.DB, cartID, productID uint) (*model.CartItem, error)
	SaveItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	CreateItems(ctx context.Context, tx *gorm.DB, items []*model.CartItem) error
	CountActiveItems(ctx context.Context, tx *gorm.DB, cartID uint) (int64, error)

	// ListPurchasableItems returns the cart's active lines whose product is
	// still active, product preloaded.
	ListPurchasableItems(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error)

	// ListItemsWithPersonalizations returns every line of a cart, including
	// soft-removed ones, with personalization links preloaded.
	ListItemsWithPersonalizations(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error)

	CreateItemPersonalizations(ctx context.Context, tx *gorm.DB, links []*model.CartItemPersonalization) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{db: db}
}

func (r *cartRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *cartRepoImpl) FindActive(ctx context.Context, tx *gorm.DB, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error {
	return r.conn(tx).WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) Deactivate(ctx context.Context, tx *gorm.DB, cartID uint) error {
	return r.conn(tx).WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		}).Error
}

func (r *cartRepoImpl) FindItem(ctx context.Context, tx *gorm.DB, cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.conn(tx).WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) SaveItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return r.conn(tx).WithContext(ctx).Save(item).Error
}

func (r *cartRepoImpl) CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return r.conn(tx).WithContext(ctx).Create(item).Error
}

func (r *cartRepoImpl) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.CartItem) error {
	return r.conn(tx).WithContext(ctx).Create(&items).Error
}

func (r *cartRepoImpl) CountActiveItems(ctx context.Context, tx *gorm.DB, cartID uint) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND active = ?", cartID, true).
		Count(&count).Error

	return count, err
}

func (r *cartRepoImpl) ListPurchasableItems(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := r.conn(tx).WithContext(ctx).
		Joins("Product").
		Where("cart_items.cart_id = ? AND cart_items.active = ?", cartID, true).
		Where("Product.active = ?", true).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) ListItemsWithPersonalizations(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := r.conn(tx).WithContext(ctx).
		Preload("Personalizations.Personalization").
		Where("cart_id = ?", cartID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) CreateItemPersonalizations(ctx context.Context, tx *gorm.DB, links []*model.CartItemPersonalization) error {
	if len(links) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&links).Error
}
