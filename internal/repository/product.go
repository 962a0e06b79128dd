package repository

import (
	"context"
	"time"

	"food-ordering-api/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error)
	FindManyActive(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*model.Product, error)
	ListActive(ctx context.Context) ([]*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	SetActive(ctx context.Context, productID uint, active bool) (int64, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *productRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.conn(tx).WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindManyActive(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.conn(tx).WithContext(ctx).
		Where("id IN ? AND active = ?", productIDs, true).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListActive(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Preload("Personalizations", "active = ?", true).
		Where("active = ?", true).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) SetActive(ctx context.Context, productID uint, active bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}
