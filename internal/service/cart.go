package service

import (
	"context"
	"errors"

	"food-ordering-api/internal/apperr"
	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxCartLines    = 30
	maxLineQuantity = 100
)

type CartService interface {
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*model.CartItem, error)
	AddOneUnit(ctx context.Context, userID, productID uint) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uint) error
	ListItems(ctx context.Context, userID uint) ([]*model.CartItem, error)
	Totals(ctx context.Context, userID uint) (*dto.CartTotals, error)
	DisableCart(ctx context.Context, userID uint) error
}

type cartServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddItem sets the quantity of a product line, creating the line and, if
// needed, the active cart. An existing line is overwritten and reactivated,
// never incremented; its price snapshot is kept.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, apperr.ErrInvalidQuantity
	}

	var result *model.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.purchasableProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		cart, err := s.findOrCreateActiveCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		item, err := s.cartRepo.FindItem(ctx, tx, cart.ID, productID)
		if err == nil {
			// Reactivating a soft-removed line adds an active line, so it
			// counts against the ceiling like a create.
			if !item.Active {
				if err := s.ensureLineCapacity(ctx, tx, cart.ID); err != nil {
					return err
				}
			}
			item.Quantity = quantity
			item.Active = true
			result = item
			return s.cartRepo.SaveItem(ctx, tx, item)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.ensureLineCapacity(ctx, tx, cart.ID); err != nil {
			return err
		}

		result = &model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Active:    true,
		}
		return s.cartRepo.CreateItem(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AddOneUnit bumps an existing line by one, or creates it with quantity 1.
func (s *cartServiceImpl) AddOneUnit(ctx context.Context, userID, productID uint) (*model.CartItem, error) {
	var result *model.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.purchasableProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		cart, err := s.findOrCreateActiveCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		item, err := s.cartRepo.FindItem(ctx, tx, cart.ID, productID)
		if err == nil {
			if item.Quantity+1 > maxLineQuantity {
				return apperr.ErrMaxQuantityReached
			}
			if !item.Active {
				if err := s.ensureLineCapacity(ctx, tx, cart.ID); err != nil {
					return err
				}
			}
			item.Quantity++
			item.Active = true
			result = item
			return s.cartRepo.SaveItem(ctx, tx, item)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.ensureLineCapacity(ctx, tx, cart.ID); err != nil {
			return err
		}

		result = &model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: product.Price,
			Active:    true,
		}
		return s.cartRepo.CreateItem(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RemoveItem soft-deletes a line: quantity 0, inactive. The row survives so
// order history and reorder keep working.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindActive(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNoActiveCart
			}
			return err
		}

		item, err := s.cartRepo.FindItem(ctx, tx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrItemNotInCart
			}
			return err
		}
		if !item.Active {
			return apperr.ErrItemNotInCart
		}

		item.Quantity = 0
		item.Active = false
		return s.cartRepo.SaveItem(ctx, tx, item)
	})
}

// ListItems returns the active lines whose product is still active.
func (s *cartServiceImpl) ListItems(ctx context.Context, userID uint) ([]*model.CartItem, error) {
	cart, err := s.cartRepo.FindActive(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrEmptyCart
		}
		return nil, err
	}

	items, err := s.cartRepo.ListPurchasableItems(ctx, nil, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	return items, nil
}

// Totals aggregates amount and quantity over the purchasable lines. An
// absent or empty cart yields zero totals rather than an error.
func (s *cartServiceImpl) Totals(ctx context.Context, userID uint) (*dto.CartTotals, error) {
	totals := &dto.CartTotals{TotalAmount: decimal.Zero}

	cart, err := s.cartRepo.FindActive(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return totals, nil
		}
		return nil, err
	}

	items, err := s.cartRepo.ListPurchasableItems(ctx, nil, cart.ID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		totals.TotalAmount = totals.TotalAmount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		totals.TotalQuantity += item.Quantity
	}

	return totals, nil
}

func (s *cartServiceImpl) DisableCart(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindActive(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNoActiveCart
			}
			return err
		}

		return s.cartRepo.Deactivate(ctx, tx, cart.ID)
	})
}

// ensureLineCapacity fails with ErrCartFull once the cart holds the maximum
// number of active lines.
func (s *cartServiceImpl) ensureLineCapacity(ctx context.Context, tx *gorm.DB, cartID uint) error {
	count, err := s.cartRepo.CountActiveItems(ctx, tx, cartID)
	if err != nil {
		return err
	}
	if count >= maxCartLines {
		return apperr.ErrCartFull
	}
	return nil
}

func (s *cartServiceImpl) purchasableProduct(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		return nil, err
	}
	if !product.Active {
		return nil, apperr.ErrProductInactive
	}
	return product, nil
}

func (s *cartServiceImpl) findOrCreateActiveCart(ctx context.Context, tx *gorm.DB, userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActive(ctx, tx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{UserID: userID, Active: true}
	if err := s.cartRepo.Create(ctx, tx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
