package service

import (
	"context"
	"errors"

	"food-ordering-api/internal/apperr"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"gorm.io/gorm"
)

// ReorderService clones a past order's line items into a fresh active cart.
// The clone reflects the catalog as it is now: current prices, and only
// products and personalizations that are still active.
type ReorderService interface {
	Reorder(ctx context.Context, userID, orderID uint) (*model.Cart, error)
}

type reorderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewReorderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) ReorderService {
	return &reorderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *reorderServiceImpl) Reorder(ctx context.Context, userID, orderID uint) (*model.Cart, error) {
	order, err := s.orderRepo.FindByID(ctx, nil, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.ErrNotOwner
	}

	lines, err := s.cartRepo.ListItemsWithPersonalizations(ctx, nil, order.CartID)
	if err != nil {
		return nil, err
	}

	valid := make([]*model.CartItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			valid = append(valid, line)
		}
	}
	if len(valid) == 0 {
		return nil, apperr.ErrNoValidItems
	}

	productIDs := make([]uint, 0, len(valid))
	for _, line := range valid {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.productRepo.FindManyActive(ctx, nil, productIDs)
	if err != nil {
		return nil, err
	}
	available := make(map[uint]*model.Product, len(products))
	for _, product := range products {
		available[product.ID] = product
	}

	// Availability is decided before any write, so nothing is created when
	// the whole order has gone off the catalog.
	kept := make([]*model.CartItem, 0, len(valid))
	for _, line := range valid {
		if _, ok := available[line.ProductID]; ok {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return nil, apperr.ErrNoProductsAvailable
	}

	var newCart *model.Cart
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.cartRepo.FindActive(ctx, tx, userID)
		if err == nil {
			if err := s.cartRepo.Deactivate(ctx, tx, current.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		newCart = &model.Cart{UserID: userID, Active: true}
		if err := s.cartRepo.Create(ctx, tx, newCart); err != nil {
			return err
		}

		newItems := make([]*model.CartItem, len(kept))
		for i, line := range kept {
			newItems[i] = &model.CartItem{
				CartID:    newCart.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: available[line.ProductID].Price,
				Active:    true,
			}
		}
		if err := s.cartRepo.CreateItems(ctx, tx, newItems); err != nil {
			return err
		}

		itemByProduct := make(map[uint]*model.CartItem, len(newItems))
		for _, item := range newItems {
			itemByProduct[item.ProductID] = item
		}

		var links []*model.CartItemPersonalization
		for _, line := range kept {
			target := itemByProduct[line.ProductID]
			for _, link := range line.Personalizations {
				if !link.Personalization.Active {
					continue
				}
				links = append(links, &model.CartItemPersonalization{
					CartItemID:        target.ID,
					PersonalizationID: link.PersonalizationID,
				})
			}
		}
		if err := s.cartRepo.CreateItemPersonalizations(ctx, tx, links); err != nil {
			return err
		}

		newCart.Items = make([]model.CartItem, len(newItems))
		for i, item := range newItems {
			newCart.Items[i] = *item
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return newCart, nil
}
