package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"food-ordering-api/internal/apperr"
	"food-ordering-api/internal/client"
	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uint, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*model.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]*model.Order, error)
	ListAllOrders(ctx context.Context) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, statusID int) (*model.Order, error)
}

type orderServiceImpl struct {
	db               *gorm.DB
	cartRepo         repository.CartRepository
	orderRepo        repository.OrderRepository
	locationRepo     repository.LocationRepository
	notificationRepo repository.NotificationRepository
	gateway          client.PaymentGateway
	currency         string
	logger           *slog.Logger
}

func NewOrderService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	locationRepo repository.LocationRepository,
	notificationRepo repository.NotificationRepository,
	gateway client.PaymentGateway,
	currency string,
	logger *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		db:               db,
		cartRepo:         cartRepo,
		orderRepo:        orderRepo,
		locationRepo:     locationRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		currency:         currency,
		logger:           logger,
	}
}

// CreateOrder snapshots the active cart into a Pending order. The cart
// itself stays active until payment confirms (card) or an admin handles the
// order (cash), so a failed card payment can be retried with the same cart.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID uint, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	paymentType := model.PaymentType(req.PaymentTypeID)
	if !paymentType.Valid() {
		return nil, apperr.ErrInvalidPaymentType
	}
	shipmentType := model.ShipmentType(req.ShipmentTypeID)
	if !shipmentType.Valid() {
		return nil, apperr.ErrInvalidShipmentType
	}
	if shipmentType == model.ShipmentDelivery && req.LocationID == nil {
		return nil, apperr.ErrLocationRequired
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if shipmentType == model.ShipmentDelivery {
			if _, err := s.locationRepo.FindByIDForUser(ctx, tx, *req.LocationID, userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.ErrLocationNotFound
				}
				return err
			}
		}

		cart, err := s.cartRepo.FindActive(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrEmptyCart
			}
			return err
		}

		items, err := s.cartRepo.ListPurchasableItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}

		itemsTotal := decimal.Zero
		validLines := 0
		for _, item := range items {
			if item.Quantity <= 0 {
				continue
			}
			validLines++
			itemsTotal = itemsTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if validLines == 0 {
			return apperr.ErrEmptyCart
		}

		// Never trust a client-sent delivery fee for pickup orders.
		shipmentValue := req.ShipmentValue
		if shipmentType == model.ShipmentPickup {
			shipmentValue = decimal.Zero
		}

		order = &model.Order{
			UserID:        userID,
			CartID:        cart.ID,
			Status:        model.StatusPending,
			PaymentType:   paymentType,
			ShipmentType:  shipmentType,
			LocationID:    req.LocationID,
			TotalPrice:    itemsTotal.Add(shipmentValue),
			ShipmentValue: shipmentValue,
			Paid:          false,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		if paymentType == model.PaymentCash {
			return s.notificationRepo.Create(ctx, tx, &model.Notification{
				ID:       uuid.NewString(),
				OrderID:  order.ID,
				Audience: model.AudienceAdmins,
				Title:    "New cash order",
				Body:     fmt.Sprintf("Order #%d was placed with cash payment", order.ID),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CreateOrderResponse{Order: order}
	if paymentType != model.PaymentCard {
		return resp, nil
	}

	// The order is already committed; a gateway failure here must not undo
	// it. The client simply gets no payment details and retries checkout.
	intent, err := s.gateway.CreatePaymentIntent(ctx, order.TotalPrice, s.currency, order.ID)
	if err != nil {
		s.logger.Error("create payment intent failed",
			"order_id", order.ID,
			"error", err,
		)
		return resp, nil
	}

	if err := s.orderRepo.UpdateIntent(ctx, order.ID, intent.ID, intent.ClientSecret, intent.Status); err != nil {
		s.logger.Error("persist payment intent failed",
			"order_id", order.ID,
			"intent_id", intent.ID,
			"error", err,
		)
		return resp, nil
	}

	order.PaymentIntentID = intent.ID
	order.ClientSecret = intent.ClientSecret
	order.PaymentStatus = intent.Status
	resp.PaymentDetails = &dto.PaymentDetails{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}
	return resp, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID uint) (*model.Order, error) {
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

	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID uint) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) ListAllOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateOrderStatus is the admin-driven transition. Reaching Delivered also
// stamps the delivery time; every transition notifies the order's owner.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID uint, statusID int) (*model.Order, error) {
	status := model.OrderStatus(statusID)
	if !status.Valid() {
		return nil, apperr.ErrInvalidOrderStatus
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.FindByID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrOrderNotFound
			}
			return err
		}

		var deliveredAt *time.Time
		if status == model.StatusDelivered {
			now := time.Now()
			deliveredAt = &now
		}
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, status, deliveredAt); err != nil {
			return err
		}
		order.Status = status
		order.DeliveredAt = deliveredAt

		return s.notificationRepo.Create(ctx, tx, &model.Notification{
			ID:       uuid.NewString(),
			OrderID:  order.ID,
			Audience: model.AudienceUser,
			Title:    "Order update",
			Body:     fmt.Sprintf("Your order #%d is now: %s", order.ID, status),
		})
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
