package service

import (
	"context"
	"errors"
	"testing"

	"food-ordering-api/internal/apperr"
	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB, gateway *stubGateway) OrderService {
	return NewOrderService(
		db,
		repository.NewCartRepository(db),
		repository.NewOrderRepository(db),
		repository.NewLocationRepository(db),
		repository.NewNotificationRepository(db),
		gateway,
		"usd",
		testLogger(),
	)
}

func fillCart(t *testing.T, db *gorm.DB, userID uint, lines map[uint]int) {
	t.Helper()
	svc := newCartService(db)
	for productID, quantity := range lines {
		if _, err := svc.AddItem(context.Background(), userID, productID, quantity); err != nil {
			t.Fatalf("fill cart: %v", err)
		}
	}
}

func TestCreateOrderPickupForcesZeroShipmentValue(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	gateway := &stubGateway{}
	svc := newOrderService(db, gateway)
	user := seedUser(t, db, "u@example.com", model.RoleCustomer)
	product := seedProduct(t, db, "Pizza", "12.50", true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 2})

	result, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCash),
		ShipmentTypeID: int(model.ShipmentPickup),
		ShipmentValue:  mustDecimal(t, "9.99"), // client-sent fee must be ignored
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if !result.Order.ShipmentValue.IsZero() {
		t.Fatalf("expected zero shipment value for pickup, got %s", result.Order.ShipmentValue)
	}
	if !result.Order.TotalPrice.Equal(mustDecimal(t, "25.00")) {
		t.Fatalf("expected total 25.00, got %s", result.Order.TotalPrice)
	}
}

func TestCreateOrderDeliveryRequiresLocation(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newOrderService(db, &stubGateway{})
	user := seedUser(t, db, "u@example.com", model.RoleCustomer)
	other := seedUser(t, db, "other@example.com", model.RoleCustomer)
	product := seedProduct(t, db, "Pizza", "12.50", true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})
	foreignLocation := seedLocation(t, db, other.ID)

	if _, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCash),
		ShipmentTypeID: int(model.ShipmentDelivery),
	}); !errors.Is(err, apperr.ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}

	if _, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCash),
		ShipmentTypeID: int(model.ShipmentDelivery),
		LocationID:     &foreignLocation.ID,
	}); !errors.Is(err, apperr.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound for another user's location, got %v", err)
	}

	// Both failures rolled back before an order was written.
	if n := countRows(t, db, &model.Order{}, ""); n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newOrderService(db, &stubGateway{})
	user := seedUser(t, db, "u@example.com", model.RoleCustomer)

	if _, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCash),
		ShipmentTypeID: int(model.ShipmentPickup),
	}); !errors.Is(err, apperr.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	// A cart whose only line was soft-removed counts as empty too.
	product := seedProduct(t, db, "Pizza", "12.50", true)
	cartSvc := newCartService(db)
	if _, err := cartSvc.AddItem(ctx, user.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := cartSvc.RemoveItem(ctx, user.ID, product.ID); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	if _, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCash),
		ShipmentTypeID: int(model.ShipmentPickup),
	}); !errors.Is(err, apperr.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart for emptied cart, got %v", err)
	}
	if n := countRows(t, db, &model.Order{}, ""); n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
}

func TestCreateOrderCash(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	gateway := &stubGateway{}
	svc := newOrderService(db, gateway)
	user := seedUser(t, db, "u@example.com", model.RoleCustomer)
	product := seedProduct(t, db, "Pizza", "12.50", true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	result, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCash),
		ShipmentTypeID: int(model.ShipmentPickup),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	order := result.Order
	if order.Status != model.StatusPending || order.Paid {
		t.Fatalf("expected unpaid pending order, got status=%v paid=%v", order.Status, order.Paid)
	}
	if result.PaymentDetails != nil {
		t.Fatalf("cash orders must not carry payment details")
	}
	if gateway.createCalls != 0 {
		t.Fatalf("cash orders must not create payment intents")
	}
	// The cart survives checkout; only payment or the admin flow closes it.
	if n := countRows(t, db, &model.Cart{}, "user_id = ? AND active = ?", user.ID, true); n != 1 {
		t.Fatalf("expected the cart to stay active, got %d", n)
	}
	if n := countRows(t, db, &model.Notification{}, "order_id = ? AND audience = ?", order.ID, model.AudienceAdmins); n != 1 {
		t.Fatalf("expected one admin notification, got %d", n)
	}
}

func TestCreateOrderCardPersistsIntent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	gateway := &stubGateway{}
	svc := newOrderService(db, gateway)
	user := seedUser(t, db, "u@example.com", model.RoleCustomer)
	product := seedProduct(t, db, "Pizza", "12.50", true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 2})

	result, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCard),
		ShipmentTypeID: int(model.ShipmentPickup),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if result.PaymentDetails == nil || result.PaymentDetails.ClientSecret == "" {
		t.Fatalf("expected payment details for a card order")
	}
	if !gateway.lastAmount.Equal(mustDecimal(t, "25.00")) {
		t.Fatalf("expected intent amount 25.00, got %s", gateway.lastAmount)
	}

	var stored model.Order
	if err := db.First(&stored, result.Order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if stored.PaymentIntentID != result.PaymentDetails.PaymentIntentID {
		t.Fatalf("intent id not persisted on the order")
	}
}

func TestCreateOrderCardSurvivesGatewayFailure(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	gateway := &stubGateway{failCreate: true}
	svc := newOrderService(db, gateway)
	user := seedUser(t, db, "u@example.com", model.RoleCustomer)
	product := seedProduct(t, db, "Pizza", "12.50", true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	result, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCard),
		ShipmentTypeID: int(model.ShipmentPickup),
	})
	if err != nil {
		t.Fatalf("a gateway failure must not fail the committed order: %v", err)
	}
	if result.PaymentDetails != nil {
		t.Fatalf("expected no payment details when the gateway is down")
	}

	var stored model.Order
	if err := db.First(&stored, result.Order.ID).Error; err != nil {
		t.Fatalf("order should have been committed: %v", err)
	}
	if stored.PaymentIntentID != "" {
		t.Fatalf("expected no intent on the order")
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newOrderService(db, &stubGateway{})
	user := seedUser(t, db, "u@example.com", model.RoleCustomer)
	product := seedProduct(t, db, "Pizza", "12.50", true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	result, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCash),
		ShipmentTypeID: int(model.ShipmentPickup),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	orderID := result.Order.ID

	if _, err := svc.UpdateOrderStatus(ctx, orderID, 42); !errors.Is(err, apperr.ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
	}
	if _, err := svc.UpdateOrderStatus(ctx, 9999, int(model.StatusShipped)); !errors.Is(err, apperr.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	updated, err := svc.UpdateOrderStatus(ctx, orderID, int(model.StatusDelivered))
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.StatusDelivered {
		t.Fatalf("expected Delivered, got %v", updated.Status)
	}
	if updated.DeliveredAt == nil {
		t.Fatalf("expected DeliveredAt to be stamped")
	}
	if n := countRows(t, db, &model.Notification{}, "order_id = ? AND audience = ?", orderID, model.AudienceUser); n != 1 {
		t.Fatalf("expected one user notification, got %d", n)
	}
}
