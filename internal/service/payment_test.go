package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"food-ordering-api/internal/apperr"
	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB, gateway *stubGateway) PaymentService {
	return NewPaymentService(
		db,
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewWebhookEventRepository(db),
		repository.NewNotificationRepository(db),
		gateway,
		testLogger(),
	)
}

// placeCardOrder runs the real checkout flow and returns the committed order
// with its payment intent attached.
func placeCardOrder(t *testing.T, db *gorm.DB) *model.Order {
	t.Helper()
	ctx := context.Background()

	user := seedUser(t, db, "card@example.com", model.RoleCustomer)
	product := seedProduct(t, db, "Ramen", "15.00", true)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	result, err := newOrderService(db, &stubGateway{}).CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		PaymentTypeID:  int(model.PaymentCard),
		ShipmentTypeID: int(model.ShipmentPickup),
	})
	if err != nil {
		t.Fatalf("create card order: %v", err)
	}

	var order model.Order
	if err := db.First(&order, result.Order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	return &order
}

func webhookPayload(t *testing.T, eventID, eventType, intentID string) []byte {
	t.Helper()
	payload, err := json.Marshal(&model.StripeEvent{
		ID:   eventID,
		Type: eventType,
		Data: model.StripeEventData{Object: model.StripePaymentIntent{ID: intentID}},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return payload
}

func TestWebhookPaymentSucceeded(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newPaymentService(db, &stubGateway{})
	order := placeCardOrder(t, db)

	result, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_1", model.StripeEventPaymentSucceeded, order.PaymentIntentID))
	if err != nil {
		t.Fatalf("handle webhook: %v", err)
	}
	if !result.Handled {
		t.Fatalf("expected the event to be handled")
	}

	var updated model.Order
	if err := db.First(&updated, order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if !updated.Paid || updated.PaidAt == nil {
		t.Fatalf("expected paid order with PaidAt set")
	}
	if updated.Status != model.StatusReadyForDelivery {
		t.Fatalf("expected ReadyForDelivery, got %v", updated.Status)
	}
	if updated.PaymentStatus != "succeeded" {
		t.Fatalf("expected payment status succeeded, got %q", updated.PaymentStatus)
	}
	// The originating cart is closed so it cannot back another order.
	if n := countRows(t, db, &model.Cart{}, "id = ? AND active = ?", order.CartID, true); n != 0 {
		t.Fatalf("expected the cart to be deactivated")
	}
	if n := countRows(t, db, &model.Notification{}, "order_id = ? AND audience = ?", order.ID, model.AudienceAdmins); n != 1 {
		t.Fatalf("expected one admin notification, got %d", n)
	}
}

func TestWebhookPaymentSucceededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newPaymentService(db, &stubGateway{})
	order := placeCardOrder(t, db)

	payload := webhookPayload(t, "evt_1", model.StripeEventPaymentSucceeded, order.PaymentIntentID)
	if _, err := svc.HandleWebhook(ctx, "sig", payload); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	// Same event replayed.
	result, err := svc.HandleWebhook(ctx, "sig", payload)
	if err != nil {
		t.Fatalf("replayed delivery: %v", err)
	}
	if !result.Handled {
		t.Fatalf("replay should be acknowledged")
	}

	// A second success event for the same intent under a fresh event id.
	if _, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_2", model.StripeEventPaymentSucceeded, order.PaymentIntentID)); err != nil {
		t.Fatalf("second event: %v", err)
	}

	if n := countRows(t, db, &model.Notification{}, "order_id = ?", order.ID); n != 1 {
		t.Fatalf("expected exactly one notification, got %d", n)
	}
	var updated model.Order
	if err := db.First(&updated, order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if !updated.Paid || updated.Status != model.StatusReadyForDelivery {
		t.Fatalf("order state must be unchanged by replays")
	}
}

func TestWebhookPaymentFailedKeepsCart(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newPaymentService(db, &stubGateway{})
	order := placeCardOrder(t, db)

	result, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_1", model.StripeEventPaymentFailed, order.PaymentIntentID))
	if err != nil {
		t.Fatalf("handle webhook: %v", err)
	}
	if !result.Handled {
		t.Fatalf("expected the event to be handled")
	}

	var updated model.Order
	if err := db.First(&updated, order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if updated.Status != model.StatusCancelled || updated.Paid {
		t.Fatalf("expected cancelled unpaid order, got status=%v paid=%v", updated.Status, updated.Paid)
	}
	if updated.PaymentStatus != "failed" {
		t.Fatalf("expected payment status failed, got %q", updated.PaymentStatus)
	}
	// The cart stays usable so checkout can be retried.
	if n := countRows(t, db, &model.Cart{}, "id = ? AND active = ?", order.CartID, true); n != 1 {
		t.Fatalf("expected the cart to stay active")
	}
	if n := countRows(t, db, &model.Notification{}, "order_id = ? AND audience = ?", order.ID, model.AudienceUser); n != 1 {
		t.Fatalf("expected one user notification, got %d", n)
	}
}

func TestWebhookLateFailureDoesNotCancelPaidOrder(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newPaymentService(db, &stubGateway{})
	order := placeCardOrder(t, db)

	if _, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_1", model.StripeEventPaymentSucceeded, order.PaymentIntentID)); err != nil {
		t.Fatalf("succeeded event: %v", err)
	}

	// A stale failure event for the same intent, under a fresh event id,
	// arrives after the order is paid.
	result, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_2", model.StripeEventPaymentFailed, order.PaymentIntentID))
	if err != nil {
		t.Fatalf("late failed event: %v", err)
	}
	if !result.Handled {
		t.Fatalf("stale failure must still be acknowledged")
	}

	var updated model.Order
	if err := db.First(&updated, order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if !updated.Paid || updated.Status != model.StatusReadyForDelivery {
		t.Fatalf("paid order must not be cancelled, got status=%v paid=%v", updated.Status, updated.Paid)
	}
	if updated.PaymentStatus != "succeeded" {
		t.Fatalf("expected payment status succeeded, got %q", updated.PaymentStatus)
	}
	if n := countRows(t, db, &model.Notification{}, "order_id = ? AND audience = ?", order.ID, model.AudienceUser); n != 0 {
		t.Fatalf("stale failure must not notify the user, got %d notifications", n)
	}
}

func TestWebhookUnknownEventType(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newPaymentService(db, &stubGateway{})

	result, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_1", "customer.created", "pi_whatever"))
	if err != nil {
		t.Fatalf("unknown events must be acknowledged, got %v", err)
	}
	if result.Handled {
		t.Fatalf("expected handled=false for an unknown event type")
	}
}

func TestWebhookUnknownIntent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newPaymentService(db, &stubGateway{})

	_, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_1", model.StripeEventPaymentSucceeded, "pi_missing"))
	if !errors.Is(err, apperr.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	svc := newPaymentService(db, &stubGateway{failSignature: true})

	_, err := svc.HandleWebhook(ctx, "sig",
		webhookPayload(t, "evt_1", model.StripeEventPaymentSucceeded, "pi_1"))
	if !errors.Is(err, apperr.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected a forbidden error, got %v", err)
	}
}
