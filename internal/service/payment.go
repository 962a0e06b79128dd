package service

import (
	"context"
	"encoding/json"
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
	"gorm.io/gorm"
)

// PaymentService is the webhook-driven payment state machine:
// Pending -> Paid on payment_intent.succeeded, Pending -> Cancelled on
// payment_intent.payment_failed. Delivery is at-least-once, so every
// transition is guarded by the webhook event store and a paid-flag check.
type PaymentService interface {
	HandleWebhook(ctx context.Context, signatureHeader string, payload []byte) (*dto.WebhookResult, error)
}

type paymentServiceImpl struct {
	db               *gorm.DB
	orderRepo        repository.OrderRepository
	cartRepo         repository.CartRepository
	webhookEventRepo repository.WebhookEventRepository
	notificationRepo repository.NotificationRepository
	gateway          client.PaymentGateway
	logger           *slog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	webhookEventRepo repository.WebhookEventRepository,
	notificationRepo repository.NotificationRepository,
	gateway client.PaymentGateway,
	logger *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:               db,
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		webhookEventRepo: webhookEventRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, signatureHeader string, payload []byte) (*dto.WebhookResult, error) {
	if err := s.gateway.VerifyWebhookSignature(signatureHeader, payload); err != nil {
		s.logger.Warn("webhook signature rejected", "error", err)
		return nil, apperr.ErrInvalidSignature
	}

	var event model.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "malformed webhook payload", err)
	}
	if event.ID == "" {
		return nil, apperr.New(apperr.KindValidation, "webhook payload has no event id")
	}

	processed, err := s.webhookEventRepo.Exists(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if processed {
		s.logger.Info("webhook event replayed, skipping",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return &dto.WebhookResult{Handled: true}, nil
	}

	switch event.Type {
	case model.StripeEventPaymentSucceeded:
		if err := s.onPaymentSucceeded(ctx, &event); err != nil {
			return nil, err
		}
		return &dto.WebhookResult{Handled: true}, nil
	case model.StripeEventPaymentFailed:
		if err := s.onPaymentFailed(ctx, &event); err != nil {
			return nil, err
		}
		return &dto.WebhookResult{Handled: true}, nil
	}

	// Unknown event types are acknowledged so the gateway stops retrying.
	return &dto.WebhookResult{Handled: false}, nil
}

func (s *paymentServiceImpl) onPaymentSucceeded(ctx context.Context, event *model.StripeEvent) error {
	intentID := event.Data.Object.ID
	if intentID == "" {
		return apperr.New(apperr.KindValidation, "webhook payload has no payment intent id")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIntentID(ctx, tx, intentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrOrderNotFound
			}
			return err
		}

		changed, err := s.orderRepo.MarkPaid(ctx, tx, order.ID, model.StatusReadyForDelivery, time.Now())
		if err != nil {
			return err
		}

		// A second delivery for an already-paid order records the event and
		// stops: no extra cart deactivation, no duplicate notification.
		if changed {
			if err := s.cartRepo.Deactivate(ctx, tx, order.CartID); err != nil {
				return err
			}
			if err := s.notificationRepo.Create(ctx, tx, &model.Notification{
				ID:       uuid.NewString(),
				OrderID:  order.ID,
				Audience: model.AudienceAdmins,
				Title:    "Order paid",
				Body:     fmt.Sprintf("Order #%d was paid by card", order.ID),
			}); err != nil {
				return err
			}
		}

		return s.webhookEventRepo.MarkProcessed(ctx, tx, event.ID, event.Type)
	})
}

// onPaymentFailed cancels the order but leaves the cart active, so the user
// can retry checkout with the same items.
func (s *paymentServiceImpl) onPaymentFailed(ctx context.Context, event *model.StripeEvent) error {
	intentID := event.Data.Object.ID
	if intentID == "" {
		return apperr.New(apperr.KindValidation, "webhook payload has no payment intent id")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIntentID(ctx, tx, intentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrOrderNotFound
			}
			return err
		}

		changed, err := s.orderRepo.MarkPaymentFailed(ctx, tx, order.ID)
		if err != nil {
			return err
		}

		// A failure event arriving after the order was paid is stale: record
		// it and leave the paid order alone.
		if changed {
			if err := s.notificationRepo.Create(ctx, tx, &model.Notification{
				ID:       uuid.NewString(),
				OrderID:  order.ID,
				Audience: model.AudienceUser,
				Title:    "Payment failed",
				Body:     fmt.Sprintf("The payment for order #%d failed, please try again", order.ID),
			}); err != nil {
				return err
			}
		}

		return s.webhookEventRepo.MarkProcessed(ctx, tx, event.ID, event.Type)
	})
}
