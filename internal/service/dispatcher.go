package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"food-ordering-api/internal/client"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"gorm.io/gorm"
)

// Dispatcher drains the notification outbox. Notifications are written
// inside the transactions that cause them; this worker delivers them to
// device tokens out of band, so a push failure can never fail or roll back
// an order operation. Failed rows stay unsent and are retried next tick.
type Dispatcher struct {
	notificationRepo repository.NotificationRepository
	orderRepo        repository.OrderRepository
	userRepo         repository.UserRepository
	push             client.PushClient
	interval         time.Duration
	batchSize        int
	logger           *slog.Logger
}

func NewDispatcher(
	notificationRepo repository.NotificationRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	push client.PushClient,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		notificationRepo: notificationRepo,
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		push:             push,
		interval:         interval,
		batchSize:        batchSize,
		logger:           logger,
	}
}

// Run blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchOnce(ctx)
		}
	}
}

func (d *Dispatcher) DispatchOnce(ctx context.Context) {
	notifications, err := d.notificationRepo.ListUnsent(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("list unsent notifications failed", "error", err)
		return
	}

	for _, notification := range notifications {
		if err := d.deliver(ctx, notification); err != nil {
			d.logger.Error("deliver notification failed",
				"notification_id", notification.ID,
				"order_id", notification.OrderID,
				"error", err,
			)
			continue
		}
		if err := d.notificationRepo.MarkSent(ctx, notification.ID, time.Now()); err != nil {
			d.logger.Error("mark notification sent failed",
				"notification_id", notification.ID,
				"error", err,
			)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, notification *model.Notification) error {
	tokens, err := d.resolveTokens(ctx, notification)
	if err != nil {
		return err
	}
	// No registered devices: nothing to deliver, the row is still done.
	if len(tokens) == 0 {
		return nil
	}

	return d.push.Send(ctx, tokens, notification.Title, notification.Body, map[string]string{
		"orderId": strconv.FormatUint(uint64(notification.OrderID), 10),
	})
}

func (d *Dispatcher) resolveTokens(ctx context.Context, notification *model.Notification) ([]string, error) {
	if notification.Audience == model.AudienceAdmins {
		return d.userRepo.AdminDeviceTokens(ctx)
	}

	order, err := d.orderRepo.FindByID(ctx, nil, notification.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return d.userRepo.DeviceTokensForUser(ctx, order.UserID)
}
