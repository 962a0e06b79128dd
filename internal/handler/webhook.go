package handler

import (
	"io"
	"net/http"

	"food-ordering-api/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	paymentService service.PaymentService
}

func NewWebhookHandler(paymentService service.PaymentService) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService}
}

// POST /api/webhooks/stripe — the raw body is needed for signature
// verification, so this route must not go through any body-parsing
// middleware.
func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}
	signature := c.Request().Header.Get("Stripe-Signature")

	result, err := h.paymentService.HandleWebhook(ctx, signature, payload)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "webhook received", result)
}
