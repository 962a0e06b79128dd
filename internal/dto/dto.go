package dto

import (
	"food-ordering-api/internal/model"

	"github.com/shopspring/decimal"
)

type CartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartTotals struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalQuantity int             `json:"totalQuantity"`
}

type CreateOrderRequest struct {
	PaymentTypeID  int             `json:"idPaymentType"`
	ShipmentTypeID int             `json:"idShipmentType"`
	LocationID     *uint           `json:"idLocation"`
	ShipmentValue  decimal.Decimal `json:"shipmentValue"`
}

type PaymentDetails struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// PaymentDetails stays nil for cash orders and for card orders whose
// payment intent could not be created.
type CreateOrderResponse struct {
	Order          *model.Order    `json:"order"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
}

type UpdateOrderStatusRequest struct {
	OrderStatusID int `json:"idOrderStatus"`
}

type WebhookResult struct {
	Handled bool `json:"handled"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
}

type LocationRequest struct {
	Label  string `json:"label"`
	Street string `json:"street"`
	City   string `json:"city"`
	Notes  string `json:"notes"`
}

type DeviceTokenRequest struct {
	Token string `json:"token"`
}
