package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole int

const (
	RoleAdmin    UserRole = 1
	RoleCustomer UserRole = 2
)

// OrderStatus is the single source of truth for order state. No other
// numeric status ids exist in the codebase.
type OrderStatus int

const (
	StatusPending          OrderStatus = 1
	StatusProcessing       OrderStatus = 2
	StatusReadyForPickup   OrderStatus = 3
	StatusReadyForDelivery OrderStatus = 4
	StatusShipped          OrderStatus = 5
	StatusDelivered        OrderStatus = 6
	StatusCancelled        OrderStatus = 7
)

func (s OrderStatus) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s OrderStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusReadyForPickup:
		return "Ready for pickup"
	case StatusReadyForDelivery:
		return "Ready for delivery"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

type PaymentType int

const (
	PaymentCash PaymentType = 1
	PaymentCard PaymentType = 2
)

func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentCard
}

type ShipmentType int

const (
	ShipmentPickup   ShipmentType = 1
	ShipmentDelivery ShipmentType = 2
)

func (s ShipmentType) Valid() bool {
	return s == ShipmentPickup || s == ShipmentDelivery
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Email        string   `gorm:"size:128;uniqueIndex;not null"`
	Name         string   `gorm:"size:128"`
	Role         UserRole `gorm:"not null;default:2"`
	Active       bool     `gorm:"not null;default:true"`
	DeviceTokens []DeviceToken
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DeviceToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Token     string `gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time
}

// Cart holds at most one active row per user. Superseded carts stay around
// so past orders keep their line items.
type Cart struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index:idx_carts_user_active;not null"`
	Active    bool `gorm:"index:idx_carts_user_active;not null;default:true"`
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem captures the product price at add time. Removal is soft:
// quantity goes to 0 and the row turns inactive.
type CartItem struct {
	ID               uint            `gorm:"primaryKey"`
	CartID           uint            `gorm:"index;not null"`
	ProductID        uint            `gorm:"index;not null"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Active           bool            `gorm:"not null;default:true"`
	Product          Product
	Personalizations []CartItemPersonalization
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Product struct {
	ID               uint            `gorm:"primaryKey"`
	Name             string          `gorm:"size:128;not null"`
	Description      string          `gorm:"size:512"`
	Type             string          `gorm:"size:32;index"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Active           bool            `gorm:"index;not null;default:true"`
	Personalizations []ProductPersonalization
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ProductPersonalization struct {
	ID        uint            `gorm:"primaryKey"`
	ProductID uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:128;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2)"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItemPersonalization struct {
	ID                uint                   `gorm:"primaryKey"`
	CartItemID        uint                   `gorm:"index;not null"`
	PersonalizationID uint                   `gorm:"index;not null"`
	Personalization   ProductPersonalization `gorm:"foreignKey:PersonalizationID"`
	CreatedAt         time.Time
}

// Order is immutable after creation except for the status, payment and
// delivery fields, which only the payment state machine and admin
// transitions touch.
type Order struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	CartID        uint            `gorm:"index;not null"`
	Status        OrderStatus     `gorm:"index;not null"`
	PaymentType   PaymentType     `gorm:"not null"`
	ShipmentType  ShipmentType    `gorm:"not null"`
	LocationID    *uint           `gorm:"index"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShipmentValue decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Paid          bool            `gorm:"not null;default:false"`
	PaidAt        *time.Time
	DeliveredAt   *time.Time

	// Set only for card payments.
	PaymentIntentID string `gorm:"size:64;index"`
	ClientSecret    string `gorm:"size:128"`
	PaymentStatus   string `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Location struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Label     string `gorm:"size:64"`
	Street    string `gorm:"size:255;not null"`
	City      string `gorm:"size:128;not null"`
	Notes     string `gorm:"size:255"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NotificationAudience string

const (
	AudienceUser   NotificationAudience = "user"
	AudienceAdmins NotificationAudience = "admins"
)

// Notification doubles as the push outbox: rows are written inside the
// transaction that caused them and delivered later by the dispatcher.
type Notification struct {
	ID        string               `gorm:"primaryKey;size:36"`
	OrderID   uint                 `gorm:"index;not null"`
	Audience  NotificationAudience `gorm:"size:16;not null"`
	Title     string               `gorm:"size:128;not null"`
	Body      string               `gorm:"size:512"`
	Sent      bool                 `gorm:"index;not null;default:false"`
	SentAt    *time.Time
	CreatedAt time.Time
}

// WebhookEvent records gateway event ids that have already been applied,
// so at-least-once webhook delivery stays idempotent.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
