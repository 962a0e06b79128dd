package apperr

// Error taxonomy shared by services and handlers. Services return these
// sentinels (or wrap causes with them); handlers map Kind to an HTTP status.

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindExternal
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the taxonomy kind of err, or KindInternal for anything
// that did not originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrInvalidQuantity    = New(KindValidation, "quantity must be greater than zero")
	ErrProductNotFound    = New(KindNotFound, "product does not exist")
	ErrProductInactive    = New(KindValidation, "product is not available")
	ErrCartFull           = New(KindConflict, "cart cannot hold more distinct items")
	ErrMaxQuantityReached = New(KindConflict, "maximum quantity for this item reached")
	ErrNoActiveCart       = New(KindNotFound, "user has no active cart")
	ErrItemNotInCart      = New(KindNotFound, "item is not in the cart")
	ErrEmptyCart          = New(KindValidation, "cart is empty")

	ErrLocationRequired = New(KindValidation, "delivery orders require a location")
	ErrLocationNotFound = New(KindNotFound, "location does not exist")

	ErrInvalidPaymentType  = New(KindValidation, "unknown payment type")
	ErrInvalidShipmentType = New(KindValidation, "unknown shipment type")
	ErrInvalidOrderStatus  = New(KindValidation, "unknown order status")

	ErrOrderNotFound       = New(KindNotFound, "order does not exist")
	ErrNotOwner            = New(KindForbidden, "order does not belong to this user")
	ErrNoValidItems        = New(KindValidation, "order has no items that can be reordered")
	ErrNoProductsAvailable = New(KindConflict, "none of the ordered products are available anymore")

	ErrInvalidSignature = New(KindForbidden, "webhook signature verification failed")
)
