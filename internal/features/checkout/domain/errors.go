package domain

import "errors"

var (
	ErrSessionNotFound           = errors.New("checkout session not found")
	ErrInvalidSessionID          = errors.New("invalid checkout session id")
	ErrSubmissionInProgress      = errors.New("a submission is already in progress")
	ErrCheckoutClosed            = errors.New("checkout already confirmed")
	ErrDeliveryTypeRequired      = errors.New("delivery type must be chosen first")
	ErrShippingOptionUnavailable = errors.New("shipping option is not available")
	ErrPaymentMethodUnavailable  = errors.New("payment method is not available")
	ErrUnauthenticated           = errors.New("no authenticated customer")
)

// Customer-facing messages owned by the checkout flow.
const (
	MsgEmptyCart   = "Tu carrito está vacío"
	MsgQuoteFailed = "No se pudieron calcular las opciones de envío"
)
