package ports

import (
	"context"

	"parts-checkout/internal/features/payments/domain"
)

// OrderService creates orders in the shop backend.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRef, error)
}

// PaymentGateway talks to the backend payment modules.
type PaymentGateway interface {
	// CreatePaymentIntent returns the hosted payment URL of a redirect-first gateway.
	CreatePaymentIntent(ctx context.Context, provider domain.ProviderID, intent domain.PaymentIntent) (string, error)
	// CreatePaymentForm returns the untrusted redirect form of an order-first gateway.
	CreatePaymentForm(ctx context.Context, provider domain.ProviderID, req domain.PaymentFormRequest) (domain.PaymentForm, error)
}

// PendingOrderStore keeps the order payload of a redirect-first payment until the
// customer returns from the gateway.
type PendingOrderStore interface {
	Save(ctx context.Context, sessionID string, req domain.OrderRequest) error
	// Take consumes the pending order; nil, nil when there is none.
	Take(ctx context.Context, sessionID string) (*domain.OrderRequest, error)
}

// MethodCatalog lists the payment methods the shop has enabled.
type MethodCatalog interface {
	PaymentMethods(ctx context.Context) ([]domain.PaymentMethodDescriptor, error)
}

// FormSubmitter submits a sanitised redirect form the way a browser would and
// reports where it landed.
type FormSubmitter interface {
	Submit(ctx context.Context, form domain.RedirectForm) (string, error)
}
