package ports

import (
	"context"

	"parts-checkout/internal/features/checkout/domain"
	payments "parts-checkout/internal/features/payments/domain"
	shipping "parts-checkout/internal/features/shipping/domain"
)

// Catalog serves the static lists a checkout needs.
type Catalog interface {
	PaymentMethods(ctx context.Context) ([]payments.PaymentMethodDescriptor, error)
	Provinces(ctx context.Context) ([]domain.Province, error)
}

// ProvinceSource is the upstream province list.
type ProvinceSource interface {
	Provinces(ctx context.Context) ([]domain.Province, error)
}

// ProfileProvider looks up the customer behind a storefront session cookie.
// It returns ErrUnauthenticated when the cookie belongs to nobody.
type ProfileProvider interface {
	Profile(ctx context.Context, cookie string) (*domain.Profile, error)
}

// Quoter prices delivery for a destination and cart.
type Quoter interface {
	Quote(ctx context.Context, req shipping.QuoteRequest) ([]shipping.ShippingOption, error)
}

// Dispatcher runs the payment protocols.
type Dispatcher interface {
	Submit(ctx context.Context, sub payments.Submission) payments.Outcome
	Finalize(ctx context.Context, sessionID string, provider payments.ProviderID, transactionID string) payments.Outcome
}
