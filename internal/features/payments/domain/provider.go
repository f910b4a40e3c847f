package domain

import (
	"errors"
	"fmt"

	shipping "parts-checkout/internal/features/shipping/domain"
)

// ProviderID identifies a payment module configured in the shop backend.
type ProviderID string

const (
	ProviderStripe       ProviderID = "stripe"
	ProviderPayPal       ProviderID = "paypal"
	ProviderRedsys       ProviderID = "redsys"
	ProviderBankTransfer ProviderID = "bank_transfer"
	ProviderCash         ProviderID = "cash"
)

var ErrUnsupportedProvider = errors.New("unsupported payment provider")

// Protocol is the closed set of payment protocol shapes. Only the three types in
// this file implement it.
type Protocol interface {
	Provider() ProviderID
	protocol()
}

// RedirectFirst providers hand back a hosted payment URL; the order is created
// only after the customer returns from the gateway.
type RedirectFirst struct{ ID ProviderID }

// OrderFirst providers need an existing order and answer with an auto-submitting
// HTML form that leaves the storefront.
type OrderFirst struct{ ID ProviderID }

// Synchronous providers create the order in one call and never leave the site.
type Synchronous struct{ ID ProviderID }

func (p RedirectFirst) Provider() ProviderID { return p.ID }
func (p OrderFirst) Provider() ProviderID    { return p.ID }
func (p Synchronous) Provider() ProviderID   { return p.ID }

func (RedirectFirst) protocol() {}
func (OrderFirst) protocol()    {}
func (Synchronous) protocol()   {}

// ProtocolFor maps a provider to its protocol.
func ProtocolFor(id ProviderID) (Protocol, error) {
	switch id {
	case ProviderStripe, ProviderPayPal:
		return RedirectFirst{ID: id}, nil
	case ProviderRedsys:
		return OrderFirst{ID: id}, nil
	case ProviderBankTransfer, ProviderCash:
		return Synchronous{ID: id}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, id)
}

// DisplayName is the gateway name used in customer-facing messages.
func (id ProviderID) DisplayName() string {
	switch id {
	case ProviderStripe:
		return "Stripe"
	case ProviderPayPal:
		return "PayPal"
	case ProviderRedsys:
		return "Redsys"
	case ProviderBankTransfer:
		return "Transferencia bancaria"
	case ProviderCash:
		return "Pago en tienda"
	}
	return string(id)
}

// PaymentMethodDescriptor is one entry of the payment method catalog.
type PaymentMethodDescriptor struct {
	ID                      int64      `json:"id"`
	Provider                ProviderID `json:"provider"`
	DisplayName             string     `json:"name"`
	IsConfigured            bool       `json:"isConfigured"`
	IsApplicableForPickup   bool       `json:"isApplicableForPickup"`
	IsApplicableForShipping bool       `json:"isApplicableForShipping"`
}

// NewPaymentMethodDescriptor derives applicability from the provider: paying at the
// counter only makes sense when the customer collects the order.
func NewPaymentMethodDescriptor(id int64, provider ProviderID, name string, configured bool) PaymentMethodDescriptor {
	return PaymentMethodDescriptor{
		ID:                      id,
		Provider:                provider,
		DisplayName:             name,
		IsConfigured:            configured,
		IsApplicableForPickup:   true,
		IsApplicableForShipping: provider != ProviderCash,
	}
}

// ApplicableFor reports whether the method may be offered for delivery.
func (d PaymentMethodDescriptor) ApplicableFor(delivery shipping.DeliveryType) bool {
	switch delivery {
	case shipping.DeliveryPickup:
		return d.IsApplicableForPickup
	case shipping.DeliveryShipping:
		return d.IsApplicableForShipping
	}
	return false
}
