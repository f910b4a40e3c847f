package service

import (
	"parts-checkout/internal/features/payments/domain"
	shipping "parts-checkout/internal/features/shipping/domain"
)

// AvailableMethods filters the catalog by delivery type. Nothing is offered until a
// delivery type is chosen. Unconfigured methods stay in the list so the storefront
// can show them as unavailable.
func AvailableMethods(catalog []domain.PaymentMethodDescriptor, delivery shipping.DeliveryType) []domain.PaymentMethodDescriptor {
	out := make([]domain.PaymentMethodDescriptor, 0, len(catalog))
	for _, m := range catalog {
		if m.ApplicableFor(delivery) {
			out = append(out, m)
		}
	}
	return out
}

// IsSelectable reports whether provider can be chosen for delivery right now.
func IsSelectable(catalog []domain.PaymentMethodDescriptor, delivery shipping.DeliveryType, provider domain.ProviderID) bool {
	for _, m := range AvailableMethods(catalog, delivery) {
		if m.Provider == provider {
			return m.IsConfigured
		}
	}
	return false
}
