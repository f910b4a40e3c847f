package service

import (
	cart "parts-checkout/internal/features/cart/domain"
	"parts-checkout/internal/features/checkout/domain"
	payments "parts-checkout/internal/features/payments/domain"
	paymentsvc "parts-checkout/internal/features/payments/service"
	shipping "parts-checkout/internal/features/shipping/domain"
)

// View is everything the storefront renders for a checkout.
type View struct {
	SessionID       string                             `json:"sessionId"`
	State           domain.State                       `json:"state"`
	Draft           domain.OrderDraft                  `json:"draft"`
	Cart            *cart.Cart                         `json:"cart"`
	CartRestored    bool                               `json:"cartRestored"`
	ShippingOptions []shipping.ShippingOption          `json:"shippingOptions"`
	Quoting         bool                               `json:"quoting"`
	QuoteError      string                             `json:"quoteError,omitempty"`
	Totals          payments.Totals                    `json:"totals"`
	PaymentMethods  []payments.PaymentMethodDescriptor `json:"paymentMethods"`
	FieldErrors     map[domain.Field]string            `json:"fieldErrors"`
	FormValid       bool                               `json:"formValid"`
	ShowValidation  bool                               `json:"showValidation"`
	LastFailure     *Failure                           `json:"lastFailure,omitempty"`
}

// Failure is a failed submission as the customer sees it.
type Failure struct {
	Kind        payments.FailureKind    `json:"kind"`
	Field       string                  `json:"field,omitempty"`
	Message     string                  `json:"message"`
	FieldErrors map[domain.Field]string `json:"fieldErrors,omitempty"`
	Order       *payments.OrderRef      `json:"order,omitempty"`
}

type OutcomeKind string

const (
	OutcomeRedirect  OutcomeKind = "redirect"
	OutcomeConfirmed OutcomeKind = "confirmed"
	OutcomeFailed    OutcomeKind = "failed"
)

// SubmitResult tells the storefront where to go next. A redirect carries
// either a URL or a sanitised form to auto-submit.
type SubmitResult struct {
	Outcome         OutcomeKind            `json:"outcome"`
	RedirectURL     string                 `json:"redirectUrl,omitempty"`
	RedirectForm    *payments.RedirectForm `json:"redirectForm,omitempty"`
	ConfirmationURL string                 `json:"confirmationUrl,omitempty"`
	Order           *payments.OrderRef     `json:"order,omitempty"`
	Failure         *Failure               `json:"failure,omitempty"`
	View            View                   `json:"view"`
}

func (s *Session) viewLocked() View {
	options := make([]shipping.ShippingOption, len(s.options))
	copy(options, s.options)
	c := s.cart
	if c == nil {
		c = &cart.Cart{}
	}

	return View{
		SessionID:       s.id,
		State:           s.state,
		Draft:           s.draft,
		Cart:            c.Clone(),
		CartRestored:    s.cartRestored,
		ShippingOptions: options,
		Quoting:         s.quoting,
		QuoteError:      s.quoteErr,
		Totals:          s.totalsLocked(),
		PaymentMethods:  paymentsvc.AvailableMethods(s.methods, s.draft.DeliveryType),
		FieldErrors:     FormErrors(s.draft, s.showValidation),
		FormValid:       IsFormValid(s.draft),
		ShowValidation:  s.showValidation,
		LastFailure:     s.lastFailure,
	}
}
