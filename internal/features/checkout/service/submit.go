package service

import (
	"context"
	"time"

	cart "parts-checkout/internal/features/cart/domain"
	"parts-checkout/internal/features/checkout/domain"
	payments "parts-checkout/internal/features/payments/domain"
	paymentsvc "parts-checkout/internal/features/payments/service"
	shipping "parts-checkout/internal/features/shipping/domain"

	"go.uber.org/zap"
)

// Submit validates the draft and, when it holds, dispatches it through the
// protocol of the chosen provider. Validation failures never reach the network.
func (s *Session) Submit(ctx context.Context) (SubmitResult, error) {
	s.mu.Lock()

	s.lastActive = time.Now()
	switch s.state {
	case domain.StateDispatching, domain.StateValidating:
		s.mu.Unlock()
		return SubmitResult{}, domain.ErrSubmissionInProgress
	case domain.StateConfirmed:
		s.mu.Unlock()
		return SubmitResult{}, domain.ErrCheckoutClosed
	case domain.StateFailed, domain.StateRedirectingExternal:
		if err := s.transition(domain.StateEditing); err != nil {
			s.mu.Unlock()
			return SubmitResult{}, err
		}
	}

	if err := s.transition(domain.StateValidating); err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}
	s.showValidation = true
	s.lastFailure = nil

	if f := s.validateLocked(ctx); f != nil {
		defer s.mu.Unlock()
		if err := s.transition(domain.StateEditing); err != nil {
			return SubmitResult{}, err
		}
		s.lastFailure = f
		return SubmitResult{Outcome: OutcomeFailed, Failure: f, View: s.viewLocked()}, nil
	}

	sub := s.submissionLocked()
	if err := s.transition(domain.StateDispatching); err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}
	s.freezeQuote()

	snapshot := false
	proto, _ := payments.ProtocolFor(sub.Provider)
	if _, ok := proto.(payments.OrderFirst); ok {
		if err := s.svc.carts.Snapshot(ctx, s.id, s.cart.Clone()); err != nil {
			s.log.Warn("Failed to snapshot cart before redirect", zap.Error(err))
		} else {
			snapshot = true
		}
	}
	s.mu.Unlock()

	out := s.svc.dispatcher.Submit(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyOutcome(ctx, out, snapshot)
}

// validateLocked runs full-form validation plus the checks that need session
// state: a non-empty cart, a rated option that still exists, a legal method.
func (s *Session) validateLocked(ctx context.Context) *Failure {
	if s.cart.IsEmpty() {
		return &Failure{Kind: payments.FailureValidation, Message: domain.MsgEmptyCart}
	}

	errs := FormErrors(s.draft, true)
	if _, ok := errs[domain.FieldShippingMethod]; !ok && s.draft.DeliveryType == shipping.DeliveryShipping {
		if _, found := shipping.FindOption(s.options, s.draft.ShippingMethodID); !found {
			errs[domain.FieldShippingMethod] = FieldError(domain.FieldShippingMethod, "", true)
		}
	}
	if _, ok := errs[domain.FieldPaymentMethod]; !ok {
		if !paymentsvc.IsSelectable(s.ensureMethods(ctx), s.draft.DeliveryType, s.draft.PaymentProvider) {
			errs[domain.FieldPaymentMethod] = payments.MsgPaymentUnavailable
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &Failure{Kind: payments.FailureValidation, Message: payments.MsgFormInvalid, FieldErrors: errs}
}

// submissionLocked computes totals and resolves the billing address.
func (s *Session) submissionLocked() payments.Submission {
	d := s.draft
	billing := d.BillingAddress()
	totals := s.totalsLocked()

	items := make([]payments.OrderItem, 0, len(s.cart.Lines))
	for _, l := range s.cart.Lines {
		items = append(items, payments.OrderItem{
			PartID:   l.PartID,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
			PartName: l.PartName,
		})
	}

	req := payments.OrderRequest{
		CustomerName:       d.Customer.Name,
		CustomerLastName:   d.Customer.LastName,
		CustomerEmail:      d.Customer.Email,
		CustomerPhone:      d.Customer.Phone,
		CustomerNifCif:     d.Customer.NifCif,
		ShippingAddress:    d.Shipping.Street,
		ShippingCity:       d.Shipping.City,
		ShippingProvince:   d.Shipping.Province,
		ShippingPostalCode: d.Shipping.PostalCode,
		ShippingCountry:    domain.DefaultCountry,
		BillingAddress:     billing.Street,
		BillingCity:        billing.City,
		BillingProvince:    billing.Province,
		BillingPostalCode:  billing.PostalCode,
		PaymentMethodID:    d.PaymentProvider,
		ShippingMethodID:   payments.ShippingMethodRef(d.ShippingMethodID),
		ShippingType:       d.DeliveryType,
		Notes:              d.Notes,
		Items:              items,
		CreateAccount:      d.Account.Create,
		SessionID:          s.id,
	}
	if d.Account.Create {
		req.Password = d.Account.Password
	}
	req.SetTotals(totals)

	return payments.Submission{
		SessionID: s.id,
		Provider:  d.PaymentProvider,
		Order:     req,
		Totals:    totals,
	}
}

func (s *Session) applyOutcome(ctx context.Context, out payments.Outcome, snapshot bool) (SubmitResult, error) {
	switch o := out.(type) {
	case payments.Redirect:
		if err := s.transition(domain.StateRedirectingExternal); err != nil {
			return SubmitResult{}, err
		}
		// An order-first redirect leaves with the order already created, so the
		// cart is emptied now; the snapshot brings it back if the customer cancels.
		if o.Form != nil {
			s.clearCart(ctx)
		}
		return SubmitResult{
			Outcome:      OutcomeRedirect,
			RedirectURL:  o.URL,
			RedirectForm: o.Form,
			Order:        o.Order,
			View:         s.viewLocked(),
		}, nil

	case payments.Confirmed:
		if err := s.transition(domain.StateConfirmed); err != nil {
			return SubmitResult{}, err
		}
		s.clearCart(ctx)
		order := o.Order
		return SubmitResult{
			Outcome:         OutcomeConfirmed,
			ConfirmationURL: payments.ConfirmationURL(s.svc.cfg.PublicURL, order.ID, o.Provider, s.id),
			Order:           &order,
			View:            s.viewLocked(),
		}, nil

	case payments.Failed:
		if err := s.transition(domain.StateFailed); err != nil {
			return SubmitResult{}, err
		}
		if snapshot {
			if err := s.svc.carts.DiscardSnapshot(ctx, s.id); err != nil {
				s.log.Warn("Failed to discard cart snapshot", zap.Error(err))
			}
		}
		f := &Failure{Kind: o.Kind, Field: o.Field, Message: o.Message, Order: o.Order}
		s.lastFailure = f
		return SubmitResult{Outcome: OutcomeFailed, Failure: f, View: s.viewLocked()}, nil
	}

	// Unreachable while Outcome stays sealed.
	s.state = domain.StateFailed
	f := &Failure{Kind: payments.FailureGeneric, Message: payments.MsgOrderCreateFailed}
	s.lastFailure = f
	return SubmitResult{Outcome: OutcomeFailed, Failure: f, View: s.viewLocked()}, nil
}

func (s *Session) clearCart(ctx context.Context) {
	if err := s.svc.carts.Clear(ctx, s.id); err != nil {
		s.log.Warn("Failed to clear cart", zap.Error(err))
	}
	s.cart = &cart.Cart{}
}

// Finalize completes a redirect-first payment after the gateway sent the
// customer back with a transaction id.
func (s *Session) Finalize(ctx context.Context, provider payments.ProviderID, transactionID string) (SubmitResult, error) {
	s.mu.Lock()

	s.lastActive = time.Now()
	switch s.state {
	case domain.StateDispatching, domain.StateValidating:
		s.mu.Unlock()
		return SubmitResult{}, domain.ErrSubmissionInProgress
	case domain.StateConfirmed:
		s.mu.Unlock()
		return SubmitResult{}, domain.ErrCheckoutClosed
	case domain.StateRedirectingExternal:
	default:
		// The parked order, not this process, remembers that the customer left
		// through a gateway; a session rebuilt after a restart starts in editing.
		s.state = domain.StateRedirectingExternal
	}

	if err := s.transition(domain.StateDispatching); err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}
	s.freezeQuote()
	s.mu.Unlock()

	out := s.svc.dispatcher.Finalize(ctx, s.id, provider, transactionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyOutcome(ctx, out, false)
}
