package service

import (
	"context"
	"time"

	"parts-checkout/internal/features/checkout/domain"
	shipping "parts-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// freezeQuote stops the debouncer and orphans any quote in flight without
// touching the current selection.
func (s *Session) freezeQuote() uint64 {
	s.quoteToken++
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	s.quoting = false
	s.quoteErr = ""
	return s.quoteToken
}

// invalidateQuote additionally drops the rated options; for shipping delivery
// the chosen option and its cost go with them.
func (s *Session) invalidateQuote() uint64 {
	token := s.freezeQuote()
	if s.draft.DeliveryType == shipping.DeliveryShipping {
		s.options = nil
		s.draft.ShippingMethodID = ""
		s.shippingCost = decimal.Zero
	}
	return token
}

func (s *Session) quotable() bool {
	return s.draft.DeliveryType == shipping.DeliveryShipping &&
		s.draft.Shipping.Province != "" &&
		!s.cart.IsEmpty()
}

// scheduleQuote invalidates the current quote and arms a trailing debouncer, so
// a burst of changes produces one upstream call.
func (s *Session) scheduleQuote() {
	token := s.invalidateQuote()
	if !s.quotable() {
		return
	}
	s.quoting = true
	s.debounce = time.AfterFunc(s.svc.cfg.QuoteDebounce, func() {
		_ = s.runQuote(context.Background(), token)
	})
}

// runQuote prices the cart for token. Results for a superseded token are
// dropped.
func (s *Session) runQuote(ctx context.Context, token uint64) error {
	s.mu.Lock()
	if token != s.quoteToken {
		s.mu.Unlock()
		return nil
	}
	req := shipping.QuoteRequest{
		Province:   s.draft.Shipping.Province,
		PostalCode: s.draft.Shipping.PostalCode,
		Cart:       s.cart.Clone(),
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.svc.cfg.QuoteTimeout)
	defer cancel()

	options, err := s.svc.quoter.Quote(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.quoteToken {
		s.log.Debug("Discarding stale shipping quote",
			zap.Uint64("token", token),
			zap.Uint64("current", s.quoteToken),
			zap.String("province", req.Province),
		)
		return nil
	}
	s.quoting = false

	if err != nil {
		s.quoteErr = domain.MsgQuoteFailed
		s.log.Error("Shipping quote failed", zap.String("province", req.Province), zap.Error(err))
		return err
	}

	s.options = options
	if len(options) > 0 {
		cheapest := options[0]
		s.draft.ShippingMethodID = cheapest.SelectionID()
		s.shippingCost = cheapest.Cost
	}
	s.log.Info("Shipping quote applied",
		zap.String("province", req.Province),
		zap.Int("options", len(options)),
		zap.String("selected", s.draft.ShippingMethodID),
	)
	return nil
}

// QuoteNow runs a quote immediately under the same token rules. A failed quote
// is reported in the view, not as an error.
func (s *Session) QuoteNow(ctx context.Context) (View, error) {
	s.mu.Lock()
	if err := s.beginEdit(); err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	switch s.draft.DeliveryType {
	case shipping.DeliveryUnset:
		s.mu.Unlock()
		return View{}, domain.ErrDeliveryTypeRequired
	case shipping.DeliveryPickup:
		defer s.mu.Unlock()
		return s.viewLocked(), nil
	}
	if s.draft.Shipping.Province == "" {
		s.mu.Unlock()
		return View{}, shipping.ErrNoDestination
	}
	if !s.quotable() {
		defer s.mu.Unlock()
		return s.viewLocked(), nil
	}
	token := s.invalidateQuote()
	s.quoting = true
	s.mu.Unlock()

	_ = s.runQuote(ctx, token)
	return s.View(), nil
}
