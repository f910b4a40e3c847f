package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	cart "parts-checkout/internal/features/cart/domain"
	"parts-checkout/internal/features/checkout/domain"
	payments "parts-checkout/internal/features/payments/domain"
	paymentsvc "parts-checkout/internal/features/payments/service"
	shipping "parts-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Session is the orchestrator of one storefront checkout. Every exported method
// is safe for concurrent use; upstream calls that can take long (quotes and
// dispatch) run without holding the lock and are reconciled afterwards.
type Session struct {
	id  string
	svc *CheckoutService
	log *zap.Logger

	mu             sync.Mutex
	state          domain.State
	draft          domain.OrderDraft
	cart           *cart.Cart
	cartRestored   bool
	methods        []payments.PaymentMethodDescriptor
	options        []shipping.ShippingOption
	shippingCost   decimal.Decimal
	showValidation bool
	lastFailure    *Failure
	lastActive     time.Time

	// quoteToken grows with every invalidation; a quote result is applied only
	// if the token it was started with is still current.
	quoteToken uint64
	quoting    bool
	quoteErr   string
	debounce   *time.Timer
}

func newSession(id string, svc *CheckoutService) *Session {
	return &Session{
		id:         id,
		svc:        svc,
		log:        svc.log.With(zap.String("session_id", id)),
		state:      domain.StateEditing,
		draft:      domain.NewOrderDraft(),
		cart:       &cart.Cart{},
		lastActive: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) transition(next domain.State) error {
	if !s.state.CanTransitionTo(next) {
		return &domain.TransitionError{From: s.state, To: next}
	}
	s.log.Debug("Checkout state change", zap.Stringer("from", s.state), zap.Stringer("to", next))
	s.state = next
	return nil
}

// beginEdit is called under the lock by every form mutation.
func (s *Session) beginEdit() error {
	s.lastActive = time.Now()
	switch s.state {
	case domain.StateDispatching, domain.StateValidating:
		return domain.ErrSubmissionInProgress
	case domain.StateConfirmed:
		return domain.ErrCheckoutClosed
	case domain.StateFailed, domain.StateRedirectingExternal:
		return s.transition(domain.StateEditing)
	}
	return nil
}

// load is the page-load event: the live cart is read and, when empty, the
// recovery snapshot is consumed.
func (s *Session) load(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	s.cartRestored = false

	switch s.state {
	case domain.StateDispatching, domain.StateValidating:
		return s.viewLocked(), nil
	case domain.StateRedirectingExternal, domain.StateFailed:
		s.log.Info("Customer back on checkout", zap.Stringer("state", s.state))
		if err := s.transition(domain.StateEditing); err != nil {
			return View{}, err
		}
	}

	live, err := s.svc.carts.Get(ctx, s.id)
	if err != nil {
		return View{}, fmt.Errorf("failed to load cart: %w", err)
	}

	if live.IsEmpty() {
		restored, err := s.svc.carts.Restore(ctx, s.id)
		if err != nil {
			s.log.Warn("Failed to restore cart snapshot", zap.Error(err))
		} else if restored != nil && !restored.IsEmpty() {
			if err := s.svc.carts.Set(ctx, s.id, restored); err != nil {
				s.log.Warn("Failed to write restored cart", zap.Error(err))
			}
			s.log.Info("Cart restored from snapshot", zap.Int("lines", len(restored.Lines)))
			live = restored
			s.cartRestored = true
		}
	}
	s.cart = live

	s.ensureMethods(ctx)
	if s.draft.DeliveryType == shipping.DeliveryShipping {
		s.scheduleQuote()
	}
	return s.viewLocked(), nil
}

func (s *Session) ensureMethods(ctx context.Context) []payments.PaymentMethodDescriptor {
	if s.methods != nil {
		return s.methods
	}
	methods, err := s.svc.catalog.PaymentMethods(ctx)
	if err != nil {
		s.log.Error("Failed to load payment methods", zap.Error(err))
		return nil
	}
	s.methods = methods
	return methods
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// UpdateDraft merges form input. A new shipping province or postal code re-quotes.
func (s *Session) UpdateDraft(patch domain.DraftPatch) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginEdit(); err != nil {
		return View{}, err
	}
	if s.draft.Apply(patch) && s.draft.DeliveryType == shipping.DeliveryShipping {
		s.scheduleQuote()
	}
	return s.viewLocked(), nil
}

// SetDeliveryType switches between pickup and shipping. Any change clears the
// payment provider and the shipping method and zeroes the shipping cost.
func (s *Session) SetDeliveryType(raw string) (View, error) {
	dt, err := shipping.ParseDeliveryType(raw)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginEdit(); err != nil {
		return View{}, err
	}
	if dt == s.draft.DeliveryType {
		return s.viewLocked(), nil
	}

	s.draft.DeliveryType = dt
	s.draft.PaymentProvider = ""
	s.draft.ShippingMethodID = ""
	s.shippingCost = decimal.Zero
	s.options = nil

	switch dt {
	case shipping.DeliveryPickup:
		s.invalidateQuote()
		s.options = []shipping.ShippingOption{shipping.PickupOption()}
		s.draft.ShippingMethodID = shipping.PickupOptionID
	case shipping.DeliveryShipping:
		s.scheduleQuote()
	default:
		s.invalidateQuote()
	}
	return s.viewLocked(), nil
}

// SelectShippingOption overrides the auto-selected option. It never re-quotes.
func (s *Session) SelectShippingOption(id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginEdit(); err != nil {
		return View{}, err
	}

	switch s.draft.DeliveryType {
	case shipping.DeliveryUnset:
		return View{}, domain.ErrDeliveryTypeRequired
	case shipping.DeliveryPickup:
		if id != shipping.PickupOptionID {
			return View{}, domain.ErrShippingOptionUnavailable
		}
		s.draft.ShippingMethodID = shipping.PickupOptionID
		s.shippingCost = decimal.Zero
	case shipping.DeliveryShipping:
		opt, ok := shipping.FindOption(s.options, id)
		if !ok {
			return View{}, domain.ErrShippingOptionUnavailable
		}
		s.draft.ShippingMethodID = opt.SelectionID()
		s.shippingCost = opt.Cost
	}
	return s.viewLocked(), nil
}

// SelectPaymentProvider accepts only configured methods legal for the current
// delivery type.
func (s *Session) SelectPaymentProvider(ctx context.Context, provider payments.ProviderID) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginEdit(); err != nil {
		return View{}, err
	}
	if s.draft.DeliveryType == shipping.DeliveryUnset {
		return View{}, domain.ErrDeliveryTypeRequired
	}
	if !paymentsvc.IsSelectable(s.ensureMethods(ctx), s.draft.DeliveryType, provider) {
		return View{}, domain.ErrPaymentMethodUnavailable
	}
	s.draft.PaymentProvider = provider
	return s.viewLocked(), nil
}

// ReplaceCart stores a new live cart and re-quotes.
func (s *Session) ReplaceCart(ctx context.Context, c *cart.Cart) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginEdit(); err != nil {
		return View{}, err
	}
	if err := s.svc.carts.Set(ctx, s.id, c); err != nil {
		return View{}, err
	}
	s.cart = c
	s.cartRestored = false
	if s.draft.DeliveryType == shipping.DeliveryShipping {
		s.scheduleQuote()
	}
	return s.viewLocked(), nil
}

// Prefill copies the authenticated customer's profile into the draft. The
// boolean is false when the cookie belongs to nobody.
func (s *Session) Prefill(ctx context.Context, cookie string) (View, bool, error) {
	profile, err := s.svc.profiles.Profile(ctx, cookie)
	if errors.Is(err, domain.ErrUnauthenticated) {
		return s.View(), false, nil
	}
	if err != nil {
		return View{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginEdit(); err != nil {
		return View{}, false, err
	}
	before := s.draft.Shipping
	profile.PrefillDraft(&s.draft)
	if !before.SameDestination(s.draft.Shipping) && s.draft.DeliveryType == shipping.DeliveryShipping {
		s.scheduleQuote()
	}
	return s.viewLocked(), true, nil
}

func (s *Session) totalsLocked() payments.Totals {
	cost := s.shippingCost
	if s.draft.DeliveryType != shipping.DeliveryShipping {
		cost = decimal.Zero
	}
	return payments.NewTotals(s.cart.Subtotal(), cost)
}

// close stops background work when the session is dropped.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freezeQuote()
}

func (s *Session) idleSince() (time.Time, domain.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, s.state
}
