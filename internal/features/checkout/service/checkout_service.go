package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parts-checkout/internal/core/logger"
	cartports "parts-checkout/internal/features/cart/ports"
	"parts-checkout/internal/features/checkout/domain"
	"parts-checkout/internal/features/checkout/ports"
	payments "parts-checkout/internal/features/payments/domain"
	paymentsvc "parts-checkout/internal/features/payments/service"
	shipping "parts-checkout/internal/features/shipping/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxSessionIDLength = 128

// Config tunes the orchestrator.
type Config struct {
	PublicURL     string
	QuoteDebounce time.Duration
	QuoteTimeout  time.Duration
	SessionTTL    time.Duration
}

// CheckoutService keeps one Session per storefront session id and the
// collaborators they share.
type CheckoutService struct {
	carts      cartports.CartStore
	catalog    ports.Catalog
	quoter     ports.Quoter
	dispatcher ports.Dispatcher
	profiles   ports.ProfileProvider
	cfg        Config
	log        *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewCheckoutService(
	carts cartports.CartStore,
	catalog ports.Catalog,
	quoter ports.Quoter,
	dispatcher ports.Dispatcher,
	profiles ports.ProfileProvider,
	cfg Config,
) *CheckoutService {
	return &CheckoutService{
		carts:      carts,
		catalog:    catalog,
		quoter:     quoter,
		dispatcher: dispatcher,
		profiles:   profiles,
		cfg:        cfg,
		log:        logger.Named("checkout"),
		sessions:   make(map[string]*Session),
	}
}

// Open is the checkout page load. An empty id starts a guest session with a
// fresh uuid. A confirmed session is replaced, since the storefront reuses its
// session id for the next purchase.
func (s *CheckoutService) Open(ctx context.Context, id string) (View, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > maxSessionIDLength {
		return View{}, domain.ErrInvalidSessionID
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		if _, state := sess.idleSince(); state.IsTerminal() {
			sess.close()
			ok = false
		}
	}
	if !ok {
		sess = newSession(id, s)
		s.sessions[id] = sess
		s.log.Debug("Checkout session opened", zap.String("session_id", id))
	}
	s.mu.Unlock()

	return sess.load(ctx)
}

// Session returns an open session.
func (s *CheckoutService) Session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return sess, nil
}

// PaymentMethods is the payment method gate over the cached catalog.
func (s *CheckoutService) PaymentMethods(ctx context.Context, delivery shipping.DeliveryType) ([]payments.PaymentMethodDescriptor, error) {
	methods, err := s.catalog.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	return paymentsvc.AvailableMethods(methods, delivery), nil
}

func (s *CheckoutService) Provinces(ctx context.Context) ([]domain.Province, error) {
	return s.catalog.Provinces(ctx)
}

// ExpireIdle drops sessions idle for longer than the session TTL. Sessions in
// the middle of a dispatch are kept.
func (s *CheckoutService) ExpireIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, sess := range s.sessions {
		last, state := sess.idleSince()
		if state == domain.StateDispatching || now.Sub(last) < s.cfg.SessionTTL {
			continue
		}
		sess.close()
		delete(s.sessions, id)
		expired++
	}
	if expired > 0 {
		s.log.Info("Expired idle checkout sessions", zap.Int("count", expired), zap.Int("open", len(s.sessions)))
	}
	return expired
}

// RunJanitor calls ExpireIdle every interval until ctx is done.
func (s *CheckoutService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.ExpireIdle(now)
		}
	}
}

// Close stops every session's background work.
func (s *CheckoutService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.close()
	}
}
