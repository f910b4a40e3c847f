package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"parts-checkout/internal/core/logger"
	"parts-checkout/internal/features/payments/domain"
	"parts-checkout/internal/features/payments/ports"

	"go.uber.org/zap"
)

// DispatcherConfig holds storefront values the gateway protocols need.
type DispatcherConfig struct {
	PublicURL string
	Currency  string
	ShopName  string
}

// Dispatcher runs the provider-specific submission protocol. Each protocol keeps
// its own ordering of side effects.
type Dispatcher struct {
	orders    ports.OrderService
	gateway   ports.PaymentGateway
	pending   ports.PendingOrderStore
	sanitizer *FormSanitizer
	cfg       DispatcherConfig
	log       *zap.Logger
}

func NewDispatcher(orders ports.OrderService, gateway ports.PaymentGateway, pending ports.PendingOrderStore, sanitizer *FormSanitizer, cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		orders:    orders,
		gateway:   gateway,
		pending:   pending,
		sanitizer: sanitizer,
		cfg:       cfg,
		log:       logger.Named("dispatcher"),
	}
}

// Submit dispatches sub and always returns a Redirect, Confirmed or Failed outcome.
func (d *Dispatcher) Submit(ctx context.Context, sub domain.Submission) domain.Outcome {
	proto, err := domain.ProtocolFor(sub.Provider)
	if err != nil {
		return domain.Failed{Kind: domain.FailureUnsupportedProvider, Message: domain.MsgMethodNotSelected, Err: err}
	}

	log := d.log.With(zap.String("session_id", sub.SessionID), zap.String("provider", string(sub.Provider)))

	var out domain.Outcome
	switch p := proto.(type) {
	case domain.RedirectFirst:
		out = d.redirectFirst(ctx, p, sub)
	case domain.OrderFirst:
		out = d.orderFirst(ctx, p, sub)
	case domain.Synchronous:
		out = d.synchronous(ctx, p, sub)
	default:
		panic(fmt.Sprintf("unhandled payment protocol %T", proto))
	}

	if f, ok := out.(domain.Failed); ok {
		log.Warn("Payment dispatch failed", zap.String("kind", string(f.Kind)), zap.Error(f.Err))
	} else {
		log.Info("Payment dispatched", zap.String("outcome", fmt.Sprintf("%T", out)))
	}
	return out
}

// redirectFirst asks the gateway for a hosted payment page and parks the order
// payload until the customer comes back. No order is created here.
func (d *Dispatcher) redirectFirst(ctx context.Context, p domain.RedirectFirst, sub domain.Submission) domain.Outcome {
	intent := domain.PaymentIntent{
		Amount:        sub.Totals.Total,
		Currency:      d.cfg.Currency,
		Description:   "Pedido - " + d.cfg.ShopName,
		CustomerEmail: sub.Order.CustomerEmail,
		CustomerName:  sub.Order.CustomerFullName(),
		Metadata:      map[string]string{"sessionId": sub.SessionID},
	}

	redirectURL, err := d.gateway.CreatePaymentIntent(ctx, p.ID, intent)
	if err != nil {
		return gatewayFailure(err, domain.PaymentFailedMessage(p.ID), nil)
	}

	target, err := withSessionID(redirectURL, sub.SessionID)
	if err != nil {
		return domain.Failed{Kind: domain.FailureGeneric, Message: domain.PaymentFailedMessage(p.ID), Err: err}
	}

	if err := d.pending.Save(ctx, sub.SessionID, sub.Order); err != nil {
		return domain.Failed{Kind: domain.FailureGeneric, Message: domain.PaymentFailedMessage(p.ID), Err: err}
	}

	return domain.Redirect{Provider: p.ID, URL: target}
}

// orderFirst creates the order, then requests the gateway form keyed to it.
func (d *Dispatcher) orderFirst(ctx context.Context, p domain.OrderFirst, sub domain.Submission) domain.Outcome {
	order, err := d.orders.CreateOrder(ctx, sub.Order)
	if err != nil {
		return gatewayFailure(err, domain.MsgOrderCreateFailed, nil)
	}

	req := domain.PaymentFormRequest{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Amount:        sub.Totals.Total,
		Currency:      d.cfg.Currency,
		Description:   fmt.Sprintf("Pedido #%s - %s", order.OrderNumber, d.cfg.ShopName),
		CustomerEmail: sub.Order.CustomerEmail,
		CustomerName:  sub.Order.CustomerFullName(),
		ReturnURL:     domain.ConfirmationURL(d.cfg.PublicURL, order.ID, p.ID, sub.SessionID),
		CancelURL:     domain.CancelURL(d.cfg.PublicURL),
		Metadata:      map[string]string{"orderId": fmt.Sprint(order.ID)},
	}

	raw, err := d.gateway.CreatePaymentForm(ctx, p.ID, req)
	if err != nil {
		return gatewayFailure(err, domain.PaymentFailedMessage(p.ID), &order)
	}

	form, err := d.sanitizer.Sanitize(raw.FormHTML, raw.ActionURL)
	if err != nil {
		return domain.Failed{Kind: domain.FailureMalformedRedirect, Message: domain.MsgPaymentConfig, Order: &order, Err: err}
	}

	return domain.Redirect{Provider: p.ID, Form: form, Order: &order}
}

// synchronous creates the order and is done.
func (d *Dispatcher) synchronous(ctx context.Context, p domain.Synchronous, sub domain.Submission) domain.Outcome {
	order, err := d.orders.CreateOrder(ctx, sub.Order)
	if err != nil {
		return gatewayFailure(err, domain.MsgOrderCreateFailed, nil)
	}
	return domain.Confirmed{Provider: p.ID, Order: order}
}

// gatewayFailure maps an adapter error onto the failure taxonomy. fallback is the
// message for failures without a structured payload.
func gatewayFailure(err error, fallback string, order *domain.OrderRef) domain.Failed {
	var ge *domain.GatewayError
	if !errors.As(err, &ge) {
		return domain.Failed{Kind: domain.FailureTransport, Message: domain.MsgTransport, Order: order, Err: err}
	}

	switch ge.Kind {
	case domain.FailureServerValidation:
		field, msg := domain.FriendlyValidationMessage(ge.Detail)
		return domain.Failed{Kind: ge.Kind, Field: field, Message: msg, Order: order, Err: err}
	case domain.FailureTransport:
		return domain.Failed{Kind: ge.Kind, Message: domain.MsgTransport, Order: order, Err: err}
	}

	msg := fallback
	if ge.Detail != "" && fallback == domain.MsgOrderCreateFailed {
		msg = ge.Detail
	}
	return domain.Failed{Kind: domain.FailureGeneric, Message: msg, Order: order, Err: err}
}

func withSessionID(raw, sessionID string) (string, error) {
	if raw == "" {
		return "", domain.ErrMissingRedirect
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid gateway redirect URL: %w", err)
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Finalize is the return leg of a redirect-first payment: the parked order is
// consumed and created as paid. On failure it is parked again so the customer
// can retry from the success page.
func (d *Dispatcher) Finalize(ctx context.Context, sessionID string, provider domain.ProviderID, transactionID string) domain.Outcome {
	proto, err := domain.ProtocolFor(provider)
	if err != nil {
		return domain.Failed{Kind: domain.FailureUnsupportedProvider, Message: domain.MsgMethodNotSelected, Err: err}
	}
	if _, ok := proto.(domain.RedirectFirst); !ok {
		return domain.Failed{Kind: domain.FailureGeneric, Message: domain.PaymentFailedMessage(provider), Err: domain.ErrProviderMismatch}
	}

	log := d.log.With(zap.String("session_id", sessionID), zap.String("provider", string(provider)))

	pending, err := d.pending.Take(ctx, sessionID)
	if err != nil {
		return domain.Failed{Kind: domain.FailureTransport, Message: domain.MsgTransport, Err: err}
	}
	if pending == nil {
		return domain.Failed{Kind: domain.FailureGeneric, Message: domain.MsgOrderCreateFailed, Err: domain.ErrNoPendingOrder}
	}
	if pending.PaymentMethodID != provider {
		d.restorePending(ctx, log, sessionID, *pending)
		return domain.Failed{Kind: domain.FailureGeneric, Message: domain.PaymentFailedMessage(provider), Err: domain.ErrProviderMismatch}
	}

	paid := *pending
	paid.PaymentTransactionID = transactionID
	paid.PaymentStatus = domain.PaymentStatusCompleted

	order, err := d.orders.CreateOrder(ctx, paid)
	if err != nil {
		d.restorePending(ctx, log, sessionID, *pending)
		out := gatewayFailure(err, domain.MsgOrderCreateFailed, nil)
		log.Warn("Paid order creation failed", zap.String("kind", string(out.Kind)), zap.Error(err))
		return out
	}

	log.Info("Paid order created", zap.Int64("order_id", order.ID), zap.String("transaction_id", transactionID))
	return domain.Confirmed{Provider: provider, Order: order}
}

func (d *Dispatcher) restorePending(ctx context.Context, log *zap.Logger, sessionID string, req domain.OrderRequest) {
	if err := d.pending.Save(ctx, sessionID, req); err != nil {
		log.Error("Failed to re-park pending order", zap.Error(err))
	}
}
