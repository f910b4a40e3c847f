package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"parts-checkout/internal/core/logger"
	"parts-checkout/internal/core/proxy"
	"parts-checkout/internal/features/payments/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const redirectFormSelector = "#payment-redirect-form"

// RodFormSubmitter implements ports.FormSubmitter with headless Chromium. The
// browser egresses through the configured proxy; when the proxy needs
// credentials a local forwarder restricted to the form's action host is used.
type RodFormSubmitter struct {
	proxy   proxy.Settings
	timeout time.Duration
	logger  *zap.Logger
}

func NewRodFormSubmitter(settings proxy.Settings, timeout time.Duration) *RodFormSubmitter {
	return &RodFormSubmitter{
		proxy:   settings,
		timeout: timeout,
		logger:  logger.Named("form-submitter"),
	}
}

// Submit loads the form into a blank page, submits it and returns the URL the
// browser ends up on.
func (s *RodFormSubmitter) Submit(ctx context.Context, form domain.RedirectForm) (string, error) {
	if form.HTML == "" {
		return "", domain.ErrNoSubmittableForm
	}
	action, err := url.Parse(form.Action)
	if err != nil || action.Host == "" {
		return "", domain.ErrUnsafeFormAction
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	proxyAddr, stop, err := s.startProxy(ctx, action.Hostname())
	if err != nil {
		return "", err
	}
	defer stop()

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	if proxyAddr != "" {
		l = l.Proxy(proxyAddr)
	}
	defer l.Cleanup()

	u, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.SetDocumentContent(form.HTML); err != nil {
		return "", fmt.Errorf("failed to load form: %w", err)
	}

	el, err := page.Element(redirectFormSelector)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNoSubmittableForm, err)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if _, err := el.Eval(`() => this.submit()`); err != nil {
		return "", fmt.Errorf("failed to submit form: %w", err)
	}
	wait()

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("timeout waiting for gateway page: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read landing page: %w", err)
	}

	s.logger.Info("Gateway form submitted",
		zap.String("action", form.Action),
		zap.String("landing_url", info.URL),
		zap.Bool("proxy_enabled", proxyAddr != ""),
	)
	return info.URL, nil
}

func (s *RodFormSubmitter) startProxy(ctx context.Context, host string) (string, func(), error) {
	noop := func() {}
	if !s.proxy.HasProxy() {
		return "", noop, nil
	}
	if !s.proxy.NeedsAuth() {
		return s.proxy.Addr(), noop, nil
	}

	fwd, err := proxy.NewForwardingProxy(s.proxy, host)
	if err != nil {
		return "", noop, fmt.Errorf("failed to create proxy forwarder: %w", err)
	}
	addr, err := fwd.Start(ctx)
	if err != nil {
		return "", noop, fmt.Errorf("failed to start proxy forwarder: %w", err)
	}
	return addr, func() {
		if err := fwd.Stop(); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("Failed to stop proxy forwarder", zap.Error(err))
		}
	}, nil
}
