package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cart "parts-checkout/internal/features/cart/domain"
	"parts-checkout/internal/features/checkout/domain"
	payments "parts-checkout/internal/features/payments/domain"
	shipping "parts-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memCarts is an in-memory CartStore.
type memCarts struct {
	mu    sync.Mutex
	live  map[string]*cart.Cart
	snaps map[string]*cart.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{live: map[string]*cart.Cart{}, snaps: map[string]*cart.Cart{}}
}

func (m *memCarts) Get(_ context.Context, sid string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.live[sid]; ok {
		return c.Clone(), nil
	}
	return &cart.Cart{}, nil
}

func (m *memCarts) Set(_ context.Context, sid string, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[sid] = c.Clone()
	return nil
}

func (m *memCarts) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, sid)
	return nil
}

func (m *memCarts) Snapshot(_ context.Context, sid string, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[sid] = c.Clone()
	return nil
}

func (m *memCarts) Restore(_ context.Context, sid string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.snaps[sid]
	if !ok {
		return nil, nil
	}
	delete(m.snaps, sid)
	return c, nil
}

func (m *memCarts) DiscardSnapshot(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, sid)
	return nil
}

func (m *memCarts) hasSnapshot(sid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.snaps[sid]
	return ok
}

type fakeCatalog struct {
	methods []payments.PaymentMethodDescriptor
}

func (f *fakeCatalog) PaymentMethods(context.Context) ([]payments.PaymentMethodDescriptor, error) {
	return f.methods, nil
}

func (f *fakeCatalog) Provinces(context.Context) ([]domain.Province, error) {
	return []domain.Province{{ID: 30, Name: "Murcia"}, {ID: 28, Name: "Madrid"}}, nil
}

type fakeQuoter struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req shipping.QuoteRequest) ([]shipping.ShippingOption, error)
}

func (f *fakeQuoter) Quote(ctx context.Context, req shipping.QuoteRequest) ([]shipping.ShippingOption, error) {
	f.calls.Add(1)
	return f.fn(ctx, req)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Submit(ctx context.Context, sub payments.Submission) payments.Outcome {
	return m.Called(ctx, sub).Get(0).(payments.Outcome)
}

func (m *mockDispatcher) Finalize(ctx context.Context, sessionID string, provider payments.ProviderID, transactionID string) payments.Outcome {
	return m.Called(ctx, sessionID, provider, transactionID).Get(0).(payments.Outcome)
}

type fakeProfiles struct {
	profile *domain.Profile
	err     error
}

func (f *fakeProfiles) Profile(context.Context, string) (*domain.Profile, error) {
	return f.profile, f.err
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{methods: []payments.PaymentMethodDescriptor{
		payments.NewPaymentMethodDescriptor(1, payments.ProviderCash, "Pago en tienda", true),
		payments.NewPaymentMethodDescriptor(2, payments.ProviderStripe, "Tarjeta", true),
		payments.NewPaymentMethodDescriptor(3, payments.ProviderRedsys, "Redsys", true),
		payments.NewPaymentMethodDescriptor(4, payments.ProviderBankTransfer, "Transferencia", true),
		payments.NewPaymentMethodDescriptor(5, payments.ProviderPayPal, "PayPal", false),
	}}
}

func rated(id int64, cost string) shipping.ShippingOption {
	return shipping.ShippingOption{ID: id, Name: "Envío", Cost: decimal.RequireFromString(cost)}
}

func staticQuoter(options ...shipping.ShippingOption) *fakeQuoter {
	return &fakeQuoter{fn: func(context.Context, shipping.QuoteRequest) ([]shipping.ShippingOption, error) {
		return options, nil
	}}
}

type harness struct {
	carts      *memCarts
	quoter     *fakeQuoter
	dispatcher *mockDispatcher
	profiles   *fakeProfiles
	svc        *CheckoutService
}

func newHarness(t *testing.T, quoter *fakeQuoter, debounce time.Duration) *harness {
	t.Helper()
	h := &harness{
		carts:      newMemCarts(),
		quoter:     quoter,
		dispatcher: &mockDispatcher{},
		profiles:   &fakeProfiles{err: domain.ErrUnauthenticated},
	}
	h.svc = NewCheckoutService(h.carts, testCatalog(), quoter, h.dispatcher, h.profiles, Config{
		PublicURL:     "https://shop.test",
		QuoteDebounce: debounce,
		QuoteTimeout:  time.Second,
		SessionTTL:    time.Hour,
	})
	t.Cleanup(h.svc.Close)
	return h
}

func twoLineCart() *cart.Cart {
	w := 1200
	return &cart.Cart{Lines: []cart.CartLine{
		{PartID: 1, PartName: "Faro delantero", Quantity: 1, UnitPrice: decimal.RequireFromString("80"), UnitWeightGrams: &w},
		{PartID: 2, PartName: "Retrovisor", Quantity: 2, UnitPrice: decimal.RequireFromString("10")},
	}}
}

func str(s string) *string { return &s }

func filledPatch(province string) domain.DraftPatch {
	return domain.DraftPatch{
		CustomerName:       str("Ana"),
		CustomerLastName:   str("García"),
		CustomerEmail:      str("ana@example.com"),
		CustomerPhone:      str("600123456"),
		CustomerNifCif:     str("12345678Z"),
		ShippingAddress:    str("Calle Mayor 1"),
		ShippingCity:       str("Murcia"),
		ShippingProvince:   str(province),
		ShippingPostalCode: str("30001"),
	}
}

// openReady opens a session with a cart and a complete customer section.
func (h *harness) openReady(t *testing.T, sid string) *Session {
	t.Helper()
	require.NoError(t, h.carts.Set(context.Background(), sid, twoLineCart()))
	_, err := h.svc.Open(context.Background(), sid)
	require.NoError(t, err)
	sess, err := h.svc.Session(sid)
	require.NoError(t, err)
	_, err = sess.UpdateDraft(filledPatch("Murcia"))
	require.NoError(t, err)
	return sess
}

func providers(methods []payments.PaymentMethodDescriptor) []payments.ProviderID {
	out := make([]payments.ProviderID, 0, len(methods))
	for _, m := range methods {
		out = append(out, m.Provider)
	}
	return out
}

func TestOpen_RestoresSnapshotOnce(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	require.NoError(t, h.carts.Snapshot(context.Background(), "s1", twoLineCart()))

	view, err := h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, view.CartRestored)
	assert.Len(t, view.Cart.Lines, 2)
	assert.Equal(t, "100", view.Totals.Subtotal.String())

	require.NoError(t, h.carts.Clear(context.Background(), "s1"))

	view, err = h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, view.CartRestored)
	assert.True(t, view.Cart.IsEmpty(), "the snapshot is single use")
}

func TestOpen_LiveCartWinsOverSnapshot(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	ctx := context.Background()
	live := &cart.Cart{Lines: []cart.CartLine{{PartID: 9, Quantity: 1, UnitPrice: decimal.NewFromInt(5)}}}
	require.NoError(t, h.carts.Set(ctx, "s1", live))
	require.NoError(t, h.carts.Snapshot(ctx, "s1", twoLineCart()))

	view, err := h.svc.Open(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, view.Cart.Lines, 1)
	assert.True(t, h.carts.hasSnapshot("s1"))
}

func TestOpen_GeneratesGuestID(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)

	view, err := h.svc.Open(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, view.SessionID, 36)
	assert.Equal(t, domain.StateEditing, view.State)

	_, err = h.svc.Session("unknown")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSetDeliveryType_ResetsSelections(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(12, "6.90")), time.Hour)
	sess := h.openReady(t, "s1")

	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	_, err = sess.QuoteNow(context.Background())
	require.NoError(t, err)
	view, err := sess.SelectPaymentProvider(context.Background(), payments.ProviderStripe)
	require.NoError(t, err)
	require.Equal(t, "12", view.Draft.ShippingMethodID)
	require.Equal(t, "6.9", view.Totals.ShippingCost.String())

	view, err = sess.SetDeliveryType("pickup")
	require.NoError(t, err)
	assert.Empty(t, view.Draft.PaymentProvider)
	assert.Equal(t, shipping.PickupOptionID, view.Draft.ShippingMethodID)
	assert.True(t, view.Totals.ShippingCost.IsZero())

	view, err = sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	assert.Empty(t, view.Draft.PaymentProvider)
	assert.Empty(t, view.Draft.ShippingMethodID)
	assert.True(t, view.Totals.ShippingCost.IsZero())

	_, err = sess.SetDeliveryType("drone")
	assert.ErrorIs(t, err, shipping.ErrInvalidDeliveryType)
}

func TestPaymentMethodGate_ByDeliveryType(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	sess := h.openReady(t, "s1")

	assert.Empty(t, sess.View().PaymentMethods, "nothing before a delivery type")
	_, err := sess.SelectPaymentProvider(context.Background(), payments.ProviderCash)
	assert.ErrorIs(t, err, domain.ErrDeliveryTypeRequired)

	view, err := sess.SetDeliveryType("pickup")
	require.NoError(t, err)
	assert.Contains(t, providers(view.PaymentMethods), payments.ProviderCash)
	assert.True(t, view.Totals.ShippingCost.IsZero())

	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderCash)
	require.NoError(t, err)

	view, err = sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	assert.NotContains(t, providers(view.PaymentMethods), payments.ProviderCash)
	assert.Contains(t, providers(view.PaymentMethods), payments.ProviderPayPal, "unconfigured methods stay visible")

	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderCash)
	assert.ErrorIs(t, err, domain.ErrPaymentMethodUnavailable)
	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderPayPal)
	assert.ErrorIs(t, err, domain.ErrPaymentMethodUnavailable)
}

func TestQuote_AutoSelectsCheapestAndAllowsOverride(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(15, "4.50"), rated(12, "6.90")), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)

	view, err := sess.QuoteNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "15", view.Draft.ShippingMethodID)
	assert.Equal(t, "104.5", view.Totals.Total.String())

	calls := h.quoter.calls.Load()
	view, err = sess.SelectShippingOption("12")
	require.NoError(t, err)
	assert.Equal(t, "106.9", view.Totals.Total.String())
	assert.Equal(t, calls, h.quoter.calls.Load(), "overriding the option does not re-quote")

	_, err = sess.SelectShippingOption("99")
	assert.ErrorIs(t, err, domain.ErrShippingOptionUnavailable)
}

func TestQuote_StaleResponseIsDiscarded(t *testing.T) {
	murcia := []shipping.ShippingOption{rated(1, "9.00")}
	madrid := []shipping.ShippingOption{rated(2, "5.00")}
	entered := make(chan struct{})
	release := make(chan struct{})

	q := &fakeQuoter{fn: func(_ context.Context, req shipping.QuoteRequest) ([]shipping.ShippingOption, error) {
		if req.Province == "Murcia" {
			close(entered)
			<-release
			return murcia, nil
		}
		return madrid, nil
	}}
	h := newHarness(t, q, time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = sess.QuoteNow(context.Background())
	}()
	<-entered

	_, err = sess.UpdateDraft(domain.DraftPatch{ShippingProvince: str("Madrid")})
	require.NoError(t, err)
	view, err := sess.QuoteNow(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2", view.Draft.ShippingMethodID)

	close(release)
	<-done

	view = sess.View()
	assert.Equal(t, madrid, view.ShippingOptions)
	assert.Equal(t, "2", view.Draft.ShippingMethodID)
	assert.Equal(t, "5", view.Totals.ShippingCost.String())
}

func TestQuote_DebouncesBursts(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(12, "6.90")), 20*time.Millisecond)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)

	for _, p := range []string{"Madrid", "Málaga", "Murcia", "Almería"} {
		view, err := sess.UpdateDraft(domain.DraftPatch{ShippingProvince: str(p)})
		require.NoError(t, err)
		assert.True(t, view.Quoting)
	}

	assert.Eventually(t, func() bool {
		return sess.View().Draft.ShippingMethodID == "12"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), h.quoter.calls.Load())
	assert.False(t, sess.View().Quoting)
}

func TestQuote_CartChangeInvalidates(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(12, "6.90")), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	_, err = sess.QuoteNow(context.Background())
	require.NoError(t, err)

	view, err := sess.ReplaceCart(context.Background(), &cart.Cart{Lines: []cart.CartLine{{PartID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}})
	require.NoError(t, err)
	assert.Empty(t, view.ShippingOptions)
	assert.Empty(t, view.Draft.ShippingMethodID)
	assert.True(t, view.Quoting)
}

func TestQuote_PostalCodeChangeRequotes(t *testing.T) {
	var postal atomic.Value
	q := &fakeQuoter{fn: func(_ context.Context, req shipping.QuoteRequest) ([]shipping.ShippingOption, error) {
		postal.Store(req.PostalCode)
		if req.PostalCode == "30201" {
			return []shipping.ShippingOption{rated(20, "12.00")}, nil
		}
		return []shipping.ShippingOption{rated(12, "6.90")}, nil
	}}
	h := newHarness(t, q, 10*time.Millisecond)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return sess.View().Draft.ShippingMethodID == "12"
	}, time.Second, 5*time.Millisecond)

	view, err := sess.UpdateDraft(domain.DraftPatch{ShippingPostalCode: str("30201")})
	require.NoError(t, err)
	assert.True(t, view.Quoting)
	assert.Empty(t, view.ShippingOptions, "old options are dropped until the new quote lands")

	assert.Eventually(t, func() bool {
		return sess.View().Draft.ShippingMethodID == "20"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "30201", postal.Load())
	assert.Equal(t, "12", sess.View().Totals.ShippingCost.String())
}

func TestQuoteNow_EmptyCartSkipsRating(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(12, "6.90")), time.Hour)
	_, err := h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	sess, err := h.svc.Session("s1")
	require.NoError(t, err)
	_, err = sess.UpdateDraft(filledPatch("Murcia"))
	require.NoError(t, err)
	_, err = sess.SetDeliveryType("shipping")
	require.NoError(t, err)

	view, err := sess.QuoteNow(context.Background())
	require.NoError(t, err)
	assert.False(t, view.Quoting)
	assert.Empty(t, view.ShippingOptions)
	assert.Equal(t, int32(0), h.quoter.calls.Load())
}

func TestQuote_ErrorIsReportedInView(t *testing.T) {
	q := &fakeQuoter{fn: func(context.Context, shipping.QuoteRequest) ([]shipping.ShippingOption, error) {
		return nil, errors.New("rating down")
	}}
	h := newHarness(t, q, time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)

	view, err := sess.QuoteNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MsgQuoteFailed, view.QuoteError)
	assert.False(t, view.Quoting)
}

func TestSubmit_InvalidFormNeverDispatches(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	require.NoError(t, h.carts.Set(context.Background(), "s1", twoLineCart()))
	_, err := h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	sess, _ := h.svc.Session("s1")

	before := sess.View()
	assert.Empty(t, before.FieldErrors, "quiet until the first submit")

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, payments.FailureValidation, res.Failure.Kind)
	assert.Equal(t, domain.StateEditing, res.View.State)
	assert.True(t, res.View.ShowValidation)
	assert.Equal(t, "El nombre es obligatorio", res.View.FieldErrors[domain.FieldCustomerName])
	h.dispatcher.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmit_EmptyCart(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	_, err := h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	sess, _ := h.svc.Session("s1")

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MsgEmptyCart, res.Failure.Message)
}

func TestSubmit_PickupCashConfirms(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("pickup")
	require.NoError(t, err)
	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderCash)
	require.NoError(t, err)

	order := payments.OrderRef{ID: 7, OrderNumber: "DM-0007"}
	h.dispatcher.On("Submit", mock.Anything, mock.MatchedBy(func(sub payments.Submission) bool {
		return sub.Provider == payments.ProviderCash &&
			sub.Order.ShippingMethodID == shipping.PickupOptionID &&
			sub.Order.ShippingCost == "0.00" &&
			sub.Order.Total == "100.00" &&
			len(sub.Order.Items) == 2
	})).Return(payments.Confirmed{Provider: payments.ProviderCash, Order: order})

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, "https://shop.test/order-confirmation/7?payment=cash&sessionId=s1", res.ConfirmationURL)
	assert.Equal(t, domain.StateConfirmed, res.View.State)

	live, _ := h.carts.Get(context.Background(), "s1")
	assert.True(t, live.IsEmpty())

	_, err = sess.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrCheckoutClosed)
}

func TestSubmit_BillingCopiedFromShipping(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.UpdateDraft(domain.DraftPatch{BillingAddress: str("x"), BillingCity: str("")})
	require.NoError(t, err)
	_, err = sess.SetDeliveryType("pickup")
	require.NoError(t, err)
	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderBankTransfer)
	require.NoError(t, err)

	var got payments.Submission
	h.dispatcher.On("Submit", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(payments.Submission)
	}).Return(payments.Confirmed{Provider: payments.ProviderBankTransfer, Order: payments.OrderRef{ID: 1}})

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, "Calle Mayor 1", got.Order.BillingAddress)
	assert.Equal(t, "Murcia", got.Order.BillingCity)
	assert.Equal(t, "30001", got.Order.BillingPostalCode)
	assert.Equal(t, domain.DefaultCountry, got.Order.ShippingCountry)
}

func TestSubmit_OrderFirstRedirectSnapshotsAndClears(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(12, "6.90")), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	_, err = sess.QuoteNow(context.Background())
	require.NoError(t, err)
	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderRedsys)
	require.NoError(t, err)

	order := payments.OrderRef{ID: 42, OrderNumber: "DM-0042"}
	form := &payments.RedirectForm{Action: "https://sis.redsys.es/realizarPago", Method: "POST"}
	h.dispatcher.On("Submit", mock.Anything, mock.MatchedBy(func(sub payments.Submission) bool {
		return sub.Order.ShippingMethodID == "12" && sub.Order.Total == "106.90"
	})).Return(payments.Redirect{Provider: payments.ProviderRedsys, Form: form, Order: &order})

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.Equal(t, form, res.RedirectForm)
	assert.Equal(t, domain.StateRedirectingExternal, res.View.State)
	assert.True(t, h.carts.hasSnapshot("s1"))

	live, _ := h.carts.Get(context.Background(), "s1")
	assert.True(t, live.IsEmpty())

	// Customer cancels at the gateway and comes back.
	view, err := h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateEditing, view.State)
	assert.True(t, view.CartRestored)
	assert.Len(t, view.Cart.Lines, 2)
}

func TestSubmit_RedirectFirstKeepsCart(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(12, "6.90")), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	_, err = sess.QuoteNow(context.Background())
	require.NoError(t, err)
	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderStripe)
	require.NoError(t, err)

	h.dispatcher.On("Submit", mock.Anything, mock.Anything).
		Return(payments.Redirect{Provider: payments.ProviderStripe, URL: "https://checkout.stripe.test/x"})

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/x", res.RedirectURL)
	assert.False(t, h.carts.hasSnapshot("s1"))

	live, _ := h.carts.Get(context.Background(), "s1")
	assert.Len(t, live.Lines, 2)
}

func TestSubmit_FailureKeepsDraftAndDropsSnapshot(t *testing.T) {
	h := newHarness(t, staticQuoter(rated(12, "6.90")), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("shipping")
	require.NoError(t, err)
	_, err = sess.QuoteNow(context.Background())
	require.NoError(t, err)
	before, err := sess.SelectPaymentProvider(context.Background(), payments.ProviderRedsys)
	require.NoError(t, err)

	order := payments.OrderRef{ID: 42, OrderNumber: "DM-0042"}
	h.dispatcher.On("Submit", mock.Anything, mock.Anything).Return(payments.Failed{
		Kind:    payments.FailureMalformedRedirect,
		Message: payments.MsgPaymentConfig,
		Order:   &order,
	})

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, payments.FailureMalformedRedirect, res.Failure.Kind)
	assert.Equal(t, &order, res.Failure.Order)
	assert.Equal(t, domain.StateFailed, res.View.State)
	assert.Equal(t, before.Draft, res.View.Draft, "no field is cleared")
	assert.False(t, h.carts.hasSnapshot("s1"))

	live, _ := h.carts.Get(context.Background(), "s1")
	assert.Len(t, live.Lines, 2)

	view, err := sess.UpdateDraft(domain.DraftPatch{Notes: str("Llamar antes")})
	require.NoError(t, err)
	assert.Equal(t, domain.StateEditing, view.State)
}

func TestSubmit_RejectsResubmissionWhileDispatching(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	sess := h.openReady(t, "s1")
	_, err := sess.SetDeliveryType("pickup")
	require.NoError(t, err)
	_, err = sess.SelectPaymentProvider(context.Background(), payments.ProviderCash)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	h.dispatcher.On("Submit", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(payments.Confirmed{Provider: payments.ProviderCash, Order: payments.OrderRef{ID: 1}}).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = sess.Submit(context.Background())
	}()
	<-entered

	assert.Equal(t, domain.StateDispatching, sess.View().State)
	_, err = sess.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)
	_, err = sess.UpdateDraft(domain.DraftPatch{Notes: str("x")})
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)

	close(release)
	<-done
	h.dispatcher.AssertNumberOfCalls(t, "Submit", 1)
}

func TestFinalize(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	sess := h.openReady(t, "s1")

	order := payments.OrderRef{ID: 99, OrderNumber: "DM-0099"}
	h.dispatcher.On("Finalize", mock.Anything, "s1", payments.ProviderStripe, "pi_123").
		Return(payments.Confirmed{Provider: payments.ProviderStripe, Order: order})

	res, err := sess.Finalize(context.Background(), payments.ProviderStripe, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, "https://shop.test/order-confirmation/99?payment=stripe&sessionId=s1", res.ConfirmationURL)

	live, _ := h.carts.Get(context.Background(), "s1")
	assert.True(t, live.IsEmpty())

	view, err := h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateEditing, view.State, "a confirmed session is replaced on the next visit")
}

func TestPrefill(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	sess := h.openReady(t, "s1")

	_, ok, err := sess.Prefill(context.Background(), "sid=anon")
	require.NoError(t, err)
	assert.False(t, ok)

	h.profiles.err = nil
	h.profiles.profile = &domain.Profile{FirstName: "Luis", Email: "luis@example.com", Address: "Av. Libertad 3", Province: "Madrid"}

	view, ok, err := sess.Prefill(context.Background(), "sid=luis")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Luis", view.Draft.Customer.Name)
	assert.Equal(t, "Madrid", view.Draft.Shipping.Province)
	assert.True(t, view.Draft.UseSameAddress)
}

func TestExpireIdle(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)
	_, err := h.svc.Open(context.Background(), "s1")
	require.NoError(t, err)

	assert.Zero(t, h.svc.ExpireIdle(time.Now()))
	assert.Equal(t, 1, h.svc.ExpireIdle(time.Now().Add(2*time.Hour)))

	_, err = h.svc.Session("s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestPaymentMethods_Gate(t *testing.T) {
	h := newHarness(t, staticQuoter(), time.Hour)

	none, err := h.svc.PaymentMethods(context.Background(), shipping.DeliveryUnset)
	require.NoError(t, err)
	assert.Empty(t, none)

	ship, err := h.svc.PaymentMethods(context.Background(), shipping.DeliveryShipping)
	require.NoError(t, err)
	assert.NotContains(t, providers(ship), payments.ProviderCash)

	pickup, err := h.svc.PaymentMethods(context.Background(), shipping.DeliveryPickup)
	require.NoError(t, err)
	assert.Len(t, pickup, 5)
}
