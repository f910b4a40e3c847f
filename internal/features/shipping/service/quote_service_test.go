package service

import (
	"context"
	"errors"
	"testing"

	cart "parts-checkout/internal/features/cart/domain"
	"parts-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRateProvider struct {
	mock.Mock
}

func (m *mockRateProvider) Rate(ctx context.Context, req domain.RateRequest) ([]domain.ShippingOption, error) {
	args := m.Called(ctx, req)
	if opts := args.Get(0); opts != nil {
		return opts.([]domain.ShippingOption), args.Error(1)
	}
	return nil, args.Error(1)
}

func oneLineCart() *cart.Cart {
	return &cart.Cart{Lines: []cart.CartLine{
		{PartID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(30), UnitWeightGrams: grams(1200)},
		{PartID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	}}
}

func TestQuote_ResolvesWeightsThenRatesSorted(t *testing.T) {
	catalog := new(mockPartCatalog)
	catalog.On("PartWeightByID", mock.Anything, int64(2)).Return(800, nil)

	rates := new(mockRateProvider)
	rates.On("Rate", mock.Anything, mock.MatchedBy(func(req domain.RateRequest) bool {
		return req.Province == "Murcia" && req.PostalCode == "30001" &&
			len(req.Lines) == 2 && req.Lines[0].Grams == 1200 && req.Lines[1].Grams == 800
	})).Return([]domain.ShippingOption{
		{ID: 1, Cost: decimal.NewFromInt(9)},
		{ID: 2, Cost: decimal.RequireFromString("5.5")},
	}, nil)

	svc := NewQuoteService(NewWeightResolver(catalog, 2), rates)

	options, err := svc.Quote(context.Background(), domain.QuoteRequest{
		Province: "Murcia", PostalCode: "30001", Cart: oneLineCart(),
	})

	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, int64(2), options[0].ID)
	rates.AssertExpectations(t)
}

func TestQuote_NoProvince(t *testing.T) {
	svc := NewQuoteService(NewWeightResolver(new(mockPartCatalog), 1), new(mockRateProvider))

	_, err := svc.Quote(context.Background(), domain.QuoteRequest{Cart: oneLineCart()})
	assert.ErrorIs(t, err, domain.ErrNoDestination)
}

func TestQuote_EmptyCartSkipsRating(t *testing.T) {
	rates := new(mockRateProvider)
	svc := NewQuoteService(NewWeightResolver(new(mockPartCatalog), 1), rates)

	options, err := svc.Quote(context.Background(), domain.QuoteRequest{Province: "Murcia", Cart: &cart.Cart{}})

	require.NoError(t, err)
	assert.Empty(t, options)
	assert.NotNil(t, options)
	rates.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything)
}

func TestQuote_UnservedDestinationIsEmpty(t *testing.T) {
	catalog := new(mockPartCatalog)
	catalog.On("PartWeightByID", mock.Anything, int64(2)).Return(800, nil)
	rates := new(mockRateProvider)
	rates.On("Rate", mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewQuoteService(NewWeightResolver(catalog, 1), rates)
	options, err := svc.Quote(context.Background(), domain.QuoteRequest{Province: "Ceuta", Cart: oneLineCart()})

	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestQuote_RatingError(t *testing.T) {
	catalog := new(mockPartCatalog)
	catalog.On("PartWeightByID", mock.Anything, int64(2)).Return(800, nil)
	rates := new(mockRateProvider)
	rates.On("Rate", mock.Anything, mock.Anything).Return(nil, errors.New("503"))

	svc := NewQuoteService(NewWeightResolver(catalog, 1), rates)
	_, err := svc.Quote(context.Background(), domain.QuoteRequest{Province: "Murcia", Cart: oneLineCart()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to rate shipping")
}

func TestQuote_CancelledBeforeRating(t *testing.T) {
	catalog := new(mockPartCatalog)
	catalog.On("PartWeightByID", mock.Anything, int64(2)).Return(0, context.Canceled)
	rates := new(mockRateProvider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewQuoteService(NewWeightResolver(catalog, 1), rates)
	_, err := svc.Quote(ctx, domain.QuoteRequest{Province: "Murcia", Cart: oneLineCart()})

	assert.ErrorIs(t, err, context.Canceled)
	rates.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything)
}
