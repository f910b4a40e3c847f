package service

import (
	"context"
	"fmt"

	"parts-checkout/internal/features/shipping/domain"
	"parts-checkout/internal/features/shipping/ports"
)

// QuoteService turns a cart and destination into rated shipping options.
type QuoteService struct {
	weights *WeightResolver
	rates   ports.RateProvider
}

func NewQuoteService(weights *WeightResolver, rates ports.RateProvider) *QuoteService {
	return &QuoteService{weights: weights, rates: rates}
}

// Quote resolves all weights, then asks the rating service, and returns the options
// cheapest first. An empty cart or an unserved destination yields no options.
func (s *QuoteService) Quote(ctx context.Context, req domain.QuoteRequest) ([]domain.ShippingOption, error) {
	if req.Province == "" {
		return nil, domain.ErrNoDestination
	}
	if req.Cart.IsEmpty() {
		return []domain.ShippingOption{}, nil
	}

	lines := s.weights.ResolveAll(ctx, req.Cart.Lines)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options, err := s.rates.Rate(ctx, domain.RateRequest{
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Lines:      lines,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rate shipping: %w", err)
	}
	if options == nil {
		options = []domain.ShippingOption{}
	}

	domain.SortByCost(options)
	return options, nil
}
