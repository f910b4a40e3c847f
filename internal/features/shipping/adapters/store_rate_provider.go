package adapters

import (
	"context"
	"fmt"
	"net/http"

	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
)

// StoreRateProvider implements ports.RateProvider with POST /api/shipping/calculate.
type StoreRateProvider struct {
	api *storeapi.Client
}

func NewStoreRateProvider(api *storeapi.Client) *StoreRateProvider {
	return &StoreRateProvider{api: api}
}

type rateItem struct {
	PartID   int64           `json:"partId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Peso     int             `json:"peso"`
}

type rateRequest struct {
	Province   string     `json:"province"`
	PostalCode string     `json:"postalCode"`
	CartItems  []rateItem `json:"cartItems"`
}

type rateResponse struct {
	ShippingOptions []domain.ShippingOption `json:"shippingOptions"`
}

// Rate returns the upstream options. A 400 answer means the province is unknown or
// has no method for this weight, which is reported as no options.
func (p *StoreRateProvider) Rate(ctx context.Context, req domain.RateRequest) ([]domain.ShippingOption, error) {
	body := rateRequest{
		Province:   req.Province,
		PostalCode: req.PostalCode,
		CartItems:  make([]rateItem, 0, len(req.Lines)),
	}
	for _, wl := range req.Lines {
		body.CartItems = append(body.CartItems, rateItem{
			PartID:   wl.Line.PartID,
			Quantity: wl.Line.Quantity,
			Price:    wl.Line.UnitPrice,
			Peso:     wl.Grams,
		})
	}

	var res rateResponse
	err := p.api.Do(ctx, http.MethodPost, "/api/shipping/calculate", body, &res)
	if storeapi.IsStatus(err, http.StatusBadRequest) {
		return []domain.ShippingOption{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("shipping rate request failed: %w", err)
	}
	return res.ShippingOptions, nil
}
