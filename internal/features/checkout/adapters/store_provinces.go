package adapters

import (
	"context"
	"fmt"
	"net/http"

	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/checkout/domain"
)

// StoreProvinceSource implements ports.ProvinceSource with GET /api/provinces.
type StoreProvinceSource struct {
	api *storeapi.Client
}

func NewStoreProvinceSource(api *storeapi.Client) *StoreProvinceSource {
	return &StoreProvinceSource{api: api}
}

func (s *StoreProvinceSource) Provinces(ctx context.Context) ([]domain.Province, error) {
	var provinces []domain.Province
	if err := s.api.Do(ctx, http.MethodGet, "/api/provinces", nil, &provinces); err != nil {
		return nil, fmt.Errorf("failed to fetch provinces: %w", err)
	}
	return provinces, nil
}
