package adapters

import (
	"context"
	"fmt"
	"net/http"

	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/checkout/domain"
)

// StoreProfileProvider implements ports.ProfileProvider with GET /api/auth/me,
// forwarding the storefront session cookie untouched.
type StoreProfileProvider struct {
	api *storeapi.Client
}

func NewStoreProfileProvider(api *storeapi.Client) *StoreProfileProvider {
	return &StoreProfileProvider{api: api}
}

func (p *StoreProfileProvider) Profile(ctx context.Context, cookie string) (*domain.Profile, error) {
	if cookie == "" {
		return nil, domain.ErrUnauthenticated
	}

	var profile domain.Profile
	err := p.api.Do(ctx, http.MethodGet, "/api/auth/me", nil, &profile, storeapi.WithHeader("Cookie", cookie))
	if storeapi.IsStatus(err, http.StatusUnauthorized) || storeapi.IsStatus(err, http.StatusForbidden) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}
