package ports

import (
	"context"

	"parts-checkout/internal/features/shipping/domain"
)

// PartCatalog looks up stored part weights. Both methods return
// domain.ErrPartNotFound when nothing matches, and a non-positive weight when the
// part exists but has no weight recorded.
type PartCatalog interface {
	PartWeightByID(ctx context.Context, partID int64) (int, error)
	PartWeightByCode(ctx context.Context, code string) (int, error)
}

// RateProvider asks the external rating service for options. An empty result means
// the destination is not served and is not an error.
type RateProvider interface {
	Rate(ctx context.Context, req domain.RateRequest) ([]domain.ShippingOption, error)
}
