package ports

import (
	"context"

	"parts-checkout/internal/features/cart/domain"
)

// CartStore owns the live cart of a storefront session and its recovery snapshot.
type CartStore interface {
	// Get returns the live cart; an unknown session yields an empty cart.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart *domain.Cart) error
	Clear(ctx context.Context, sessionID string) error

	// Snapshot stores a single-use backup taken before an order-first redirect.
	Snapshot(ctx context.Context, sessionID string, cart *domain.Cart) error
	// Restore consumes the snapshot. It returns nil, nil when none exists.
	Restore(ctx context.Context, sessionID string) (*domain.Cart, error)
	DiscardSnapshot(ctx context.Context, sessionID string) error
}
