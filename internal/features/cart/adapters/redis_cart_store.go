package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parts-checkout/internal/core/cache"
	"parts-checkout/internal/features/cart/domain"
)

// RedisCartStore implements ports.CartStore on top of the cache port.
// The live cart has no expiry; snapshots expire after snapshotTTL so an abandoned
// gateway round trip does not resurrect a cart in a later visit.
type RedisCartStore struct {
	cache       cache.Cache
	snapshotTTL time.Duration
}

func NewRedisCartStore(c cache.Cache, snapshotTTL time.Duration) *RedisCartStore {
	return &RedisCartStore{cache: c, snapshotTTL: snapshotTTL}
}

func cartKey(sessionID string) string     { return "cart:" + sessionID }
func snapshotKey(sessionID string) string { return "cart_backup:" + sessionID }

// Get returns the live cart or an empty one.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := s.cache.Get(ctx, cartKey(sessionID))
	if errors.Is(err, cache.ErrNotFound) {
		return &domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return decodeCart(data)
}

func (s *RedisCartStore) Set(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.cache.Set(ctx, cartKey(sessionID), data, 0); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Snapshot overwrites any previous snapshot for the session.
func (s *RedisCartStore) Snapshot(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, snapshotKey(sessionID), data, s.snapshotTTL); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Restore reads and deletes the snapshot atomically.
func (s *RedisCartStore) Restore(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := s.cache.Take(ctx, snapshotKey(sessionID))
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to restore cart snapshot: %w", err)
	}
	return decodeCart(data)
}

func (s *RedisCartStore) DiscardSnapshot(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, snapshotKey(sessionID)); err != nil {
		return fmt.Errorf("failed to discard cart snapshot: %w", err)
	}
	return nil
}

func decodeCart(data []byte) (*domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return &cart, nil
}
