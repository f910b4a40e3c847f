package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parts-checkout/internal/core/cache"
	"parts-checkout/internal/features/payments/domain"
)

// RedisPendingOrderStore implements ports.PendingOrderStore. Entries expire after
// ttl so an abandoned gateway visit leaves nothing behind.
type RedisPendingOrderStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewRedisPendingOrderStore(c cache.Cache, ttl time.Duration) *RedisPendingOrderStore {
	return &RedisPendingOrderStore{cache: c, ttl: ttl}
}

func pendingKey(sessionID string) string { return "pending_order:" + sessionID }

func (s *RedisPendingOrderStore) Save(ctx context.Context, sessionID string, req domain.OrderRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal pending order: %w", err)
	}
	if err := s.cache.Set(ctx, pendingKey(sessionID), data, s.ttl); err != nil {
		return fmt.Errorf("failed to save pending order: %w", err)
	}
	return nil
}

func (s *RedisPendingOrderStore) Take(ctx context.Context, sessionID string) (*domain.OrderRequest, error) {
	data, err := s.cache.Take(ctx, pendingKey(sessionID))
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending order: %w", err)
	}

	var req domain.OrderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending order: %w", err)
	}
	return &req, nil
}
