package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"parts-checkout/internal/core/cache"
	"parts-checkout/internal/core/logger"
	"parts-checkout/internal/features/checkout/domain"
	"parts-checkout/internal/features/checkout/ports"
	payments "parts-checkout/internal/features/payments/domain"
	paymentports "parts-checkout/internal/features/payments/ports"

	"go.uber.org/zap"
)

const (
	methodsCacheKey   = "catalog:payment_methods"
	provincesCacheKey = "catalog:provinces"
)

// CachedCatalog implements ports.Catalog. Both lists change rarely, so they are
// kept in Redis for ttl. A broken cache only costs an upstream call.
type CachedCatalog struct {
	methods   paymentports.MethodCatalog
	provinces ports.ProvinceSource
	cache     cache.Cache
	ttl       time.Duration
	logger    *zap.Logger
}

func NewCachedCatalog(methods paymentports.MethodCatalog, provinces ports.ProvinceSource, c cache.Cache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		methods:   methods,
		provinces: provinces,
		cache:     c,
		ttl:       ttl,
		logger:    logger.Named("catalog"),
	}
}

func (c *CachedCatalog) PaymentMethods(ctx context.Context) ([]payments.PaymentMethodDescriptor, error) {
	return cached(ctx, c, methodsCacheKey, c.methods.PaymentMethods)
}

func (c *CachedCatalog) Provinces(ctx context.Context) ([]domain.Province, error) {
	return cached(ctx, c, provincesCacheKey, c.provinces.Provinces)
}

// Invalidate drops both cached lists.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	return errors.Join(
		c.cache.Delete(ctx, methodsCacheKey),
		c.cache.Delete(ctx, provincesCacheKey),
	)
}

func cached[T any](ctx context.Context, c *CachedCatalog, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	data, err := c.cache.Get(ctx, key)
	if err == nil {
		var out []T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		c.logger.Warn("Discarding unreadable catalog entry", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrNotFound) {
		c.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}
