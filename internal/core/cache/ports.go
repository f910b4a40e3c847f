package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and Take when the key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is the key/value port behind cart storage, recovery snapshots, pending
// gateway orders and the catalog cache.
type Cache interface {
	// Get retrieves a value by key. Missing keys return ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Take atomically reads and removes a value, so at most one caller observes it.
	Take(ctx context.Context, key string) ([]byte, error)

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	Close() error
}
