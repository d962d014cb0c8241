package port

import (
	"context"
	"time"
)

// Cache is a key-value store with a per-entry TTL.
type Cache interface {
	// Get returns the stored value and true, or false on a miss or an expired entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
