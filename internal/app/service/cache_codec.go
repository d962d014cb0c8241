package service

import (
	"context"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/infrastructure/metrics"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cacheGetJSON decodes the entry at key into dest. Backend and decoding errors are logged and reported as a miss.
func cacheGetJSON(ctx context.Context, c port.Cache, log port.Logger, name, key string, dest any) bool {
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Warn("Cache read failed, treating as miss", "cache", name, "key", key, "error", err)
		ok = false
	}
	if ok {
		if err := json.Unmarshal(raw, dest); err != nil {
			log.Warn("Cached entry is corrupt, treating as miss", "cache", name, "key", key, "error", err)
			ok = false
		}
	}
	metrics.CollectCacheLookup(name, ok)
	return ok
}

// cacheSetJSON stores value at key and returns its encoding, or nil when value cannot be encoded.
func cacheSetJSON(ctx context.Context, c port.Cache, log port.Logger, name, key string, value any, ttl time.Duration) []byte {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn("Failed to encode cache entry", "cache", name, "key", key, "error", err)
		return nil
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		log.Warn("Cache write failed", "cache", name, "key", key, "error", err)
	}
	return raw
}
