package service

import (
	"context"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/infrastructure/metrics"
	"portfolio_tracker/internal/pkg/utils"
)

const (
	priceCacheName      = "prices"
	priceKeyPrefix      = "prices:"
	stalePriceKeyPrefix = "prices:stale:"

	DefaultPriceTTL         = 10 * time.Minute
	DefaultPriceFallbackTTL = 60 * time.Second
	DefaultStalePriceTTL    = 24 * time.Hour
)

// PriceServiceConfig tunes the caching of PriceService.
type PriceServiceConfig struct {
	NativeKey          string
	DefaultNativePrice float64
	TTL                time.Duration
	FallbackTTL        time.Duration
	StaleTTL           time.Duration
}

// PriceService is a port.PriceOracle caching the answers of a port.PriceAPI.
// When the API fails it answers from the last successful result for the same key set,
// and without one from the default mapping holding only the native price.
type PriceService struct {
	api    port.PriceAPI
	cache  port.Cache
	cfg    PriceServiceConfig
	logger port.Logger
}

func NewPriceService(api port.PriceAPI, cache port.Cache, cfg PriceServiceConfig, log port.Logger) *PriceService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultPriceTTL
	}
	if cfg.FallbackTTL <= 0 {
		cfg.FallbackTTL = DefaultPriceFallbackTTL
	}
	if cfg.StaleTTL <= 0 {
		cfg.StaleTTL = DefaultStalePriceTTL
	}
	return &PriceService{
		api:    api,
		cache:  cache,
		cfg:    cfg,
		logger: log.With("component", "price_service"),
	}
}

// PriceCacheKey returns the cache key of a key set; order and duplicates do not matter.
func PriceCacheKey(keys []string) string {
	return priceKeyPrefix + strings.Join(utils.SortedUniqueStrings(keys), ",")
}

func (s *PriceService) GetPrices(ctx context.Context, keys []string) map[string]float64 {
	ids := utils.SortedUniqueStrings(keys)
	if len(ids) == 0 {
		return map[string]float64{}
	}
	joined := strings.Join(ids, ",")
	cacheKey := priceKeyPrefix + joined
	staleKey := stalePriceKeyPrefix + joined

	var prices map[string]float64
	if cacheGetJSON(ctx, s.cache, s.logger, priceCacheName, cacheKey, &prices) {
		return prices
	}

	fetched, err := s.api.FetchUSDPrices(ctx, ids)
	if err == nil {
		if fetched == nil {
			fetched = map[string]float64{}
		}
		cacheSetJSON(ctx, s.cache, s.logger, priceCacheName, cacheKey, fetched, s.cfg.TTL)
		cacheSetJSON(ctx, s.cache, s.logger, priceCacheName, staleKey, fetched, s.cfg.StaleTTL)
		return fetched
	}

	s.logger.Warn("Price API request failed", "keys", len(ids), "error", err)

	var stale map[string]float64
	if cacheGetJSON(ctx, s.cache, s.logger, priceCacheName, staleKey, &stale) {
		metrics.CollectPriceFallback("stale")
		return stale
	}

	metrics.CollectPriceFallback("default")
	defaults := map[string]float64{s.cfg.NativeKey: s.cfg.DefaultNativePrice}
	cacheSetJSON(ctx, s.cache, s.logger, priceCacheName, cacheKey, defaults, s.cfg.FallbackTTL)
	return defaults
}

var _ port.PriceOracle = (*PriceService)(nil)
