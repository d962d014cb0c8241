// Package bootstrap builds the service components from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/app/provider"
	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/cache"
	"portfolio_tracker/internal/infrastructure/configloader"
	"portfolio_tracker/internal/infrastructure/httpclient"
	networkclient "portfolio_tracker/internal/infrastructure/network/client"
	"portfolio_tracker/internal/infrastructure/tokenloader"
)

const (
	OracleModeCoinGecko = "coingecko"
	OracleModeFixed     = "fixed"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// NewCache connects the configured cache backend.
func NewCache(ctx context.Context, cfg configloader.CacheConfig, log port.Logger) (port.Cache, error) {
	switch cfg.Backend {
	case CacheBackendRedis:
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		log.Info("Using redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return c, nil
	case CacheBackendMemory:
		log.Info("Using in-memory cache")
		return cache.NewMemoryCache(time.Duration(cfg.CleanupIntervalMinutes) * time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// NewChainReader creates the Solana RPC client for netDef.
func NewChainReader(cfg configloader.SolanaConfig, netDef entity.NetworkDefinition, log port.Logger) *networkclient.SolanaClient {
	return networkclient.NewSolanaClient(netDef, millis(cfg.RPCTimeoutMillis), log)
}

// NewTokenMetadata creates the token metadata cache. A configured file is used as the primary
// source when no URL is set and as a fallback otherwise.
func NewTokenMetadata(cfg configloader.TokenListConfig, log port.Logger) *service.TokenMetadataCache {
	timeout := millis(cfg.RequestTimeoutMillis)
	var sources []provider.TokenListSource
	if cfg.URL != "" {
		sources = append(sources, tokenloader.NewTokenListLoader(cfg.URL, "", timeout, log))
	}
	if cfg.File != "" {
		sources = append(sources, tokenloader.NewTokenListLoader("", cfg.File, timeout, log))
	}
	tokens := provider.NewTokenProvider(log, sources...)

	return service.NewTokenMetadataCache(
		tokens.GetTokens,
		time.Duration(cfg.RefreshIntervalMinutes)*time.Minute,
		time.Duration(cfg.FailureBackoffSeconds)*time.Second,
		nil,
		log,
	)
}

// NewPriceOracle returns the oracle selected by cfg.Mode.
func NewPriceOracle(cfg configloader.PriceOracleConfig, c port.Cache, netDef entity.NetworkDefinition, log port.Logger) (port.PriceOracle, error) {
	switch cfg.Mode {
	case OracleModeFixed:
		log.Warn("Using fixed prices", "native_price", cfg.DefaultNativePrice, "token_price", cfg.FixedTokenPrice)
		return httpclient.NewFixedPriceOracle(netDef.NativePriceKey, cfg.DefaultNativePrice, cfg.FixedTokenPrice), nil
	case OracleModeCoinGecko:
		api := httpclient.NewCoinGeckoClient(cfg.BaseURL, cfg.APIKey, millis(cfg.RequestTimeoutMillis),
			cfg.RateLimitPerMinute, cfg.RateLimitBurst, log)
		return service.NewPriceService(api, c, service.PriceServiceConfig{
			NativeKey:          netDef.NativePriceKey,
			DefaultNativePrice: cfg.DefaultNativePrice,
			TTL:                time.Duration(cfg.CacheTTLSeconds) * time.Second,
			FallbackTTL:        time.Duration(cfg.FallbackTTLSeconds) * time.Second,
			StaleTTL:           time.Duration(cfg.StaleRetentionMinutes) * time.Minute,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown price oracle mode %q", cfg.Mode)
	}
}
