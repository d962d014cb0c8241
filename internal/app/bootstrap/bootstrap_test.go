package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/infrastructure/configloader"
	"portfolio_tracker/internal/infrastructure/httpclient"
	networkdefinition "portfolio_tracker/internal/infrastructure/network/definition"
	"portfolio_tracker/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestUnitNewPriceOracleModes(t *testing.T) {
	log := logger.NewDiscard()
	c, err := NewCache(context.Background(), configloader.CacheConfig{Backend: CacheBackendMemory, CleanupIntervalMinutes: 1}, log)
	require.NoError(t, err)

	fixed, err := NewPriceOracle(configloader.PriceOracleConfig{Mode: OracleModeFixed, DefaultNativePrice: 50, FixedTokenPrice: 1},
		c, networkdefinition.Solana, log)
	require.NoError(t, err)
	require.IsType(t, &httpclient.FixedPriceOracle{}, fixed)
	require.Equal(t, map[string]float64{"solana": 50, "usd-coin": 1},
		fixed.GetPrices(context.Background(), []string{"solana", "usd-coin"}))

	live, err := NewPriceOracle(configloader.PriceOracleConfig{Mode: OracleModeCoinGecko, BaseURL: "http://127.0.0.1:1"},
		c, networkdefinition.Solana, log)
	require.NoError(t, err)
	require.IsType(t, &service.PriceService{}, live)

	_, err = NewPriceOracle(configloader.PriceOracleConfig{Mode: "oracle-of-delphi"}, c, networkdefinition.Solana, log)
	require.Error(t, err)
}

func TestUnitNewCacheUnknownBackend(t *testing.T) {
	_, err := NewCache(context.Background(), configloader.CacheConfig{Backend: "memcached"}, logger.NewDiscard())
	require.Error(t, err)
}

func TestUnitNewTokenMetadataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"tokens":[{"address":"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v","symbol":"USDC","name":"USD Coin","decimals":6}]}`), 0o600))

	tokens := NewTokenMetadata(configloader.TokenListConfig{File: path, RefreshIntervalMinutes: 60, FailureBackoffSeconds: 30}, logger.NewDiscard())
	require.NoError(t, tokens.Warm(context.Background()))
	require.Equal(t, 1, tokens.Len())

	meta, ok := tokens.Resolve(context.Background(), "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	require.True(t, ok)
	require.Equal(t, "USDC", meta.Symbol)
}
