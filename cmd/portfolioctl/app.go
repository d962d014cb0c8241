package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"portfolio_tracker/internal/app/bootstrap"
	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/infrastructure/configloader"
	networkdefinition "portfolio_tracker/internal/infrastructure/network/definition"
	"portfolio_tracker/internal/pkg/logger"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var configPath = flag.String("config", envOr("CONFIG_PATH", "config/config.yml"), "Path to the YAML configuration file")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// app holds the components shared by the subcommands.
type app struct {
	cfg      *configloader.Config
	log      port.Logger
	networks *networkdefinition.NetworkDefinitionProvider
}

func newApp() (*app, error) {
	cfg, err := configloader.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if _, err := logger.Init(cfg.Logging.Level, "console"); err != nil {
		return nil, err
	}
	log := logger.NewSlogAdapter()
	return &app{
		cfg:      cfg,
		log:      log,
		networks: networkdefinition.NewNetworkDefinitionProvider(log, cfg.Solana.RPCURL),
	}, nil
}

// priceOracle builds the configured oracle over a process-local cache.
func (a *app) priceOracle(ctx context.Context) (port.PriceOracle, error) {
	c, err := bootstrap.NewCache(ctx, configloader.CacheConfig{Backend: bootstrap.CacheBackendMemory, CleanupIntervalMinutes: 1}, a.log)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewPriceOracle(a.cfg.PriceOracle, c, a.networks.Supported(), a.log)
}

// formatUSD renders d as a dollar amount rounded to the cent.
func formatUSD(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
