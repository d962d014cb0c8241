package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_tracker/internal/app/bootstrap"
	"portfolio_tracker/internal/app/provider"
	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/infrastructure/configloader"
	networkdefinition "portfolio_tracker/internal/infrastructure/network/definition"
	"portfolio_tracker/internal/infrastructure/restapi"
	"portfolio_tracker/internal/infrastructure/walletloader"
	"portfolio_tracker/internal/infrastructure/walletstore"
	"portfolio_tracker/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultConfigPath = "config/config.yml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := configloader.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()

	decimal.MarshalJSONWithoutQuotes = true
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewSlogAdapter()
	logger.Info("Portfolio tracker starting", "config", configPath)

	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Solana.RPCURL)
	netDef := netDefProvider.Supported()

	db, err := walletstore.Open(cfg.Database, appLogger)
	if err != nil {
		logger.Fatal("Failed to open wallet store", "error", err)
	}
	defer func() {
		if err := walletstore.Close(db); err != nil {
			logger.Error("Failed to close wallet store", "error", err)
		}
	}()
	wallets := provider.NewWalletProvider(walletstore.NewGormWalletStore(db), appLogger)

	cacheBackend, err := bootstrap.NewCache(ctx, cfg.Cache, appLogger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "error", err)
	}

	chain := bootstrap.NewChainReader(cfg.Solana, netDef, appLogger)
	tokens := bootstrap.NewTokenMetadata(cfg.TokenList, appLogger)
	oracle, err := bootstrap.NewPriceOracle(cfg.PriceOracle, cacheBackend, netDef, appLogger)
	if err != nil {
		logger.Fatal("Failed to initialize price oracle", "error", err)
	}

	if cfg.Seed.WalletsFile != "" {
		seeder := walletloader.NewWalletSeeder(cfg.Seed.WalletsFile, netDef.Identifier, wallets, chain, appLogger)
		if _, err := seeder.Seed(ctx); err != nil {
			logger.Error("Wallet seeding failed", "file", cfg.Seed.WalletsFile, "error", err)
		}
	}

	go func() {
		if err := tokens.Warm(ctx); err != nil {
			logger.Warn("Initial token list load failed, will retry on demand", "error", err)
		}
	}()

	valuationService := service.NewValuationService(netDefProvider, chain, tokens, oracle, wallets, appLogger)
	portfolioService := service.NewPortfolioService(
		wallets,
		valuationService,
		cacheBackend,
		time.Duration(cfg.Portfolio.CacheTTLSeconds)*time.Second,
		cfg.Portfolio.MaxConcurrentValuations,
		appLogger,
	)

	router := restapi.SetupRouter(
		cfg.Swagger,
		restapi.NewPortfolioHandler(valuationService, portfolioService, appLogger),
		restapi.NewWalletHandler(wallets, netDefProvider, chain, portfolioService),
		netDefProvider,
		tokens,
		appLogger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	cancel()
	logger.Info("Portfolio tracker stopped")
}
