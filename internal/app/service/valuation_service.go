package service

import (
	"context"
	"errors"
	"fmt"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ValuationServiceImpl implements port.ValuationService.
type ValuationServiceImpl struct {
	networks port.NetworkDefinitionProvider
	chain    port.ChainReader
	tokens   port.TokenMetadataSource
	prices   port.PriceOracle
	wallets  port.WalletStore
	logger   port.Logger
}

func NewValuationService(
	np port.NetworkDefinitionProvider,
	chain port.ChainReader,
	tokens port.TokenMetadataSource,
	prices port.PriceOracle,
	wallets port.WalletStore,
	l port.Logger,
) port.ValuationService {
	return &ValuationServiceImpl{
		networks: np,
		chain:    chain,
		tokens:   tokens,
		prices:   prices,
		wallets:  wallets,
		logger:   l.With("component", "valuation_service"),
	}
}

// GetWalletValuation loads the wallet, enforcing ownership, and values it.
func (s *ValuationServiceImpl) GetWalletValuation(ctx context.Context, walletID, userID uuid.UUID) (entity.ValuedBalance, error) {
	wallet, err := s.wallets.FindOne(ctx, walletID, userID)
	if err != nil {
		return entity.ValuedBalance{}, err
	}
	return s.ValueWallet(ctx, wallet)
}

// ValueWallet reads the wallet's balances from the chain and prices them with a single oracle call.
// Tokens with a zero balance or without metadata are left out.
func (s *ValuationServiceImpl) ValueWallet(ctx context.Context, wallet entity.Wallet) (entity.ValuedBalance, error) {
	netDef, ok := s.networks.GetNetworkDefinitionByName(wallet.Network)
	if !ok {
		return entity.ValuedBalance{}, fmt.Errorf("wallet %s on network %q: %w", wallet.ID, wallet.Network, entity.ErrUnsupportedNetwork)
	}
	if err := s.chain.ValidateAddress(wallet.Address); err != nil {
		if !errors.Is(err, entity.ErrInvalidAddress) {
			err = fmt.Errorf("%w: %v", entity.ErrInvalidAddress, err)
		}
		return entity.ValuedBalance{}, err
	}

	var (
		lamports uint64
		raw      []entity.RawHolding
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lamports, err = s.chain.GetNativeBalance(gctx, wallet.Address)
		return wrapExternal(err)
	})
	g.Go(func() error {
		var err error
		raw, err = s.chain.GetTokenHoldings(gctx, wallet.Address)
		return wrapExternal(err)
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to read balances", "wallet_id", wallet.ID, "address", wallet.Address, "error", err)
		return entity.ValuedBalance{}, err
	}

	holdings := s.resolveHoldings(ctx, netDef, raw)

	keys := make([]string, 0, len(holdings)+1)
	keys = append(keys, netDef.NativePriceKey)
	for _, h := range holdings {
		keys = append(keys, h.PriceKey)
	}
	prices := s.prices.GetPrices(ctx, keys)

	nativeAmount := utils.LamportsToDisplay(lamports, netDef.Decimals)
	native := entity.NativeBalance{
		Symbol:   netDef.NativeSymbol,
		Name:     netDef.NativeName,
		Amount:   nativeAmount,
		UsdValue: nativeAmount.Mul(priceOf(prices, netDef.NativePriceKey)),
		Decimals: netDef.Decimals,
		LogoURL:  netDef.NativeLogoURL,
	}

	total := native.UsdValue
	for i := range holdings {
		holdings[i].UsdValue = holdings[i].Amount.Mul(priceOf(prices, holdings[i].PriceKey))
		total = total.Add(holdings[i].UsdValue)
	}

	s.logger.Debug("Wallet valued", "wallet_id", wallet.ID, "tokens", len(holdings), "total_usd", total.String())
	return entity.ValuedBalance{
		Wallet:     wallet.Summary(),
		Native:     native,
		Tokens:     holdings,
		TotalValue: total,
	}, nil
}

func (s *ValuationServiceImpl) resolveHoldings(ctx context.Context, netDef entity.NetworkDefinition, raw []entity.RawHolding) []entity.TokenHolding {
	holdings := make([]entity.TokenHolding, 0, len(raw))
	for _, r := range raw {
		amount := utils.ToDisplayAmount(r.RawAmount, r.Decimals)
		if !amount.IsPositive() {
			continue
		}
		meta, ok := s.tokens.Resolve(ctx, r.TokenID)
		if !ok {
			s.logger.Debug("Skipping unlisted token", "mint", r.TokenID)
			continue
		}
		priceKey := meta.CoingeckoID
		if priceKey == "" {
			priceKey = netDef.FallbackPriceKey(r.TokenID)
		}
		holdings = append(holdings, entity.TokenHolding{
			Mint:      r.TokenID,
			RawAmount: r.RawAmount.String(),
			Decimals:  r.Decimals,
			Amount:    amount,
			Symbol:    meta.Symbol,
			Name:      meta.Name,
			LogoURL:   meta.LogoURI,
			PriceKey:  priceKey,
			UsdValue:  decimal.Zero,
		})
	}
	return holdings
}

func priceOf(prices map[string]float64, key string) decimal.Decimal {
	p, ok := prices[key]
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(p)
}

func wrapExternal(err error) error {
	if err == nil || errors.Is(err, entity.ErrExternalService) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", entity.ErrExternalService, err)
}
