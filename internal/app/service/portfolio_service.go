package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	portfolioCacheName    = "portfolio"
	portfolioKeyPrefix    = "portfolio:"
	DefaultPortfolioTTL   = 30 * time.Second
	defaultMaxConcurrency = 8
)

// PortfolioServiceImpl implements port.PortfolioService.
type PortfolioServiceImpl struct {
	wallets               port.WalletStore
	valuation             port.ValuationService
	cache                 port.Cache
	ttl                   time.Duration
	maxConcurrentRoutines int
	logger                port.Logger
}

func NewPortfolioService(
	wallets port.WalletStore,
	valuation port.ValuationService,
	cache port.Cache,
	ttl time.Duration,
	maxRoutines int,
	l port.Logger,
) port.PortfolioService {
	if ttl <= 0 {
		ttl = DefaultPortfolioTTL
	}
	if maxRoutines <= 0 {
		maxRoutines = defaultMaxConcurrency
	}
	return &PortfolioServiceImpl{
		wallets:               wallets,
		valuation:             valuation,
		cache:                 cache,
		ttl:                   ttl,
		maxConcurrentRoutines: maxRoutines,
		logger:                l.With("component", "portfolio_service"),
	}
}

func portfolioCacheKey(userID uuid.UUID) string {
	return portfolioKeyPrefix + userID.String()
}

// Aggregate values every wallet of userID and merges the results by token symbol.
// Any wallet failure fails the whole call. Users without wallets get an empty portfolio that is not cached.
func (s *PortfolioServiceImpl) Aggregate(ctx context.Context, userID uuid.UUID) (entity.AggregatedPortfolio, error) {
	key := portfolioCacheKey(userID)

	var cached entity.AggregatedPortfolio
	if cacheGetJSON(ctx, s.cache, s.logger, portfolioCacheName, key, &cached) {
		return withTokens(cached), nil
	}

	wallets, err := s.wallets.FindAll(ctx, userID)
	if err != nil {
		return entity.AggregatedPortfolio{}, fmt.Errorf("failed to list wallets: %w", err)
	}
	if len(wallets) == 0 {
		return entity.EmptyPortfolio(), nil
	}

	balances := make([]entity.ValuedBalance, len(wallets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentRoutines)
	for i, w := range wallets {
		i, w := i, w
		g.Go(func() error {
			b, err := s.valuation.ValueWallet(gctx, w)
			if err != nil {
				return fmt.Errorf("wallet %s (%s): %w", w.ID, w.Address, err)
			}
			balances[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Portfolio aggregation failed", "user_id", userID, "wallets", len(wallets), "error", err)
		return entity.AggregatedPortfolio{}, err
	}

	portfolio := MergeBalances(balances)
	// Misses return the decoded cache entry, same as hits.
	if raw := cacheSetJSON(ctx, s.cache, s.logger, portfolioCacheName, key, portfolio, s.ttl); raw != nil {
		var decoded entity.AggregatedPortfolio
		if err := json.Unmarshal(raw, &decoded); err == nil {
			portfolio = withTokens(decoded)
		}
	}

	s.logger.Info("Portfolio aggregated", "user_id", userID, "wallets", portfolio.WalletCount,
		"tokens", len(portfolio.Tokens), "total_usd", portfolio.TotalValue.String())
	return portfolio, nil
}

func withTokens(p entity.AggregatedPortfolio) entity.AggregatedPortfolio {
	if p.Tokens == nil {
		p.Tokens = []entity.TokenSummary{}
	}
	return p
}

func (s *PortfolioServiceImpl) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, portfolioCacheKey(userID)); err != nil {
		s.logger.Warn("Failed to invalidate cached portfolio", "user_id", userID, "error", err)
	}
}

// MergeBalances combines wallet valuations by symbol. Native entries are merged before tokens,
// the first name and logo seen for a symbol win, and the result is sorted by USD value descending
// with ties kept in merge order.
func MergeBalances(balances []entity.ValuedBalance) entity.AggregatedPortfolio {
	tokens := make([]entity.TokenSummary, 0)
	index := make(map[string]int)
	total := decimal.Zero

	add := func(symbol, name, logo string, amount, usd decimal.Decimal) {
		if i, ok := index[symbol]; ok {
			tokens[i].TotalAmount = tokens[i].TotalAmount.Add(amount)
			tokens[i].TotalUsdValue = tokens[i].TotalUsdValue.Add(usd)
			return
		}
		index[symbol] = len(tokens)
		tokens = append(tokens, entity.TokenSummary{
			Symbol:        symbol,
			Name:          name,
			TotalAmount:   amount,
			TotalUsdValue: usd,
			LogoURL:       logo,
		})
	}

	for _, b := range balances {
		total = total.Add(b.TotalValue)
		add(b.Native.Symbol, b.Native.Name, b.Native.LogoURL, b.Native.Amount, b.Native.UsdValue)
	}
	for _, b := range balances {
		for _, t := range b.Tokens {
			add(t.Symbol, t.Name, t.LogoURL, t.Amount, t.UsdValue)
		}
	}

	slices.SortStableFunc(tokens, func(a, b entity.TokenSummary) int {
		return b.TotalUsdValue.Cmp(a.TotalUsdValue)
	})

	return entity.AggregatedPortfolio{
		TotalValue:  total,
		WalletCount: len(balances),
		Tokens:      tokens,
	}
}
