package service

import (
	"context"
	"testing"

	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const mintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func newPortfolioFixture(accounts map[string]chainAccount, wallets ...entity.Wallet) (*PortfolioServiceImpl, *fakeChain, *fakeStore, *fakeCache) {
	chain := &fakeChain{accounts: accounts}
	store := &fakeStore{wallets: wallets}
	cache := newFakeCache()
	tokens := fakeTokens{
		mintUSDC: {Address: mintUSDC, Symbol: "USDC", Name: "USD Coin", Decimals: 6, CoingeckoID: "usd-coin"},
		mintTok:  {Address: mintTok, Symbol: "TOK", Name: "Token", Decimals: 6, CoingeckoID: "tok"},
	}
	oracle := &fakeOracle{prices: map[string]float64{"solana": 100, "usd-coin": 1, "tok": 2}}
	valuation := NewValuationService(testNetworks, chain, tokens, oracle, store, testLogger)
	svc := NewPortfolioService(store, valuation, cache, 0, 2, testLogger).(*PortfolioServiceImpl)
	return svc, chain, store, cache
}

func findSummary(t *testing.T, p entity.AggregatedPortfolio, symbol string) entity.TokenSummary {
	t.Helper()
	for _, s := range p.Tokens {
		if s.Symbol == symbol {
			return s
		}
	}
	t.Fatalf("symbol %s not in portfolio", symbol)
	return entity.TokenSummary{}
}

func TestUnitAggregateMergesBySymbol(t *testing.T) {
	user := uuid.New()
	svc, _, _, _ := newPortfolioFixture(map[string]chainAccount{
		"w1": {lamports: 1_000_000_000, holdings: []entity.RawHolding{raw(mintUSDC, "100000000", 6)}},
		"w2": {lamports: 500_000_000, holdings: []entity.RawHolding{raw(mintUSDC, "50000000", 6)}},
	}, solanaWallet(user, "w1"), solanaWallet(user, "w2"))

	p, err := svc.Aggregate(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, 2, p.WalletCount)

	usdc := findSummary(t, p, "USDC")
	requireDecimal(t, "150", usdc.TotalAmount)
	requireDecimal(t, "150", usdc.TotalUsdValue)

	sol := findSummary(t, p, "SOL")
	requireDecimal(t, "1.5", sol.TotalAmount)
	requireDecimal(t, "150", sol.TotalUsdValue)

	requireDecimal(t, "300", p.TotalValue)
}

func TestUnitAggregateCommutative(t *testing.T) {
	user := uuid.New()
	accounts := map[string]chainAccount{
		"w1": {lamports: 1_000_000_000, holdings: []entity.RawHolding{raw(mintUSDC, "7000000", 6)}},
		"w2": {lamports: 2_000_000_000, holdings: []entity.RawHolding{raw(mintTok, "3000000", 6)}},
		"w3": {holdings: []entity.RawHolding{raw(mintUSDC, "1000000", 6), raw(mintTok, "1000000", 6)}},
	}
	a, b, c := solanaWallet(user, "w1"), solanaWallet(user, "w2"), solanaWallet(user, "w3")

	svc1, _, _, _ := newPortfolioFixture(accounts, a, b, c)
	svc2, _, _, _ := newPortfolioFixture(accounts, c, a, b)

	p1, err := svc1.Aggregate(context.Background(), user)
	require.NoError(t, err)
	p2, err := svc2.Aggregate(context.Background(), user)
	require.NoError(t, err)

	require.True(t, p1.TotalValue.Equal(p2.TotalValue))
	require.Len(t, p2.Tokens, len(p1.Tokens))
	for _, s := range p1.Tokens {
		other := findSummary(t, p2, s.Symbol)
		require.True(t, s.TotalAmount.Equal(other.TotalAmount), s.Symbol)
		require.True(t, s.TotalUsdValue.Equal(other.TotalUsdValue), s.Symbol)
	}
	requireDecimal(t, "316", p1.TotalValue)
}

func TestUnitAggregateCachedWithinTTL(t *testing.T) {
	user := uuid.New()
	svc, chain, store, cache := newPortfolioFixture(map[string]chainAccount{
		"w1": {lamports: 1_000_000_000},
	}, solanaWallet(user, "w1"))
	ctx := context.Background()

	first, err := svc.Aggregate(ctx, user)
	require.NoError(t, err)
	second, err := svc.Aggregate(ctx, user)
	require.NoError(t, err)

	require.EqualValues(t, 1, chain.calls.Load())
	require.Equal(t, 1, store.findAllCalls)
	require.Equal(t, first, second)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	require.JSONEq(t, string(firstJSON), string(secondJSON))

	e, ok := cache.entry("portfolio:" + user.String())
	require.True(t, ok)
	require.Equal(t, DefaultPortfolioTTL, e.ttl)

	svc.Invalidate(ctx, user)
	_, err = svc.Aggregate(ctx, user)
	require.NoError(t, err)
	require.EqualValues(t, 2, chain.calls.Load())
}

func TestUnitAggregateEmptyNotCached(t *testing.T) {
	user := uuid.New()
	svc, _, store, cache := newPortfolioFixture(nil)
	ctx := context.Background()

	p, err := svc.Aggregate(ctx, user)
	require.NoError(t, err)
	require.Equal(t, 0, p.WalletCount)
	require.NotNil(t, p.Tokens)
	require.Empty(t, p.Tokens)
	requireDecimal(t, "0", p.TotalValue)

	_, ok := cache.entry("portfolio:" + user.String())
	require.False(t, ok)

	_, err = svc.Aggregate(ctx, user)
	require.NoError(t, err)
	require.Equal(t, 2, store.findAllCalls)
}

func TestUnitAggregateFailsOnWalletError(t *testing.T) {
	user := uuid.New()
	svc, _, _, cache := newPortfolioFixture(map[string]chainAccount{
		"w1": {lamports: 1_000_000_000},
	}, solanaWallet(user, "w1"), solanaWallet(user, "bad-wallet"))

	_, err := svc.Aggregate(context.Background(), user)
	require.ErrorIs(t, err, entity.ErrInvalidAddress)

	_, ok := cache.entry("portfolio:" + user.String())
	require.False(t, ok)
}

func TestUnitAggregateCacheErrorIsMiss(t *testing.T) {
	user := uuid.New()
	svc, chain, _, cache := newPortfolioFixture(map[string]chainAccount{
		"w1": {lamports: 1_000_000_000},
	}, solanaWallet(user, "w1"))
	cache.failGet = true

	_, err := svc.Aggregate(context.Background(), user)
	require.NoError(t, err)
	_, err = svc.Aggregate(context.Background(), user)
	require.NoError(t, err)
	require.EqualValues(t, 2, chain.calls.Load())
}

func TestUnitMergeBalancesStableOrder(t *testing.T) {
	balances := []entity.ValuedBalance{{
		Native: entity.NativeBalance{Symbol: "SOL", Name: "Solana", Amount: dec("0"), UsdValue: dec("0")},
		Tokens: []entity.TokenHolding{
			{Symbol: "A", Name: "first", Amount: dec("1"), UsdValue: dec("5")},
			{Symbol: "B", Amount: dec("1"), UsdValue: dec("20")},
			{Symbol: "C", Amount: dec("1"), UsdValue: dec("5")},
		},
		TotalValue: dec("30"),
	}, {
		Native:     entity.NativeBalance{Symbol: "SOL", Name: "Solana", Amount: dec("0"), UsdValue: dec("0")},
		Tokens:     []entity.TokenHolding{{Symbol: "A", Name: "second", LogoURL: "x", Amount: dec("0"), UsdValue: dec("0")}},
		TotalValue: dec("0"),
	}}

	p := MergeBalances(balances)
	symbols := make([]string, 0, len(p.Tokens))
	for _, s := range p.Tokens {
		symbols = append(symbols, s.Symbol)
	}
	require.Equal(t, []string{"B", "A", "C", "SOL"}, symbols)
	require.Equal(t, "first", p.Tokens[1].Name)
	require.Empty(t, p.Tokens[1].LogoURL)
	require.Equal(t, 2, p.WalletCount)
	requireDecimal(t, "30", p.TotalValue)
}

func TestUnitMergeBalancesNativeFirst(t *testing.T) {
	balances := []entity.ValuedBalance{{
		Native:     entity.NativeBalance{Symbol: "SOL", Name: "Solana", Amount: dec("1"), UsdValue: dec("10")},
		Tokens:     []entity.TokenHolding{{Symbol: "X", Amount: dec("1"), UsdValue: dec("10")}},
		TotalValue: dec("20"),
	}, {
		Native:     entity.NativeBalance{Symbol: "SOL", Name: "Solana", Amount: dec("1"), UsdValue: dec("0")},
		TotalValue: dec("0"),
	}}

	p := MergeBalances(balances)
	require.Equal(t, "SOL", p.Tokens[0].Symbol)
	require.Equal(t, "X", p.Tokens[1].Symbol)
	requireDecimal(t, "2", p.Tokens[0].TotalAmount)
	requireDecimal(t, "20", p.TotalValue)
}
