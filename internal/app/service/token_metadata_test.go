package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio_tracker/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeTokenSource struct {
	tokens []entity.TokenMetadata
	err    error
	calls  int
}

func (s *fakeTokenSource) load(context.Context) ([]entity.TokenMetadata, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tokens, nil
}

func newMetadataFixture() (*TokenMetadataCache, *fakeTokenSource, *fakeClock) {
	src := &fakeTokenSource{tokens: []entity.TokenMetadata{
		{Address: mintUSDC, Symbol: "USDC", Name: "USD Coin", Decimals: 6, CoingeckoID: "usd-coin"},
		{Address: mintTok, Symbol: "TOK", Decimals: 6},
	}}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := NewTokenMetadataCache(src.load, time.Hour, 30*time.Second, clock.Now, testLogger)
	return c, src, clock
}

func TestUnitResolveLoadsLazily(t *testing.T) {
	c, src, _ := newMetadataFixture()
	ctx := context.Background()
	require.Zero(t, c.Len())

	meta, ok := c.Resolve(ctx, mintUSDC)
	require.True(t, ok)
	require.Equal(t, "usd-coin", meta.CoingeckoID)
	require.Equal(t, 2, c.Len())

	_, ok = c.Resolve(ctx, mintUnknown)
	require.False(t, ok)
	require.Equal(t, 1, src.calls)
}

func TestUnitResolveRefreshesAfterTTL(t *testing.T) {
	c, src, clock := newMetadataFixture()
	ctx := context.Background()

	c.Resolve(ctx, mintUSDC)
	clock.Advance(59 * time.Minute)
	c.Resolve(ctx, mintUSDC)
	require.Equal(t, 1, src.calls)

	src.tokens = append(src.tokens, entity.TokenMetadata{Address: mintNoGecko, Symbol: "NOG"})
	clock.Advance(time.Minute)
	_, ok := c.Resolve(ctx, mintNoGecko)
	require.True(t, ok)
	require.Equal(t, 2, src.calls)
	require.Equal(t, 3, c.Len())
}

func TestUnitResolveKeepsStaleListOnFailure(t *testing.T) {
	c, src, clock := newMetadataFixture()
	ctx := context.Background()
	require.NoError(t, c.Warm(ctx))

	src.err = errors.New("token list down")
	clock.Advance(2 * time.Hour)

	meta, ok := c.Resolve(ctx, mintTok)
	require.True(t, ok)
	require.Equal(t, "TOK", meta.Symbol)
	require.Equal(t, 2, src.calls)

	clock.Advance(10 * time.Second)
	c.Resolve(ctx, mintTok)
	require.Equal(t, 2, src.calls)

	clock.Advance(30 * time.Second)
	src.err = nil
	c.Resolve(ctx, mintTok)
	require.Equal(t, 3, src.calls)
}

func TestUnitResolveColdStartFailure(t *testing.T) {
	c, src, clock := newMetadataFixture()
	ctx := context.Background()
	src.err = errors.New("token list down")

	_, ok := c.Resolve(ctx, mintUSDC)
	require.False(t, ok)
	_, ok = c.Resolve(ctx, mintTok)
	require.False(t, ok)
	require.Equal(t, 1, src.calls)

	src.err = nil
	clock.Advance(31 * time.Second)
	_, ok = c.Resolve(ctx, mintUSDC)
	require.True(t, ok)
}

func TestUnitWarmRejectsEmptyList(t *testing.T) {
	c, src, _ := newMetadataFixture()
	ctx := context.Background()
	require.NoError(t, c.Warm(ctx))

	src.tokens = nil
	require.Error(t, c.Warm(ctx))
	require.Equal(t, 2, c.Len())
}
