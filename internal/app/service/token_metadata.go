package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/metrics"
)

const (
	DefaultTokenListTTL     = time.Hour
	DefaultTokenListBackoff = 30 * time.Second
)

var errEmptyTokenList = errors.New("token list source returned no tokens")

// TokenListFunc fetches the complete token list.
type TokenListFunc func(ctx context.Context) ([]entity.TokenMetadata, error)

type tokenSnapshot struct {
	byAddress map[string]entity.TokenMetadata
	loadedAt  time.Time
}

// TokenMetadataCache is a port.TokenMetadataSource keeping the token list in memory.
// The list is replaced as a whole; readers never see a partially built list.
type TokenMetadataCache struct {
	refresh TokenListFunc
	now     func() time.Time
	ttl     time.Duration
	backoff time.Duration
	logger  port.Logger

	snapshot    atomic.Pointer[tokenSnapshot]
	lastFailure atomic.Int64 // unix nanos, 0 when the last refresh succeeded
}

// NewTokenMetadataCache creates an empty cache. now may be nil, in which case time.Now is used.
func NewTokenMetadataCache(refresh TokenListFunc, ttl, backoff time.Duration, now func() time.Time, log port.Logger) *TokenMetadataCache {
	if ttl <= 0 {
		ttl = DefaultTokenListTTL
	}
	if backoff < 0 {
		backoff = 0
	}
	if now == nil {
		now = time.Now
	}
	c := &TokenMetadataCache{
		refresh: refresh,
		now:     now,
		ttl:     ttl,
		backoff: backoff,
		logger:  log.With("component", "token_metadata"),
	}
	c.snapshot.Store(&tokenSnapshot{byAddress: map[string]entity.TokenMetadata{}})
	return c
}

// Resolve returns the metadata of tokenID, refreshing the list first when it is empty or expired.
// A failed refresh keeps serving the previous list.
func (c *TokenMetadataCache) Resolve(ctx context.Context, tokenID string) (entity.TokenMetadata, bool) {
	if c.shouldRefresh() {
		_ = c.Warm(ctx)
	}
	meta, ok := c.snapshot.Load().byAddress[tokenID]
	return meta, ok
}

// Warm fetches the list unconditionally.
func (c *TokenMetadataCache) Warm(ctx context.Context) error {
	tokens, err := c.refresh(ctx)
	if err == nil && len(tokens) == 0 {
		err = errEmptyTokenList
	}
	if err != nil {
		c.lastFailure.Store(c.now().UnixNano())
		c.logger.Warn("Token list refresh failed, keeping previous list", "tokens", c.Len(), "error", err)
		return err
	}

	byAddress := make(map[string]entity.TokenMetadata, len(tokens))
	for _, t := range tokens {
		if _, dup := byAddress[t.Address]; !dup {
			byAddress[t.Address] = t
		}
	}
	c.snapshot.Store(&tokenSnapshot{byAddress: byAddress, loadedAt: c.now()})
	c.lastFailure.Store(0)
	metrics.SetTokenListSize(len(byAddress))
	c.logger.Info("Token list refreshed", "tokens", len(byAddress))
	return nil
}

// Len returns the number of tokens in the current list.
func (c *TokenMetadataCache) Len() int {
	return len(c.snapshot.Load().byAddress)
}

func (c *TokenMetadataCache) shouldRefresh() bool {
	now := c.now()
	if failedAt := c.lastFailure.Load(); failedAt != 0 && now.Sub(time.Unix(0, failedAt)) < c.backoff {
		return false
	}
	snap := c.snapshot.Load()
	return len(snap.byAddress) == 0 || now.Sub(snap.loadedAt) >= c.ttl
}

var _ port.TokenMetadataSource = (*TokenMetadataCache)(nil)
