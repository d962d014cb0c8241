package service

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"portfolio_tracker/internal/domain/entity"
	networkdefinition "portfolio_tracker/internal/infrastructure/network/definition"
	"portfolio_tracker/internal/pkg/logger"

	"github.com/google/uuid"
)

var (
	testLogger   = logger.NewDiscard()
	testNetworks = networkdefinition.NewNetworkDefinitionProvider(testLogger, "")
)

type chainAccount struct {
	lamports uint64
	holdings []entity.RawHolding
	err      error
}

type fakeChain struct {
	accounts map[string]chainAccount
	calls    atomic.Int32
}

func (c *fakeChain) ValidateAddress(address string) error {
	if strings.HasPrefix(address, "bad") {
		return entity.ErrInvalidAddress
	}
	return nil
}

func (c *fakeChain) GetNativeBalance(_ context.Context, address string) (uint64, error) {
	c.calls.Add(1)
	a := c.accounts[address]
	return a.lamports, a.err
}

func (c *fakeChain) GetTokenHoldings(_ context.Context, address string) ([]entity.RawHolding, error) {
	a := c.accounts[address]
	return a.holdings, a.err
}

type fakeTokens map[string]entity.TokenMetadata

func (f fakeTokens) Resolve(_ context.Context, tokenID string) (entity.TokenMetadata, bool) {
	m, ok := f[tokenID]
	return m, ok
}

type fakeOracle struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  [][]string
}

func (o *fakeOracle) GetPrices(_ context.Context, keys []string) map[string]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	o.calls = append(o.calls, sorted)
	out := make(map[string]float64)
	for _, k := range keys {
		if p, ok := o.prices[k]; ok {
			out[k] = p
		}
	}
	return out
}

type fakeStore struct {
	mu           sync.Mutex
	wallets      []entity.Wallet
	findAllCalls int
}

func (s *fakeStore) FindAll(_ context.Context, userID uuid.UUID) ([]entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findAllCalls++
	out := []entity.Wallet{}
	for _, w := range s.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *fakeStore) FindOne(_ context.Context, id, userID uuid.UUID) (entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.ID == id {
			if w.UserID != userID {
				return entity.Wallet{}, entity.ErrForbidden
			}
			return w, nil
		}
	}
	return entity.Wallet{}, entity.ErrNotFound
}

func (s *fakeStore) Create(_ context.Context, w entity.Wallet) (entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	s.wallets = append(s.wallets, w)
	return w, nil
}

func (s *fakeStore) Update(_ context.Context, w entity.Wallet) (entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == w.ID && s.wallets[i].UserID == w.UserID {
			s.wallets[i] = w
			return w, nil
		}
	}
	return entity.Wallet{}, entity.ErrNotFound
}

func (s *fakeStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.wallets {
		if w.ID == id && w.UserID == userID {
			s.wallets = append(s.wallets[:i], s.wallets[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

func (s *fakeStore) Exists(_ context.Context, userID uuid.UUID, address string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.UserID == userID && w.Address == address {
			return true, nil
		}
	}
	return false, nil
}

type cacheEntry struct {
	value []byte
	ttl   time.Duration
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	failGet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]cacheEntry{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("cache unavailable")
	}
	e, ok := c.entries[key]
	return e.value, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, ttl: ttl}
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) entry(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

func raw(mint, amount string, decimals uint8) entity.RawHolding {
	v, _ := new(big.Int).SetString(amount, 10)
	return entity.RawHolding{TokenID: mint, RawAmount: v, Decimals: decimals}
}

func solanaWallet(userID uuid.UUID, address string) entity.Wallet {
	return entity.Wallet{
		ID:      uuid.New(),
		Name:    address,
		Address: address,
		Network: networkdefinition.SolanaIdentifier,
		UserID:  userID,
	}
}
