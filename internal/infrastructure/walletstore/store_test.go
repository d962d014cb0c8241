package walletstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *GormWalletStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return NewGormWalletStore(db)
}

func newWallet(userID uuid.UUID, address string, createdAt time.Time) entity.Wallet {
	return entity.Wallet{
		Name:      "wallet " + address[:4],
		Address:   address,
		Network:   "SOLANA",
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

func TestUnitCreateAndFindOne(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	owner := uuid.New()

	created, err := store.Create(ctx, newWallet(owner, "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", time.Time{}))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := store.FindOne(ctx, created.ID, owner)
	require.NoError(t, err)
	require.Equal(t, created.Address, got.Address)
	require.Equal(t, "SOLANA", got.Network)

	_, err = store.FindOne(ctx, created.ID, uuid.New())
	require.True(t, errors.Is(err, entity.ErrForbidden))

	_, err = store.FindOne(ctx, uuid.New(), owner)
	require.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestUnitCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	owner := uuid.New()
	w := newWallet(owner, "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", time.Time{})

	_, err := store.Create(ctx, w)
	require.NoError(t, err)

	_, err = store.Create(ctx, w)
	require.ErrorIs(t, err, entity.ErrAlreadyExists)

	exists, err := store.Exists(ctx, owner, w.Address)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = store.Exists(ctx, uuid.New(), w.Address)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestUnitFindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	owner := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.Create(ctx, newWallet(owner, "AAAAaddress1", base))
	require.NoError(t, err)
	_, err = store.Create(ctx, newWallet(owner, "BBBBaddress2", base.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = store.Create(ctx, newWallet(owner, "CCCCaddress3", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = store.Create(ctx, newWallet(uuid.New(), "DDDDaddress4", base))
	require.NoError(t, err)

	wallets, err := store.FindAll(ctx, owner)
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	require.Equal(t, "BBBBaddress2", wallets[0].Address)
	require.Equal(t, "CCCCaddress3", wallets[1].Address)
	require.Equal(t, "AAAAaddress1", wallets[2].Address)

	empty, err := store.FindAll(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUnitDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	owner := uuid.New()

	w, err := store.Create(ctx, newWallet(owner, "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", time.Time{}))
	require.NoError(t, err)

	require.ErrorIs(t, store.Delete(ctx, w.ID, uuid.New()), entity.ErrForbidden)
	require.NoError(t, store.Delete(ctx, w.ID, owner))
	require.ErrorIs(t, store.Delete(ctx, w.ID, owner), entity.ErrNotFound)
}

func TestUnitUpdate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	owner := uuid.New()

	w, err := store.Create(ctx, newWallet(owner, "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", time.Time{}))
	require.NoError(t, err)
	other, err := store.Create(ctx, newWallet(owner, "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", time.Time{}))
	require.NoError(t, err)

	w.Name = "trading"
	w.Address = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	updated, err := store.Update(ctx, w)
	require.NoError(t, err)
	require.Equal(t, w.ID, updated.ID)
	require.Equal(t, "trading", updated.Name)
	require.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", updated.Address)
	require.Equal(t, owner, updated.UserID)

	got, err := store.FindOne(ctx, w.ID, owner)
	require.NoError(t, err)
	require.Equal(t, "trading", got.Name)

	foreign := w
	foreign.UserID = uuid.New()
	_, err = store.Update(ctx, foreign)
	require.ErrorIs(t, err, entity.ErrForbidden)

	missing := w
	missing.ID = uuid.New()
	_, err = store.Update(ctx, missing)
	require.ErrorIs(t, err, entity.ErrNotFound)

	other.Address = updated.Address
	_, err = store.Update(ctx, other)
	require.ErrorIs(t, err, entity.ErrAlreadyExists)
}
