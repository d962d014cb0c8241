package provider

import (
	"context"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
)

type walletProviderImpl struct {
	store  port.WalletStore
	logger port.Logger
}

// NewWalletProvider wraps store with logging of every wallet lookup and mutation.
func NewWalletProvider(store port.WalletStore, logger port.Logger) port.WalletStore {
	return &walletProviderImpl{store: store, logger: logger}
}

func (p *walletProviderImpl) FindAll(ctx context.Context, userID uuid.UUID) ([]entity.Wallet, error) {
	wallets, err := p.store.FindAll(ctx, userID)
	if err != nil {
		p.logger.Error("Failed to load wallets", "user_id", userID, "error", err)
		return nil, err
	}
	p.logger.Debug("Wallets loaded", "user_id", userID, "count", len(wallets))
	return wallets, nil
}

func (p *walletProviderImpl) FindOne(ctx context.Context, id, userID uuid.UUID) (entity.Wallet, error) {
	w, err := p.store.FindOne(ctx, id, userID)
	if err != nil {
		p.logger.Debug("Wallet lookup failed", "wallet_id", id, "user_id", userID, "error", err)
		return entity.Wallet{}, err
	}
	return w, nil
}

func (p *walletProviderImpl) Create(ctx context.Context, w entity.Wallet) (entity.Wallet, error) {
	created, err := p.store.Create(ctx, w)
	if err != nil {
		p.logger.Warn("Failed to create wallet", "user_id", w.UserID, "address", w.Address, "error", err)
		return entity.Wallet{}, err
	}
	p.logger.Info("Wallet created", "wallet_id", created.ID, "user_id", created.UserID, "address", created.Address)
	return created, nil
}

func (p *walletProviderImpl) Update(ctx context.Context, w entity.Wallet) (entity.Wallet, error) {
	updated, err := p.store.Update(ctx, w)
	if err != nil {
		p.logger.Warn("Failed to update wallet", "wallet_id", w.ID, "user_id", w.UserID, "error", err)
		return entity.Wallet{}, err
	}
	p.logger.Info("Wallet updated", "wallet_id", updated.ID, "user_id", updated.UserID, "address", updated.Address)
	return updated, nil
}

func (p *walletProviderImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := p.store.Delete(ctx, id, userID); err != nil {
		p.logger.Warn("Failed to delete wallet", "wallet_id", id, "user_id", userID, "error", err)
		return err
	}
	p.logger.Info("Wallet deleted", "wallet_id", id, "user_id", userID)
	return nil
}

func (p *walletProviderImpl) Exists(ctx context.Context, userID uuid.UUID, address string) (bool, error) {
	return p.store.Exists(ctx, userID, address)
}
