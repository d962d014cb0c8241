package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// WalletStore persists the wallets users register.
type WalletStore interface {
	// FindAll returns the wallets of userID, newest first.
	FindAll(ctx context.Context, userID uuid.UUID) ([]entity.Wallet, error)

	// FindOne returns wallet id if it belongs to userID.
	// It fails with entity.ErrNotFound when absent and entity.ErrForbidden when owned by another user.
	FindOne(ctx context.Context, id uuid.UUID, userID uuid.UUID) (entity.Wallet, error)

	Create(ctx context.Context, wallet entity.Wallet) (entity.Wallet, error)

	// Update saves the name, address and network of wallet, which must belong to wallet.UserID.
	Update(ctx context.Context, wallet entity.Wallet) (entity.Wallet, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	// Exists reports whether userID already registered address.
	Exists(ctx context.Context, userID uuid.UUID, address string) (bool, error)
}
