package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// ValuationService values single wallets.
type ValuationService interface {
	// ValueWallet prices one wallet's native and token balances.
	ValueWallet(ctx context.Context, wallet entity.Wallet) (entity.ValuedBalance, error)

	// GetWalletValuation loads wallet walletID owned by userID and values it.
	GetWalletValuation(ctx context.Context, walletID uuid.UUID, userID uuid.UUID) (entity.ValuedBalance, error)
}

// PortfolioService aggregates all wallets of a user.
type PortfolioService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) (entity.AggregatedPortfolio, error)

	// Invalidate drops the cached aggregate of userID.
	Invalidate(ctx context.Context, userID uuid.UUID)
}
