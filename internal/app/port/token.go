package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// TokenMetadataSource resolves on-chain token ids to display metadata.
type TokenMetadataSource interface {
	// Resolve returns the metadata of tokenID, or false if the token is not listed.
	Resolve(ctx context.Context, tokenID string) (entity.TokenMetadata, bool)
}

// PriceOracle returns USD unit prices for price-lookup keys.
// Implementations degrade instead of failing: keys without a price are simply absent from the result.
type PriceOracle interface {
	GetPrices(ctx context.Context, keys []string) map[string]float64
}

// PriceAPI is a single upstream price source queried in one request for all ids.
type PriceAPI interface {
	FetchUSDPrices(ctx context.Context, ids []string) (map[string]float64, error)
}
