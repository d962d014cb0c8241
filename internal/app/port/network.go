package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// ChainReader reads balances of an address from a blockchain node.
type ChainReader interface {
	// ValidateAddress reports entity.ErrInvalidAddress when address is not a valid account address for the chain.
	ValidateAddress(address string) error

	// GetNativeBalance returns the native currency balance in base units (lamports on Solana).
	GetNativeBalance(ctx context.Context, address string) (uint64, error)

	// GetTokenHoldings returns every token balance held by address, one entry per token id.
	GetTokenHoldings(ctx context.Context, address string) ([]entity.RawHolding, error)
}

// NetworkDefinitionProvider resolves the network a wallet lives on.
type NetworkDefinitionProvider interface {
	// Supported returns the network every wallet is valued on.
	Supported() entity.NetworkDefinition

	// GetNetworkDefinitionByName returns the definition for a wallet network value, if supported.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)
}
