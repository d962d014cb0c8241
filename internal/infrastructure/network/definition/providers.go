package networkdefinition

import (
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

// SolanaIdentifier is the Wallet.Network value of Solana wallets.
const SolanaIdentifier = "SOLANA"

var Solana = entity.NetworkDefinition{ //nolint:gochecknoglobals // Global for definitions
	Identifier:       SolanaIdentifier,
	Name:             "Solana Mainnet Beta",
	NativeSymbol:     "SOL",
	NativeName:       "Solana",
	Decimals:         9,
	NativeLogoURL:    "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/So11111111111111111111111111111111111111112/logo.png",
	NativePriceKey:   "solana",
	PriceKeyPrefix:   "solana:",
	PrimaryRPCURL:    "https://api.mainnet-beta.solana.com",
	BlockExplorerURL: "https://solscan.io",
}

// NetworkDefinitionProvider serves the single supported network.
type NetworkDefinitionProvider struct {
	supported entity.NetworkDefinition
}

// NewNetworkDefinitionProvider returns a provider for Solana, using rpcURL when it is set.
func NewNetworkDefinitionProvider(log port.Logger, rpcURL string) *NetworkDefinitionProvider {
	def := Solana
	if rpcURL != "" {
		def.PrimaryRPCURL = rpcURL
	}
	log.Debug("Network definition loaded", "network", def.Identifier, "rpc", def.PrimaryRPCURL)
	return &NetworkDefinitionProvider{supported: def}
}

// Supported returns the network every wallet is valued on.
func (p *NetworkDefinitionProvider) Supported() entity.NetworkDefinition {
	return p.supported
}

// GetNetworkDefinitionByName matches a wallet network value case-insensitively.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if strings.EqualFold(strings.TrimSpace(identifier), p.supported.Identifier) {
		return p.supported, true
	}
	return entity.NetworkDefinition{}, false
}

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)
