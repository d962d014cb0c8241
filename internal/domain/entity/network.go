package entity

// NetworkDefinition describes a chain the tracker can value wallets on.
type NetworkDefinition struct {
	Identifier       string `json:"identifier" yaml:"identifier"` // value stored in Wallet.Network, e.g. "SOLANA"
	Name             string `json:"name" yaml:"name"`
	NativeSymbol     string `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeName       string `json:"nativeName" yaml:"nativeName"`
	Decimals         int32  `json:"decimals" yaml:"decimals"` // base units per native display unit, as a power of ten
	NativeLogoURL    string `json:"nativeLogoUrl,omitempty" yaml:"nativeLogoUrl,omitempty"`
	NativePriceKey   string `json:"nativePriceKey" yaml:"nativePriceKey"`
	PriceKeyPrefix   string `json:"priceKeyPrefix" yaml:"priceKeyPrefix"` // fallback price key is PriceKeyPrefix + token id
	PrimaryRPCURL    string `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}

// FallbackPriceKey returns the chain-qualified price key for a token without a preferred price id.
func (n NetworkDefinition) FallbackPriceKey(tokenID string) string {
	return n.PriceKeyPrefix + tokenID
}
