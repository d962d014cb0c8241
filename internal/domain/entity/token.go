package entity

// TokenMetadata holds the display metadata of a token from the token list.
type TokenMetadata struct {
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Decimals    uint8  `json:"decimals"`
	LogoURI     string `json:"logoURI,omitempty"`
	CoingeckoID string `json:"coingeckoId,omitempty"`
}
