package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// RawHolding is a token balance as reported by the chain, before any metadata is attached.
type RawHolding struct {
	TokenID   string
	RawAmount *big.Int
	Decimals  uint8
}

// TokenHolding is a valued balance of a recognised token.
type TokenHolding struct {
	Mint      string          `json:"mint"`
	RawAmount string          `json:"rawAmount"`
	Decimals  uint8           `json:"decimals"`
	Amount    decimal.Decimal `json:"amount"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	LogoURL   string          `json:"logoUrl,omitempty"`
	PriceKey  string          `json:"priceKey"`
	UsdValue  decimal.Decimal `json:"usdValue"`
}

// NativeBalance is the valued balance of the chain's base currency.
type NativeBalance struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	UsdValue decimal.Decimal `json:"usdValue"`
	Decimals int32           `json:"decimals"`
	LogoURL  string          `json:"logoUrl,omitempty"`
}

// ValuedBalance is one wallet's balance snapshot priced in USD.
// TotalValue is Native.UsdValue plus the sum of Tokens[i].UsdValue.
type ValuedBalance struct {
	Wallet     WalletSummary   `json:"wallet"`
	Native     NativeBalance   `json:"native"`
	Tokens     []TokenHolding  `json:"tokens"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
