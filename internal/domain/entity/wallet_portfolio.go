package entity

import "github.com/shopspring/decimal"

// TokenSummary is one asset merged by symbol across all of a user's wallets.
type TokenSummary struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalUsdValue decimal.Decimal `json:"totalUsdValue"`
	LogoURL       string          `json:"logoUrl,omitempty"`
}

// AggregatedPortfolio is the valuation of every wallet a user owns.
type AggregatedPortfolio struct {
	TotalValue  decimal.Decimal `json:"totalValue"`
	WalletCount int             `json:"walletCount"`
	Tokens      []TokenSummary  `json:"tokens"`
}

// EmptyPortfolio returns the portfolio of a user without wallets.
func EmptyPortfolio() AggregatedPortfolio {
	return AggregatedPortfolio{TotalValue: decimal.Zero, WalletCount: 0, Tokens: []TokenSummary{}}
}
