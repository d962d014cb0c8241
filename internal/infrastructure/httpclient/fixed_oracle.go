package httpclient

import (
	"context"

	"portfolio_tracker/internal/app/port"
)

// FixedPriceOracle answers every price request with fixed values and never calls out.
// It is meant for local development and tests.
type FixedPriceOracle struct {
	nativeKey   string
	nativePrice float64
	tokenPrice  float64
}

func NewFixedPriceOracle(nativeKey string, nativePrice, tokenPrice float64) *FixedPriceOracle {
	return &FixedPriceOracle{nativeKey: nativeKey, nativePrice: nativePrice, tokenPrice: tokenPrice}
}

func (o *FixedPriceOracle) GetPrices(_ context.Context, keys []string) map[string]float64 {
	prices := make(map[string]float64, len(keys))
	for _, k := range keys {
		if k == o.nativeKey {
			prices[k] = o.nativePrice
			continue
		}
		prices[k] = o.tokenPrice
	}
	return prices
}

var _ port.PriceOracle = (*FixedPriceOracle)(nil)
