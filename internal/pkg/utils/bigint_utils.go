package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDisplayAmount converts an integer amount of base units into display units.
// Example: amount=2500000000, decimals=9 => 2.5
func ToDisplayAmount(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// LamportsToDisplay converts a native balance in base units to display units.
func LamportsToDisplay(lamports uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -decimals)
}
