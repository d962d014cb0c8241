package entity

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a user's registered address on a supported network.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Network   string    `json:"network"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WalletSummary is the wallet identity embedded in a valuation.
type WalletSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Network string    `json:"network"`
}

// Summary returns the identity fields of the wallet.
func (w Wallet) Summary() WalletSummary {
	return WalletSummary{ID: w.ID, Name: w.Name, Address: w.Address, Network: w.Network}
}
