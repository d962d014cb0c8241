package walletstore

import (
	"time"

	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
)

type walletRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wallets_user_address;index"`
	Name      string    `gorm:"size:128"`
	Address   string    `gorm:"size:64;not null;uniqueIndex:idx_wallets_user_address"`
	Network   string    `gorm:"size:32;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (walletRecord) TableName() string {
	return "wallets"
}

func toRecord(w entity.Wallet) walletRecord {
	return walletRecord{
		ID:        w.ID,
		UserID:    w.UserID,
		Name:      w.Name,
		Address:   w.Address,
		Network:   w.Network,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (r walletRecord) toEntity() entity.Wallet {
	return entity.Wallet{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Network:   r.Network,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
