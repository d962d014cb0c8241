package walletstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectAttempts = 5

// Open connects to the configured database and migrates the wallets table.
func Open(cfg configloader.DBConfig, log port.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && !strings.HasPrefix(cfg.SQLitePath, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory %s: %w", dir, err)
			}
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
		if err == nil {
			break
		}
		log.Warn("Failed to connect to database, retrying", "driver", cfg.Driver, "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", cfg.Driver, connectAttempts, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Wallet store ready", "driver", cfg.Driver)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&walletRecord{}); err != nil {
		return fmt.Errorf("failed to migrate wallets table: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GormWalletStore implements port.WalletStore with gorm.
type GormWalletStore struct {
	db *gorm.DB
}

func NewGormWalletStore(db *gorm.DB) *GormWalletStore {
	return &GormWalletStore{db: db}
}

// FindAll returns the user's wallets, newest first.
func (s *GormWalletStore) FindAll(ctx context.Context, userID uuid.UUID) ([]entity.Wallet, error) {
	var records []walletRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets of user %s: %w", userID, err)
	}

	wallets := make([]entity.Wallet, 0, len(records))
	for _, r := range records {
		wallets = append(wallets, r.toEntity())
	}
	return wallets, nil
}

// FindOne returns ErrNotFound when the wallet does not exist and ErrForbidden when it belongs to another user.
func (s *GormWalletStore) FindOne(ctx context.Context, id, userID uuid.UUID) (entity.Wallet, error) {
	var r walletRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Wallet{}, fmt.Errorf("wallet %s: %w", id, entity.ErrNotFound)
		}
		return entity.Wallet{}, fmt.Errorf("failed to load wallet %s: %w", id, err)
	}
	if r.UserID != userID {
		return entity.Wallet{}, fmt.Errorf("wallet %s: %w", id, entity.ErrForbidden)
	}
	return r.toEntity(), nil
}

// Create inserts w, assigning an id when it has none.
func (s *GormWalletStore) Create(ctx context.Context, w entity.Wallet) (entity.Wallet, error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r := toRecord(w)
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		if isUniqueViolation(err) {
			return entity.Wallet{}, fmt.Errorf("wallet %s for user %s: %w", w.Address, w.UserID, entity.ErrAlreadyExists)
		}
		return entity.Wallet{}, fmt.Errorf("failed to create wallet: %w", err)
	}
	return r.toEntity(), nil
}

func (s *GormWalletStore) Update(ctx context.Context, w entity.Wallet) (entity.Wallet, error) {
	if _, err := s.FindOne(ctx, w.ID, w.UserID); err != nil {
		return entity.Wallet{}, err
	}
	err := s.db.WithContext(ctx).Model(&walletRecord{ID: w.ID}).
		Where("user_id = ?", w.UserID).
		Updates(map[string]any{"name": w.Name, "address": w.Address, "network": w.Network}).Error
	if err != nil {
		if isUniqueViolation(err) {
			return entity.Wallet{}, fmt.Errorf("wallet %s for user %s: %w", w.Address, w.UserID, entity.ErrAlreadyExists)
		}
		return entity.Wallet{}, fmt.Errorf("failed to update wallet %s: %w", w.ID, err)
	}
	return s.FindOne(ctx, w.ID, w.UserID)
}

func (s *GormWalletStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.FindOne(ctx, id, userID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&walletRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete wallet %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wallet %s: %w", id, entity.ErrNotFound)
	}
	return nil
}

func (s *GormWalletStore) Exists(ctx context.Context, userID uuid.UUID, address string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&walletRecord{}).
		Where("user_id = ? AND address = ?", userID, address).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wallet %s: %w", address, err)
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "duplicate")
}

var _ port.WalletStore = (*GormWalletStore)(nil)
