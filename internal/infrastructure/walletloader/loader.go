package walletloader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// SeedEntry is one line of a wallets file: user-id,address[,name].
type SeedEntry struct {
	UserID  uuid.UUID
	Address string
	Name    string
}

// WalletSeeder registers wallets listed in a file that are not yet in the store.
type WalletSeeder struct {
	filePath string
	network  string
	store    port.WalletStore
	chain    port.ChainReader
	logger   port.Logger
}

func NewWalletSeeder(filePath, network string, store port.WalletStore, chain port.ChainReader, log port.Logger) *WalletSeeder {
	return &WalletSeeder{
		filePath: filePath,
		network:  network,
		store:    store,
		chain:    chain,
		logger:   log.With("component", "wallet_seeder"),
	}
}

// ReadEntries parses the wallets file. Blank lines and lines starting with # are ignored;
// malformed lines are logged and skipped.
func (s *WalletSeeder) ReadEntries() ([]SeedEntry, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", s.filePath, err)
	}
	defer file.Close()

	var entries []SeedEntry
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := s.parseLine(line)
		if err != nil {
			s.logger.Warn("Skipping invalid wallet line", "file", s.filePath, "line_number", lineNum, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", s.filePath, err)
	}
	return entries, nil
}

func (s *WalletSeeder) parseLine(line string) (SeedEntry, error) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) < 2 {
		return SeedEntry{}, fmt.Errorf("expected user-id,address[,name], got %q", line)
	}
	userID, err := uuid.Parse(strings.TrimSpace(parts[0]))
	if err != nil {
		return SeedEntry{}, fmt.Errorf("invalid user id: %w", err)
	}
	address := strings.TrimSpace(parts[1])
	if err := s.chain.ValidateAddress(address); err != nil {
		return SeedEntry{}, err
	}
	entry := SeedEntry{UserID: userID, Address: address}
	if len(parts) == 3 {
		entry.Name = strings.TrimSpace(parts[2])
	}
	if entry.Name == "" {
		entry.Name = address
	}
	return entry, nil
}

// Seed inserts the missing wallets and returns how many were created.
func (s *WalletSeeder) Seed(ctx context.Context) (int, error) {
	entries, err := s.ReadEntries()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, e := range entries {
		exists, err := s.store.Exists(ctx, e.UserID, e.Address)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		_, err = s.store.Create(ctx, entity.Wallet{
			Name:    e.Name,
			Address: e.Address,
			Network: s.network,
			UserID:  e.UserID,
		})
		if err != nil {
			return created, err
		}
		created++
	}

	s.logger.Info("Wallets seeded from file", "path", s.filePath, "entries", len(entries), "created", created)
	return created, nil
}
