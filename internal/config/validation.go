package config

import (
	"fmt"

	"github.com/LeJamon/goSettle/internal/core/reserve"
	"github.com/LeJamon/goSettle/internal/storage"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Settlement.Validate(); err != nil {
		return fmt.Errorf("settlement validation failed: %w", err)
	}
	if err := config.Ledger.Validate(); err != nil {
		return fmt.Errorf("ledger validation failed: %w", err)
	}
	if err := config.Storage.Validate(); err != nil {
		return fmt.Errorf("storage validation failed: %w", err)
	}
	if config.JournalEnabled() {
		if err := config.Journal.Validate(); err != nil {
			return fmt.Errorf("journal validation failed: %w", err)
		}
	}
	if err := config.Genesis.Validate(config.Ledger); err != nil {
		return fmt.Errorf("genesis validation failed: %w", err)
	}
	return nil
}

// Validate performs validation on the settlement configuration
func (s *SettlementConfig) Validate() error {
	if _, err := reserve.ParseModuleID(s.ModuleID); err != nil {
		return fmt.Errorf("module_id: %w", err)
	}

	switch s.Remainder {
	case RemainderBurn:
	case RemainderTreasury:
		if _, err := reserve.ParseModuleID(s.TreasuryModuleID); err != nil {
			return fmt.Errorf("treasury_module_id is required for the treasury remainder: %w", err)
		}
		if s.TreasuryModuleID == s.ModuleID {
			return fmt.Errorf("treasury_module_id must differ from module_id")
		}
	default:
		return fmt.Errorf("invalid remainder policy: %q (valid options: %s, %s)", s.Remainder, RemainderBurn, RemainderTreasury)
	}
	return nil
}

// Validate performs validation on the ledger configuration
func (l *LedgerConfig) Validate() error {
	if l.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", l.CacheSize)
	}
	return nil
}

// Validate performs validation on the storage configuration
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case storage.BackendMemory:
		return nil
	case storage.BackendPebble, storage.BackendLevelDB:
		if s.Path == "" {
			return fmt.Errorf("path is required for the %s backend", s.Backend)
		}
		return nil
	default:
		return fmt.Errorf("invalid storage backend: %q (valid options: %s, %s, %s)",
			s.Backend, storage.BackendMemory, storage.BackendPebble, storage.BackendLevelDB)
	}
}

// Validate checks genesis accounts parse and meet the existential deposit
func (g *GenesisConfig) Validate(ledger LedgerConfig) error {
	if g.ReserveFunding.IsPositive() && g.ReserveFunding < ledger.ExistentialDeposit {
		return fmt.Errorf("reserve_funding %s is below the existential deposit %s", g.ReserveFunding, ledger.ExistentialDeposit)
	}

	seen := make(map[string]bool, len(g.Accounts))
	for i, acct := range g.Accounts {
		id, err := ParseAccount(acct.Account)
		if err != nil {
			return fmt.Errorf("accounts[%d]: %w", i, err)
		}
		if seen[id.String()] {
			return fmt.Errorf("accounts[%d]: duplicate account %s", i, acct.Account)
		}
		seen[id.String()] = true
		if acct.Balance < ledger.ExistentialDeposit {
			return fmt.Errorf("accounts[%d]: balance %s is below the existential deposit %s", i, acct.Balance, ledger.ExistentialDeposit)
		}
	}
	return nil
}
