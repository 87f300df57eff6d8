package config

import (
	"path/filepath"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/storage/relationaldb"
)

// Remainder policies for debit value the reserve cannot absorb
const (
	RemainderBurn     = "burn"
	RemainderTreasury = "treasury"
)

// Config represents the complete settled configuration
type Config struct {
	Settlement SettlementConfig    `toml:"settlement" mapstructure:"settlement"`
	Ledger     LedgerConfig        `toml:"ledger" mapstructure:"ledger"`
	Storage    StorageConfig       `toml:"storage" mapstructure:"storage"`
	Journal    relationaldb.Config `toml:"journal" mapstructure:"journal"`
	Genesis    GenesisConfig       `toml:"genesis" mapstructure:"genesis"`

	configPath string `toml:"-" mapstructure:"-"`
}

// SettlementConfig represents the [settlement] section
type SettlementConfig struct {
	// ModuleID names the module whose derived account is the reserve
	ModuleID string `toml:"module_id" mapstructure:"module_id"`

	// Remainder is "burn" or "treasury"
	Remainder string `toml:"remainder" mapstructure:"remainder"`

	// TreasuryModuleID receives unabsorbed debits under the treasury policy
	TreasuryModuleID string `toml:"treasury_module_id" mapstructure:"treasury_module_id"`
}

// LedgerConfig represents the [ledger] section
type LedgerConfig struct {
	// ExistentialDeposit accepts drops ("1000") or XRP ("0.001xrp")
	ExistentialDeposit XRPAmount.XRPAmount `toml:"existential_deposit" mapstructure:"existential_deposit"`
	CacheSize          int                 `toml:"cache_size" mapstructure:"cache_size"`
}

// StorageConfig represents the [storage] section
type StorageConfig struct {
	Backend string `toml:"backend" mapstructure:"backend"`
	Path    string `toml:"path" mapstructure:"path"`
}

// GenesisConfig represents the [genesis] section. It is applied once, to an
// empty ledger.
type GenesisConfig struct {
	ReserveFunding XRPAmount.XRPAmount `toml:"reserve_funding" mapstructure:"reserve_funding"`
	Accounts       []GenesisAccount    `toml:"accounts" mapstructure:"accounts"`
}

// GenesisAccount is one [[genesis.accounts]] entry
type GenesisAccount struct {
	// Account is a classic address or a 40 character hex account ID
	Account string              `toml:"account" mapstructure:"account"`
	Balance XRPAmount.XRPAmount `toml:"balance" mapstructure:"balance"`
}

// JournalEnabled reports whether a journal driver is configured
func (c *Config) JournalEnabled() bool {
	return c.Journal.Driver != ""
}

// GetConfigPath returns the path of the loaded configuration file, if any
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// ResolvePath makes a relative storage path relative to the config file
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.configPath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.configPath), p)
}
