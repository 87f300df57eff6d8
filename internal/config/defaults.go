package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/LeJamon/goSettle/internal/storage"
)

// DefaultModuleID is the reserve module used when none is configured
const DefaultModuleID = "settlement/reserve"

// setDefaults registers every key so environment overrides reach it
func setDefaults(v *viper.Viper) {
	// Settlement defaults
	v.SetDefault("settlement.module_id", DefaultModuleID)
	v.SetDefault("settlement.remainder", RemainderBurn)
	v.SetDefault("settlement.treasury_module_id", "")

	// Ledger defaults
	v.SetDefault("ledger.existential_deposit", "1")
	v.SetDefault("ledger.cache_size", 1024)

	// Storage defaults
	v.SetDefault("storage.backend", storage.BackendMemory)
	v.SetDefault("storage.path", "")

	// Journal defaults (disabled until a driver is set)
	v.SetDefault("journal.driver", "")
	v.SetDefault("journal.dsn", "")
	v.SetDefault("journal.max_open_conns", 4)
	v.SetDefault("journal.max_idle_conns", 2)
	v.SetDefault("journal.conn_max_lifetime", time.Hour)
	v.SetDefault("journal.default_timeout", 10*time.Second)

	// Genesis defaults
	v.SetDefault("genesis.reserve_funding", "0")
	v.SetDefault("genesis.accounts", []GenesisAccount{})
}
