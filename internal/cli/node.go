package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/LeJamon/goSettle/internal/config"
	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/core/ledger"
	"github.com/LeJamon/goSettle/internal/core/reserve"
	"github.com/LeJamon/goSettle/internal/core/settlement"
	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/LeJamon/goSettle/internal/storage"
	"github.com/LeJamon/goSettle/internal/storage/database"
	"github.com/LeJamon/goSettle/internal/storage/relationaldb"
)

const ledgerDBName = "ledger"

// node wires storage, ledger, engine and journal from configuration
type node struct {
	logger  *log.Logger
	manager database.Manager
	ledger  *ledger.Ledger
	engine  *settlement.Engine
	journal *relationaldb.Journal
}

// openNode wires a node from cfg. On failure everything opened so far is
// closed again.
func openNode(ctx context.Context, cfg *config.Config, logger *log.Logger) (*node, error) {
	n := &node{logger: logger}
	if err := n.open(ctx, cfg); err != nil {
		if closeErr := n.Close(); closeErr != nil {
			logger.Printf("failed to release node after open error: %v", closeErr)
		}
		return nil, err
	}
	return n, nil
}

func (n *node) open(ctx context.Context, cfg *config.Config) error {
	var err error
	if n.manager, err = storage.NewManager(cfg.Storage.Backend, cfg.ResolvePath(cfg.Storage.Path)); err != nil {
		return err
	}
	db, err := n.manager.OpenDB(ledgerDBName)
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}

	sinks := events.Fanout{events.LogSink{Logger: n.logger}}
	if cfg.JournalEnabled() {
		if n.journal, err = relationaldb.Open(ctx, journalConfig(cfg), n.logger); err != nil {
			return err
		}
		sinks = append(sinks, n.journal)
	}

	if n.ledger, err = ledger.New(ctx, db, ledger.Config{
		ExistentialDeposit: cfg.Ledger.ExistentialDeposit,
		CacheSize:          cfg.Ledger.CacheSize,
		Sink:               sinks,
		Logger:             n.logger,
	}); err != nil {
		return err
	}

	if n.engine, err = settlement.NewEngine(settlement.Config{
		Module:    reserve.ModuleID(cfg.Settlement.ModuleID),
		Remainder: remainderHandler(cfg.Settlement),
		Logger:    n.logger,
	}); err != nil {
		return err
	}

	return n.applyGenesis(ctx, cfg.Genesis)
}

// journalConfig resolves a relative sqlite path against the config file
func journalConfig(cfg *config.Config) *relationaldb.Config {
	journalCfg := cfg.Journal
	if journalCfg.Driver == relationaldb.DriverSQLite {
		journalCfg.DSN = cfg.ResolvePath(journalCfg.DSN)
	}
	return &journalCfg
}

func remainderHandler(cfg config.SettlementConfig) settlement.RemainderHandler {
	if cfg.Remainder == config.RemainderTreasury {
		return settlement.TreasuryRemainder{Treasury: reserve.AccountID(reserve.ModuleID(cfg.TreasuryModuleID))}
	}
	return settlement.BurnRemainder{}
}

// applyGenesis funds the reserve and genesis accounts of an empty ledger in
// one transaction
func (n *node) applyGenesis(ctx context.Context, genesis config.GenesisConfig) error {
	if n.ledger.TotalIssuance() != 0 {
		return nil
	}
	if genesis.ReserveFunding == 0 && len(genesis.Accounts) == 0 {
		return nil
	}

	err := n.ledger.Transact(ctx, func(tx *ledger.Tx) error {
		if err := mintExact(ctx, tx, n.engine.Reserve().AccountID(), genesis.ReserveFunding); err != nil {
			return fmt.Errorf("reserve: %w", err)
		}
		for _, acct := range genesis.Accounts {
			id, err := config.ParseAccount(acct.Account)
			if err != nil {
				return err
			}
			if err := mintExact(ctx, tx, id, acct.Balance); err != nil {
				return fmt.Errorf("%s: %w", acct.Account, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply genesis: %w", err)
	}
	n.logger.Printf("genesis applied: issuance %s", n.ledger.TotalIssuance())
	return nil
}

func mintExact(ctx context.Context, tx *ledger.Tx, to crypto.AccountID, amount XRPAmount.XRPAmount) error {
	if amount == 0 {
		return nil
	}
	unapplied, err := tx.Mint(ctx, to, amount)
	if err != nil {
		return err
	}
	if unapplied != 0 {
		return fmt.Errorf("%w: %s drops", ledger.ErrExistentialDeposit, amount)
	}
	return nil
}

func (n *node) Close() error {
	var errs []error
	if n.journal != nil {
		errs = append(errs, n.journal.Close())
	}
	if n.manager != nil {
		errs = append(errs, n.manager.Close())
	}
	return errors.Join(errs...)
}
