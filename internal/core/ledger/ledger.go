// Package ledger is the account balance store the settlement engine runs
// against: free balances, total issuance, an existential deposit with dust
// removal, and atomic transactions over a database.DB.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/core/imbalance"
	"github.com/LeJamon/goSettle/internal/core/ledger/keylet"
	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/LeJamon/goSettle/internal/storage/database"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 1024

// Config holds ledger construction parameters.
type Config struct {
	// ExistentialDeposit is the minimum balance an account may hold. A
	// balance that drops below it is removed and the remainder burned.
	ExistentialDeposit XRPAmount.XRPAmount

	// CacheSize bounds the committed account cache
	CacheSize int

	// Sink receives events of committed transactions. May be nil.
	Sink events.Sink

	// Logger defaults to log.Default()
	Logger *log.Logger
}

// Ledger owns committed state. Transactions run one at a time.
type Ledger struct {
	// txMu serializes transactions
	txMu sync.Mutex

	// stateMu guards issuance and cache against concurrent readers
	stateMu  sync.RWMutex
	issuance XRPAmount.XRPAmount
	cache    *lru.Cache[crypto.AccountID, XRPAmount.XRPAmount]

	db                 database.DB
	existentialDeposit XRPAmount.XRPAmount
	sink               events.Sink
	logger             *log.Logger
}

// New opens a ledger over db, loading committed total issuance.
func New(ctx context.Context, db database.DB, cfg Config) (*Ledger, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	cache, err := lru.New[crypto.AccountID, XRPAmount.XRPAmount](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create account cache: %w", err)
	}

	l := &Ledger{
		cache:              cache,
		db:                 db,
		existentialDeposit: cfg.ExistentialDeposit,
		sink:               cfg.Sink,
		logger:             cfg.Logger,
	}

	data, err := db.Read(ctx, keylet.Issuance().StorageKey())
	switch {
	case errors.Is(err, database.ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load total issuance: %w", err)
	default:
		var rec issuanceRecord
		if err := decodeRecord(data, &rec); err != nil {
			return nil, err
		}
		l.issuance = rec.Total
	}

	return l, nil
}

// ExistentialDeposit returns the configured minimum account balance.
func (l *Ledger) ExistentialDeposit() XRPAmount.XRPAmount {
	return l.existentialDeposit
}

// TotalIssuance returns committed total supply.
func (l *Ledger) TotalIssuance() XRPAmount.XRPAmount {
	l.stateMu.RLock()
	defer l.stateMu.RUnlock()
	return l.issuance
}

// FreeBalance returns the committed balance of id, zero for an account that
// does not exist.
func (l *Ledger) FreeBalance(ctx context.Context, id crypto.AccountID) (XRPAmount.XRPAmount, error) {
	l.stateMu.RLock()
	defer l.stateMu.RUnlock()
	return l.readBalanceLocked(ctx, id)
}

func (l *Ledger) readBalanceLocked(ctx context.Context, id crypto.AccountID) (XRPAmount.XRPAmount, error) {
	if balance, ok := l.cache.Get(id); ok {
		return balance, nil
	}

	data, err := l.db.Read(ctx, keylet.Account(id).StorageKey())
	if errors.Is(err, database.ErrKeyNotFound) {
		l.cache.Add(id, 0)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read account %s: %w", id, err)
	}

	var root AccountRoot
	if err := decodeRecord(data, &root); err != nil {
		return 0, err
	}
	l.cache.Add(id, root.Balance)
	return root.Balance, nil
}

// Accounts returns every existing account in storage key order.
func (l *Ledger) Accounts(ctx context.Context) ([]AccountRoot, error) {
	l.stateMu.RLock()
	defer l.stateMu.RUnlock()

	start, end := keylet.TypeRange(keylet.TypeAccountRoot)
	iter, err := l.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	defer iter.Close()

	var roots []AccountRoot
	for iter.Next() {
		var root AccountRoot
		if err := decodeRecord(iter.Value(), &root); err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return roots, nil
}

// Audit checks that account balances sum to total issuance.
func (l *Ledger) Audit(ctx context.Context) error {
	roots, err := l.Accounts(ctx)
	if err != nil {
		return err
	}

	var sum XRPAmount.XRPAmount
	for _, root := range roots {
		if sum, err = sum.Add(root.Balance); err != nil {
			return fmt.Errorf("%w: %v", ErrSupplyMismatch, err)
		}
	}

	if issuance := l.TotalIssuance(); sum != issuance {
		return fmt.Errorf("%w: balances %s, issuance %s", ErrSupplyMismatch, sum, issuance)
	}
	return nil
}

// Transact runs fn against a fresh transaction. The transaction commits
// only if fn returns nil and every imbalance created in it was resolved;
// otherwise none of its balance changes or events survive.
func (l *Ledger) Transact(ctx context.Context, fn func(tx *Tx) error) error {
	l.txMu.Lock()
	defer l.txMu.Unlock()

	tx := l.begin()
	defer func() { tx.done = true }()

	if err := fn(tx); err != nil {
		tx.scope.Abandon()
		return err
	}

	if err := tx.scope.Close(); err != nil {
		l.logger.Printf("ledger: rejecting transaction: %v", err)
		return fmt.Errorf("transaction rejected: %w", err)
	}

	if err := l.commit(ctx, tx); err != nil {
		return err
	}

	if l.sink != nil && len(tx.events) > 0 {
		if err := l.sink.Publish(ctx, tx.events); err != nil {
			// State is already durable; the sink only observes it
			l.logger.Printf("ledger: failed to publish %d event(s): %v", len(tx.events), err)
		}
	}
	return nil
}

// Fund mints amount into account in its own transaction. Used for genesis
// balances and reserve top-ups.
func (l *Ledger) Fund(ctx context.Context, account crypto.AccountID, amount XRPAmount.XRPAmount) error {
	return l.Transact(ctx, func(tx *Tx) error {
		unapplied, err := tx.Mint(ctx, account, amount)
		if err != nil {
			return err
		}
		if unapplied != 0 {
			return fmt.Errorf("%w: cannot fund %s with %s drops", ErrExistentialDeposit, account, amount)
		}
		return nil
	})
}

func (l *Ledger) begin() *Tx {
	return &Tx{
		l:        l,
		balances: make(map[crypto.AccountID]XRPAmount.XRPAmount),
		issuance: l.TotalIssuance(),
		scope:    imbalance.NewScope(),
	}
}

func (l *Ledger) commit(ctx context.Context, tx *Tx) error {
	ops := make([]database.BatchOperation, 0, len(tx.balances)+1)
	for id, balance := range tx.balances {
		key := keylet.Account(id).StorageKey()
		if balance == 0 {
			ops = append(ops, database.BatchOperation{Type: database.BatchDelete, Key: key})
			continue
		}
		data, err := encodeRecord(AccountRoot{Account: id, Balance: balance})
		if err != nil {
			return err
		}
		ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: key, Value: data})
	}

	data, err := encodeRecord(issuanceRecord{Total: tx.issuance})
	if err != nil {
		return err
	}
	ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: keylet.Issuance().StorageKey(), Value: data})

	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if err := l.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	for id, balance := range tx.balances {
		l.cache.Add(id, balance)
	}
	l.issuance = tx.issuance
	return nil
}
