// Package settlement resolves reward credits and burn debits against a
// module-owned reserve account.
//
// A credit is paid out of the reserve first and minted only for the part the
// reserve cannot cover. A debit is absorbed by burning reserve funds first;
// whatever the reserve cannot absorb goes to a RemainderHandler. Either way
// every drop of the token is applied exactly once, and a failure anywhere
// aborts the enclosing ledger transaction as a whole.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/core/imbalance"
	"github.com/LeJamon/goSettle/internal/core/ledger"
	"github.com/LeJamon/goSettle/internal/core/reserve"
	"github.com/LeJamon/goSettle/internal/crypto"
)

var (
	// ErrMintRejected is returned when the ledger refuses to mint a reward
	// portion, e.g. into a new account below the existential deposit
	ErrMintRejected = errors.New("ledger refused to mint reward")

	// ErrBurnShortfall is returned when the reserve could not burn the
	// amount it was found to hold
	ErrBurnShortfall = errors.New("reserve burn fell short")

	// ErrForeignToken is returned for a token that does not belong to the
	// transaction it is settled in
	ErrForeignToken = errors.New("imbalance belongs to another scope")
)

// Ledger is the set of primitives settlement needs from an open ledger
// transaction. *ledger.Tx implements it. Tokens passed to the engine must
// come from Scope so that committing the transaction checks them.
type Ledger interface {
	Scope() *imbalance.Scope
	FreeBalance(ctx context.Context, id crypto.AccountID) (XRPAmount.XRPAmount, error)
	Transfer(ctx context.Context, from, to crypto.AccountID, amount XRPAmount.XRPAmount, existence ledger.Existence) error
	Mint(ctx context.Context, to crypto.AccountID, amount XRPAmount.XRPAmount) (XRPAmount.XRPAmount, error)
	Burn(ctx context.Context, from crypto.AccountID, amount XRPAmount.XRPAmount) (XRPAmount.XRPAmount, error)
	events.Log
}

var _ Ledger = (*ledger.Tx)(nil)

// Config configures an Engine.
type Config struct {
	// Module owns the reserve account
	Module reserve.ModuleID

	// Remainder disposes of debit value the reserve cannot absorb.
	// Defaults to BurnRemainder.
	Remainder RemainderHandler

	// Logger defaults to log.Default()
	Logger *log.Logger
}

// Engine settles imbalances against one reserve account. It keeps no state
// between calls.
type Engine struct {
	reserve   *reserve.Resolver
	remainder RemainderHandler
	emitter   events.Emitter
	logger    *log.Logger
}

// NewEngine returns an engine for cfg.Module's reserve. The module is
// required.
func NewEngine(cfg Config) (*Engine, error) {
	module, err := reserve.ParseModuleID(string(cfg.Module))
	if err != nil {
		return nil, err
	}
	if cfg.Remainder == nil {
		cfg.Remainder = BurnRemainder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Engine{
		reserve:   reserve.NewResolver(module),
		remainder: cfg.Remainder,
		logger:    cfg.Logger,
	}, nil
}

// Reserve returns the resolver for the engine's reserve account.
func (e *Engine) Reserve() *reserve.Resolver {
	return e.reserve
}

// SettlePositive pays credit to its beneficiary, from the reserve as far as
// its balance goes and by minting the rest.
func (e *Engine) SettlePositive(ctx context.Context, l Ledger, credit *imbalance.Credit) error {
	if credit.Owner() != l.Scope() {
		return fmt.Errorf("%w: credit of %s to %s", ErrForeignToken, credit.Amount(), credit.Beneficiary())
	}
	if credit.Amount().IsZero() {
		return credit.Discard()
	}

	balance, err := e.reserve.Balance(ctx, l)
	if err != nil {
		return err
	}
	split := ComputeSplit(credit.Amount(), balance)

	fromPool, minted, err := credit.Split(split.Withdraw)
	if err != nil {
		return err
	}

	pay := func() error { return e.payFromPool(ctx, l, fromPool) }
	mint := func() error { return e.mint(ctx, l, minted) }

	// The larger portion goes first so that it is the one creating a
	// beneficiary account that does not exist yet.
	steps := []func() error{pay, mint}
	if split.Remainder > split.Withdraw {
		steps = []func() error{mint, pay}
	}
	for _, step := range steps {
		if err := step(); err != nil {
			e.logger.Printf("settlement: credit of %s to %s failed: %v", split.Total(), credit.Beneficiary(), err)
			return err
		}
	}
	return nil
}

func (e *Engine) payFromPool(ctx context.Context, l Ledger, portion *imbalance.Credit) error {
	if portion.Amount().IsZero() {
		return portion.Discard()
	}
	if err := l.Transfer(ctx, e.reserve.AccountID(), portion.Beneficiary(), portion.Amount(), ledger.AllowDeath); err != nil {
		return fmt.Errorf("failed to pay %s from reserve: %w", portion.Amount(), err)
	}
	if err := portion.Resolve(); err != nil {
		return err
	}
	e.emitter.Emit(l, events.KindRewardFromPool, portion.Beneficiary(), portion.Amount())
	return nil
}

func (e *Engine) mint(ctx context.Context, l Ledger, portion *imbalance.Credit) error {
	if portion.Amount().IsZero() {
		return portion.Discard()
	}
	unapplied, err := l.Mint(ctx, portion.Beneficiary(), portion.Amount())
	if err != nil {
		return fmt.Errorf("failed to mint %s: %w", portion.Amount(), err)
	}
	if unapplied != 0 {
		return fmt.Errorf("%w: %s of %s drops unapplied", ErrMintRejected, unapplied, portion.Amount())
	}
	if err := portion.Resolve(); err != nil {
		return err
	}
	e.emitter.Emit(l, events.KindRewardMinted, portion.Beneficiary(), portion.Amount())
	return nil
}

// SettleNegative absorbs debit by burning reserve funds as far as the
// reserve balance goes and hands the rest to the remainder handler.
func (e *Engine) SettleNegative(ctx context.Context, l Ledger, debit *imbalance.Debit) error {
	if debit.Owner() != l.Scope() {
		return fmt.Errorf("%w: debit of %s from %s", ErrForeignToken, debit.Amount(), debit.Source())
	}
	if debit.Amount().IsZero() {
		return debit.Discard()
	}

	balance, err := e.reserve.Balance(ctx, l)
	if err != nil {
		return err
	}
	split := ComputeSplit(debit.Amount(), balance)

	absorbed, remainder, err := debit.Split(split.Withdraw)
	if err != nil {
		return err
	}

	if err := e.absorb(ctx, l, absorbed); err != nil {
		e.logger.Printf("settlement: debit of %s from %s failed: %v", split.Total(), debit.Source(), err)
		return err
	}

	if remainder.Amount().IsZero() {
		return remainder.Discard()
	}
	if err := e.remainder.OnRemainder(ctx, l, remainder); err != nil {
		e.logger.Printf("settlement: remainder handler failed for %s drops: %v", remainder.Amount(), err)
		return fmt.Errorf("remainder handler: %w", err)
	}
	return nil
}

func (e *Engine) absorb(ctx context.Context, l Ledger, portion *imbalance.Debit) error {
	if portion.Amount().IsZero() {
		return portion.Discard()
	}
	unburned, err := l.Burn(ctx, e.reserve.AccountID(), portion.Amount())
	if err != nil {
		return fmt.Errorf("failed to burn %s from reserve: %w", portion.Amount(), err)
	}
	if unburned != 0 {
		return fmt.Errorf("%w: %s of %s drops", ErrBurnShortfall, unburned, portion.Amount())
	}
	if err := portion.Resolve(); err != nil {
		return err
	}
	e.emitter.Emit(l, events.KindBurnedFromPool, e.reserve.AccountID(), portion.Amount())
	return nil
}
