package ledger

import (
	"context"
	"fmt"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/core/imbalance"
	"github.com/LeJamon/goSettle/internal/crypto"
)

// Existence selects what a debit may do to an account near the
// existential deposit.
type Existence int

const (
	// AllowDeath lets the debit reap the account, burning any dust
	AllowDeath Existence = iota

	// KeepAlive refuses a debit that would leave less than the existential
	// deposit
	KeepAlive
)

// Tx is an uncommitted view over the ledger. Writes stay in an overlay until
// Ledger.Transact commits them.
type Tx struct {
	l        *Ledger
	balances map[crypto.AccountID]XRPAmount.XRPAmount
	issuance XRPAmount.XRPAmount
	events   []events.Event
	scope    *imbalance.Scope
	done     bool
}

// Scope returns the imbalance scope tokens of this transaction belong to.
func (tx *Tx) Scope() *imbalance.Scope {
	return tx.scope
}

// TotalIssuance returns total supply as seen by this transaction.
func (tx *Tx) TotalIssuance() XRPAmount.XRPAmount {
	return tx.issuance
}

// ExistentialDeposit returns the ledger's minimum account balance.
func (tx *Tx) ExistentialDeposit() XRPAmount.XRPAmount {
	return tx.l.existentialDeposit
}

// Append buffers an event until commit.
func (tx *Tx) Append(ev events.Event) {
	if tx.done {
		return
	}
	tx.events = append(tx.events, ev)
}

// Events returns the events buffered so far.
func (tx *Tx) Events() []events.Event {
	return append([]events.Event(nil), tx.events...)
}

// FreeBalance returns the balance of id as seen by this transaction.
func (tx *Tx) FreeBalance(ctx context.Context, id crypto.AccountID) (XRPAmount.XRPAmount, error) {
	if tx.done {
		return 0, ErrTxDone
	}
	if balance, ok := tx.balances[id]; ok {
		return balance, nil
	}
	return tx.l.FreeBalance(ctx, id)
}

// Transfer moves amount from one account to another.
func (tx *Tx) Transfer(ctx context.Context, from, to crypto.AccountID, amount XRPAmount.XRPAmount, existence Existence) error {
	if tx.done {
		return ErrTxDone
	}
	if amount == 0 || from == to {
		return nil
	}

	fromBalance, err := tx.FreeBalance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, from, fromBalance, amount)
	}

	remaining := fromBalance - amount
	if existence == KeepAlive && remaining < tx.l.existentialDeposit {
		return fmt.Errorf("%w: %s would keep %s", ErrKeepAlive, from, remaining)
	}

	toBalance, err := tx.FreeBalance(ctx, to)
	if err != nil {
		return err
	}
	if toBalance == 0 && amount < tx.l.existentialDeposit {
		return fmt.Errorf("%w: cannot create %s with %s", ErrExistentialDeposit, to, amount)
	}
	newTo, err := toBalance.Add(amount)
	if err != nil {
		return err
	}

	tx.balances[to] = newTo
	tx.setBalance(from, remaining)
	return nil
}

// Mint creates amount of new supply in account to. An account that does not
// exist is only created when amount reaches the existential deposit;
// otherwise nothing is applied and the whole amount is returned unapplied.
func (tx *Tx) Mint(ctx context.Context, to crypto.AccountID, amount XRPAmount.XRPAmount) (XRPAmount.XRPAmount, error) {
	if tx.done {
		return amount, ErrTxDone
	}
	if amount == 0 {
		return 0, nil
	}

	balance, err := tx.FreeBalance(ctx, to)
	if err != nil {
		return amount, err
	}
	if balance == 0 && amount < tx.l.existentialDeposit {
		return amount, nil
	}

	newBalance, err := balance.Add(amount)
	if err != nil {
		return amount, err
	}
	issuance, err := tx.issuance.Add(amount)
	if err != nil {
		return amount, err
	}

	tx.balances[to] = newBalance
	tx.issuance = issuance
	return 0, nil
}

// Burn destroys up to amount from account from and returns the part that
// could not be burned because the balance was short.
func (tx *Tx) Burn(ctx context.Context, from crypto.AccountID, amount XRPAmount.XRPAmount) (XRPAmount.XRPAmount, error) {
	if tx.done {
		return amount, ErrTxDone
	}
	burned, err := tx.remove(ctx, from, amount)
	if err != nil {
		return amount, err
	}
	return amount - burned, nil
}

// Slash removes up to amount from account from and returns the removed
// value as a debit the caller must dispose of. Total issuance drops with the
// balance.
func (tx *Tx) Slash(ctx context.Context, from crypto.AccountID, amount XRPAmount.XRPAmount) (*imbalance.Debit, error) {
	if tx.done {
		return nil, ErrTxDone
	}
	removed, err := tx.remove(ctx, from, amount)
	if err != nil {
		return nil, err
	}
	return tx.scope.Debit(from, removed), nil
}

// remove takes min(amount, balance) out of account and out of issuance.
func (tx *Tx) remove(ctx context.Context, account crypto.AccountID, amount XRPAmount.XRPAmount) (XRPAmount.XRPAmount, error) {
	if amount == 0 {
		return 0, nil
	}
	balance, err := tx.FreeBalance(ctx, account)
	if err != nil {
		return 0, err
	}

	removed := amount.Min(balance)
	issuance, err := tx.issuance.Sub(removed)
	if err != nil {
		return 0, err
	}
	tx.issuance = issuance
	tx.setBalance(account, balance-removed)
	return removed, nil
}

// setBalance writes balance for account, reaping it and burning the dust
// when it falls below the existential deposit.
func (tx *Tx) setBalance(account crypto.AccountID, balance XRPAmount.XRPAmount) {
	if balance != 0 && balance < tx.l.existentialDeposit {
		tx.issuance = tx.issuance.SaturatingSub(balance)
		events.Emitter{}.Emit(tx, events.KindDustLost, account, balance)
		balance = 0
	}
	tx.balances[account] = balance
}
