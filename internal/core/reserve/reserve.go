// Package reserve derives the module-owned reserve account and reads its
// balance.
package reserve

import (
	"context"
	"errors"
	"fmt"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/crypto"
)

// accountPrefix separates module-derived account IDs from key-derived ones.
var accountPrefix = []byte("modl")

// ErrEmptyModuleID is returned when parsing an empty module identifier.
var ErrEmptyModuleID = errors.New("module identifier is empty")

// ModuleID names the module that owns a reserve account.
type ModuleID string

// ParseModuleID validates a configured module identifier.
func ParseModuleID(s string) (ModuleID, error) {
	if s == "" {
		return "", ErrEmptyModuleID
	}
	return ModuleID(s), nil
}

// AccountID derives the account owned by module. It depends only on module.
func AccountID(module ModuleID) crypto.AccountID {
	return crypto.CalcAccountID(accountPrefix, []byte(module))
}

// BalanceReader is the slice of the ledger the resolver needs.
type BalanceReader interface {
	FreeBalance(ctx context.Context, id crypto.AccountID) (XRPAmount.XRPAmount, error)
}

// Resolver answers questions about one module's reserve account.
type Resolver struct {
	module  ModuleID
	account crypto.AccountID
}

// NewResolver returns a resolver for module's reserve account.
func NewResolver(module ModuleID) *Resolver {
	return &Resolver{module: module, account: AccountID(module)}
}

// Module returns the module that owns the reserve.
func (r *Resolver) Module() ModuleID {
	return r.module
}

// AccountID returns the reserve account.
func (r *Resolver) AccountID() crypto.AccountID {
	return r.account
}

// Address renders the reserve account as a classic address.
func (r *Resolver) Address() (string, error) {
	addr, err := addresscodec.EncodeAccountIDToClassicAddress(r.account[:])
	if err != nil {
		return "", fmt.Errorf("failed to encode reserve account: %w", err)
	}
	return addr, nil
}

// Balance reads the reserve's free balance. A reserve that was never funded
// has a zero balance.
func (r *Resolver) Balance(ctx context.Context, reader BalanceReader) (XRPAmount.XRPAmount, error) {
	balance, err := reader.FreeBalance(ctx, r.account)
	if err != nil {
		return 0, fmt.Errorf("failed to read reserve balance: %w", err)
	}
	return balance, nil
}
