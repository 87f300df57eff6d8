package settlement

import (
	"context"
	"fmt"

	"github.com/LeJamon/goSettle/internal/core/imbalance"
	"github.com/LeJamon/goSettle/internal/crypto"
)

//go:generate mockgen -source=remainder.go -destination=mocks/mock_remainder.go -package=mocks

// RemainderHandler takes the part of a debit the reserve did not absorb. It
// must consume the debit before returning nil.
type RemainderHandler interface {
	OnRemainder(ctx context.Context, l Ledger, debit *imbalance.Debit) error
}

// RemainderFunc adapts a function to RemainderHandler.
type RemainderFunc func(ctx context.Context, l Ledger, debit *imbalance.Debit) error

func (f RemainderFunc) OnRemainder(ctx context.Context, l Ledger, debit *imbalance.Debit) error {
	return f(ctx, l, debit)
}

// BurnRemainder accepts the remainder as permanently removed from supply.
type BurnRemainder struct{}

func (BurnRemainder) OnRemainder(_ context.Context, _ Ledger, debit *imbalance.Debit) error {
	return debit.Resolve()
}

// TreasuryRemainder deposits the remainder into a treasury account.
type TreasuryRemainder struct {
	Treasury crypto.AccountID
}

func (t TreasuryRemainder) OnRemainder(ctx context.Context, l Ledger, debit *imbalance.Debit) error {
	unapplied, err := l.Mint(ctx, t.Treasury, debit.Amount())
	if err != nil {
		return fmt.Errorf("failed to deposit %s into treasury: %w", debit.Amount(), err)
	}
	if unapplied != 0 {
		return fmt.Errorf("%w: treasury deposit of %s drops", ErrMintRejected, debit.Amount())
	}
	return debit.Resolve()
}
