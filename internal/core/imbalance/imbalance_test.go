package imbalance

import (
	"testing"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = crypto.CalcAccountID([]byte("alice"))

func TestResolvedCreditClosesScope(t *testing.T) {
	scope := NewScope()
	credit := scope.Credit(alice, 50)

	assert.Equal(t, XRPAmount.XRPAmount(50), credit.Amount())
	assert.Equal(t, alice, credit.Beneficiary())

	require.NoError(t, credit.Resolve())
	require.NoError(t, scope.Close())
}

func TestUnresolvedTokenFailsClose(t *testing.T) {
	scope := NewScope()
	scope.Credit(alice, 50)
	scope.Debit(alice, 7)

	credit, debit := scope.Outstanding()
	assert.Equal(t, XRPAmount.XRPAmount(50), credit)
	assert.Equal(t, XRPAmount.XRPAmount(7), debit)

	err := scope.Close()
	require.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), "2 token(s) open")
}

func TestSplitPortionsMustBothBeConsumed(t *testing.T) {
	scope := NewScope()
	credit := scope.Credit(alice, 50)

	fromPool, minted, err := credit.Split(20)
	require.NoError(t, err)
	assert.Equal(t, XRPAmount.XRPAmount(20), fromPool.Amount())
	assert.Equal(t, XRPAmount.XRPAmount(30), minted.Amount())
	assert.Equal(t, alice, minted.Beneficiary())

	// The original is gone once split
	require.ErrorIs(t, credit.Resolve(), ErrConsumed)

	require.NoError(t, fromPool.Resolve())
	require.ErrorIs(t, scope.Close(), ErrUnresolved)
}

func TestSplitPortionsResolveInFull(t *testing.T) {
	scope := NewScope()
	debit := scope.Debit(alice, 40)

	absorbed, remainder, err := debit.Split(15)
	require.NoError(t, err)
	assert.Equal(t, XRPAmount.XRPAmount(15), absorbed.Amount())
	assert.Equal(t, XRPAmount.XRPAmount(25), remainder.Amount())

	require.NoError(t, absorbed.Resolve())
	require.NoError(t, remainder.Resolve())
	require.NoError(t, scope.Close())
}

func TestSplitSaturates(t *testing.T) {
	scope := NewScope()
	credit := scope.Credit(alice, 10)

	all, rest, err := credit.Split(100)
	require.NoError(t, err)
	assert.Equal(t, XRPAmount.XRPAmount(10), all.Amount())
	assert.True(t, rest.Amount().IsZero())

	require.NoError(t, all.Resolve())
	// Zero portions are still owned and must be discarded explicitly
	require.ErrorIs(t, scope.Close(), ErrUnresolved)
}

func TestDiscard(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		scope := NewScope()
		require.NoError(t, scope.Credit(alice, 0).Discard())
		require.NoError(t, scope.Debit(alice, 0).Discard())
		require.NoError(t, scope.Close())
	})

	t.Run("non-zero value is refused", func(t *testing.T) {
		scope := NewScope()
		credit := scope.Credit(alice, 1)
		require.ErrorIs(t, credit.Discard(), ErrNonZeroDiscard)

		// The refused discard leaves the token usable
		require.NoError(t, credit.Resolve())
		require.NoError(t, scope.Close())
	})

	t.Run("double consume", func(t *testing.T) {
		scope := NewScope()
		debit := scope.Debit(alice, 0)
		require.NoError(t, debit.Discard())
		require.ErrorIs(t, debit.Discard(), ErrConsumed)
		require.ErrorIs(t, debit.Resolve(), ErrConsumed)
		_, _, err := debit.Split(0)
		require.ErrorIs(t, err, ErrConsumed)
	})
}

func TestAbandon(t *testing.T) {
	scope := NewScope()
	scope.Credit(alice, 99)
	scope.Abandon()

	credit, debit := scope.Outstanding()
	assert.True(t, credit.IsZero())
	assert.True(t, debit.IsZero())

	assert.Panics(t, func() { scope.Credit(alice, 1) })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "credit", KindCredit.String())
	assert.Equal(t, "debit", KindDebit.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestOwner(t *testing.T) {
	scope := NewScope()
	other := NewScope()

	credit := scope.Credit(alice, 10)
	assert.Same(t, scope, credit.Owner())
	assert.NotSame(t, other, credit.Owner())

	first, rest, err := credit.Split(4)
	require.NoError(t, err)
	assert.Same(t, scope, first.Owner())
	assert.Same(t, scope, rest.Owner())

	debit := other.Debit(alice, 3)
	assert.Same(t, other, debit.Owner())

	require.NoError(t, first.Resolve())
	require.NoError(t, rest.Resolve())
	require.NoError(t, debit.Resolve())
	require.NoError(t, scope.Close())
	require.NoError(t, other.Close())
}
