package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/core/imbalance"
	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/LeJamon/goSettle/internal/storage/database/memory"
	"github.com/LeJamon/goSettle/internal/storage/database/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = crypto.CalcAccountID([]byte("alice"))
	bob   = crypto.CalcAccountID([]byte("bob"))
)

func newTestLedger(t *testing.T, ed XRPAmount.XRPAmount) (*Ledger, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	l, err := New(context.Background(), memory.NewDB(), Config{ExistentialDeposit: ed, Sink: rec})
	require.NoError(t, err)
	return l, rec
}

func balanceOf(t *testing.T, l *Ledger, id crypto.AccountID) XRPAmount.XRPAmount {
	t.Helper()
	b, err := l.FreeBalance(context.Background(), id)
	require.NoError(t, err)
	return b
}

func TestFund(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, 10)

	require.NoError(t, l.Fund(ctx, alice, 100))
	assert.EqualValues(t, 100, balanceOf(t, l, alice))
	assert.EqualValues(t, 100, l.TotalIssuance())
	require.NoError(t, l.Audit(ctx))

	err := l.Fund(ctx, bob, 5)
	require.ErrorIs(t, err, ErrExistentialDeposit)
	assert.EqualValues(t, 0, balanceOf(t, l, bob))
	assert.EqualValues(t, 100, l.TotalIssuance())
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		amount      XRPAmount.XRPAmount
		existence   Existence
		wantErr     error
		wantAlice   XRPAmount.XRPAmount
		wantBob     XRPAmount.XRPAmount
		wantSupply  XRPAmount.XRPAmount
		wantDustEvt bool
	}{
		{name: "plain", amount: 40, wantAlice: 60, wantBob: 40, wantSupply: 100},
		{name: "drain to zero", amount: 100, wantAlice: 0, wantBob: 100, wantSupply: 100},
		{name: "insufficient", amount: 101, wantErr: ErrInsufficientBalance, wantAlice: 100, wantSupply: 100},
		{name: "below existential deposit for new account", amount: 5, wantErr: ErrExistentialDeposit, wantAlice: 100, wantSupply: 100},
		{name: "keep alive refuses reaping", amount: 95, existence: KeepAlive, wantErr: ErrKeepAlive, wantAlice: 100, wantSupply: 100},
		{name: "allow death burns dust", amount: 95, wantAlice: 0, wantBob: 95, wantSupply: 95, wantDustEvt: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, rec := newTestLedger(t, 10)
			require.NoError(t, l.Fund(ctx, alice, 100))

			err := l.Transact(ctx, func(tx *Tx) error {
				return tx.Transfer(ctx, alice, bob, tc.amount, tc.existence)
			})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantAlice, balanceOf(t, l, alice))
			assert.Equal(t, tc.wantBob, balanceOf(t, l, bob))
			assert.Equal(t, tc.wantSupply, l.TotalIssuance())
			assert.Equal(t, tc.wantDustEvt, rec.Total(events.KindDustLost) == 5)
			require.NoError(t, l.Audit(ctx))
		})
	}
}

func TestMint(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, 10)

	err := l.Transact(ctx, func(tx *Tx) error {
		unapplied, err := tx.Mint(ctx, alice, 3)
		require.NoError(t, err)
		assert.EqualValues(t, 3, unapplied)

		unapplied, err = tx.Mint(ctx, alice, 30)
		require.NoError(t, err)
		assert.EqualValues(t, 0, unapplied)

		// Existing accounts accept amounts below the existential deposit
		unapplied, err = tx.Mint(ctx, alice, 3)
		require.NoError(t, err)
		assert.EqualValues(t, 0, unapplied)
		assert.EqualValues(t, 33, tx.TotalIssuance())
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 33, balanceOf(t, l, alice))
}

func TestBurn(t *testing.T) {
	ctx := context.Background()
	l, rec := newTestLedger(t, 10)
	require.NoError(t, l.Fund(ctx, alice, 100))

	err := l.Transact(ctx, func(tx *Tx) error {
		unburned, err := tx.Burn(ctx, alice, 30)
		require.NoError(t, err)
		assert.EqualValues(t, 0, unburned)

		unburned, err = tx.Burn(ctx, alice, 80)
		require.NoError(t, err)
		assert.EqualValues(t, 10, unburned)
		return nil
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, balanceOf(t, l, alice))
	assert.EqualValues(t, 0, l.TotalIssuance())
	assert.Empty(t, rec.Events())
	require.NoError(t, l.Audit(ctx))
}

func TestSlashDebitMustBeResolved(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, 10)
	require.NoError(t, l.Fund(ctx, alice, 100))

	t.Run("dropped debit rolls the transaction back", func(t *testing.T) {
		err := l.Transact(ctx, func(tx *Tx) error {
			debit, err := tx.Slash(ctx, alice, 40)
			require.NoError(t, err)
			assert.EqualValues(t, 40, debit.Amount())
			return nil
		})
		require.ErrorIs(t, err, imbalance.ErrUnresolved)
		assert.EqualValues(t, 100, balanceOf(t, l, alice))
		assert.EqualValues(t, 100, l.TotalIssuance())
	})

	t.Run("resolved debit commits", func(t *testing.T) {
		err := l.Transact(ctx, func(tx *Tx) error {
			debit, err := tx.Slash(ctx, alice, 40)
			if err != nil {
				return err
			}
			return debit.Resolve()
		})
		require.NoError(t, err)
		assert.EqualValues(t, 60, balanceOf(t, l, alice))
		assert.EqualValues(t, 60, l.TotalIssuance())
		require.NoError(t, l.Audit(ctx))
	})

	t.Run("slash is capped by balance", func(t *testing.T) {
		err := l.Transact(ctx, func(tx *Tx) error {
			debit, err := tx.Slash(ctx, alice, 1000)
			if err != nil {
				return err
			}
			assert.EqualValues(t, 60, debit.Amount())
			return debit.Resolve()
		})
		require.NoError(t, err)
		assert.EqualValues(t, 0, balanceOf(t, l, alice))
	})
}

func TestFailedTransactionLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	l, rec := newTestLedger(t, 10)
	require.NoError(t, l.Fund(ctx, alice, 100))

	boom := errors.New("boom")
	var leaked *Tx
	err := l.Transact(ctx, func(tx *Tx) error {
		leaked = tx
		require.NoError(t, tx.Transfer(ctx, alice, bob, 95, AllowDeath))
		assert.Len(t, tx.Events(), 1)
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.EqualValues(t, 100, balanceOf(t, l, alice))
	assert.EqualValues(t, 0, balanceOf(t, l, bob))
	assert.Empty(t, rec.Events())

	_, err = leaked.FreeBalance(ctx, alice)
	require.ErrorIs(t, err, ErrTxDone)
	require.ErrorIs(t, leaked.Transfer(ctx, alice, bob, 1, AllowDeath), ErrTxDone)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, 1)
	require.NoError(t, l.Fund(ctx, alice, 10))
	require.NoError(t, l.Fund(ctx, bob, 20))

	roots, err := l.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	byAccount := map[crypto.AccountID]XRPAmount.XRPAmount{}
	for _, r := range roots {
		byAccount[r.Account] = r.Balance
	}
	assert.EqualValues(t, 10, byAccount[alice])
	assert.EqualValues(t, 20, byAccount[bob])
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	manager := pebble.NewManager(t.TempDir())
	defer manager.Close()

	db, err := manager.OpenDB("ledger")
	require.NoError(t, err)

	l, err := New(ctx, db, Config{ExistentialDeposit: 1})
	require.NoError(t, err)
	require.NoError(t, l.Fund(ctx, alice, 70))
	require.NoError(t, l.Transact(ctx, func(tx *Tx) error {
		return tx.Transfer(ctx, alice, bob, 70, AllowDeath)
	}))

	reopened, err := New(ctx, db, Config{ExistentialDeposit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 70, reopened.TotalIssuance())
	assert.EqualValues(t, 0, balanceOf(t, reopened, alice))
	assert.EqualValues(t, 70, balanceOf(t, reopened, bob))
	require.NoError(t, reopened.Audit(ctx))
}
