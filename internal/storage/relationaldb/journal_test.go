package relationaldb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goSettle/internal/core/events"
	"github.com/LeJamon/goSettle/internal/crypto"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	cfg := NewConfig(DriverSQLite, filepath.Join(t.TempDir(), "journal.db"))
	j, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalPublishAndList(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	j.now = func() time.Time { return time.Unix(1700000000, 0) }

	validator := crypto.CalcAccountID([]byte("validator"))
	pool := crypto.CalcAccountID([]byte("pool"))
	evs := []events.Event{
		{ID: uuid.New(), Kind: events.KindRewardFromPool, Account: validator, Amount: 20},
		{ID: uuid.New(), Kind: events.KindRewardMinted, Account: validator, Amount: 30},
		{Kind: events.KindBurnedFromPool, Account: pool, Amount: 15},
	}
	require.NoError(t, j.Publish(ctx, evs))
	require.NoError(t, j.Publish(ctx, nil))

	entries, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, evs[0], entries[0].Event)
	assert.Equal(t, evs[1], entries[1].Event)
	assert.NotEqual(t, uuid.Nil, entries[2].Event.ID)
	assert.Equal(t, pool, entries[2].Event.Account)
	assert.Less(t, entries[0].Seq, entries[1].Seq)
	assert.Equal(t, int64(1700000000), entries[0].RecordedAt.Unix())
	assert.NotEmpty(t, entries[0].Address)

	limited, err := j.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = j.List(ctx, -1)
	require.ErrorIs(t, err, ErrInvalidLimit)

	totals, err := j.Totals(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 20, totals[events.KindRewardFromPool])
	assert.EqualValues(t, 30, totals[events.KindRewardMinted])
	assert.EqualValues(t, 15, totals[events.KindBurnedFromPool])
}

func TestJournalDuplicateIDRollsBackBatch(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	id := uuid.New()
	require.NoError(t, j.Publish(ctx, []events.Event{{ID: id, Kind: events.KindRewardMinted, Amount: 1}}))

	err := j.Publish(ctx, []events.Event{
		{ID: uuid.New(), Kind: events.KindRewardMinted, Amount: 2},
		{ID: id, Kind: events.KindRewardMinted, Amount: 3},
	})
	require.Error(t, err)

	var dbErr *DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "publish", dbErr.Op)

	entries, err := j.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournalClosed(t *testing.T) {
	j := openTestJournal(t)
	require.NoError(t, j.Close())

	require.ErrorIs(t, j.Publish(context.Background(), []events.Event{{Amount: 1}}), ErrDatabaseClosed)
	_, err := j.List(context.Background(), 0)
	require.ErrorIs(t, err, ErrDatabaseClosed)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad driver", mutate: func(c *Config) { c.Driver = "mysql" }, wantErr: ErrInvalidDriver},
		{name: "missing dsn", mutate: func(c *Config) { c.DSN = "" }, wantErr: ErrMissingDSN},
		{name: "idle exceeds open", mutate: func(c *Config) { c.MaxIdleConns = 10 }, wantErr: ErrMaxIdleExceedsMaxOpen},
		{name: "zero timeout", mutate: func(c *Config) { c.DefaultTimeout = 0 }, wantErr: ErrInvalidTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig(DriverSQLite, "journal.db")
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &Journal{driver: DriverPostgres}
	assert.Equal(t, "SELECT $1, $2", pg.rebind("SELECT ?, ?"))

	lite := &Journal{driver: DriverSQLite}
	assert.Equal(t, "SELECT ?, ?", lite.rebind("SELECT ?, ?"))
}
