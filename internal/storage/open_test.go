package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goSettle/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{BackendMemory, BackendPebble, BackendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			manager, err := NewManager(backend, filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)
			defer manager.Close()

			db, err := manager.OpenDB("ledger")
			require.NoError(t, err)
			require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

			got, err := db.Read(ctx, []byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)
		})
	}

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewManager("bbolt", t.TempDir())
		require.ErrorIs(t, err, database.ErrUnknownBackend)
	})

	t.Run("disk backend without path", func(t *testing.T) {
		_, err := NewManager(BackendPebble, "")
		require.Error(t, err)
	})
}
