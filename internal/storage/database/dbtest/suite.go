// Package dbtest holds the behaviour every database.DB backend must share.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/goSettle/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a backend through the database.Manager it was opened with.
func Run(t *testing.T, manager database.Manager) {
	t.Helper()
	ctx := context.Background()

	t.Run("Read Write Delete", func(t *testing.T) {
		db, err := manager.OpenDB("basic")
		require.NoError(t, err)

		_, err = db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch Operations", func(t *testing.T) {
		db, err := manager.OpenDB("batch")
		require.NoError(t, err)

		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("batch1"), Value: []byte("value1")},
			{Type: database.BatchPut, Key: []byte("batch2"), Value: []byte("value2")},
			{Type: database.BatchDelete, Key: []byte("batch1")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		_, err = db.Read(ctx, []byte("batch1"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		value, err := db.Read(ctx, []byte("batch2"))
		require.NoError(t, err)
		assert.Equal(t, "value2", string(value))
	})

	t.Run("Iterator", func(t *testing.T) {
		db, err := manager.OpenDB("iterator")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			key := []byte(fmt.Sprintf("iter%d", i))
			require.NoError(t, db.Write(ctx, key, []byte(fmt.Sprintf("value%d", i))))
		}

		iter, err := db.Iterator(ctx, []byte("iter1"), []byte("iter4"))
		require.NoError(t, err)

		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
			assert.Equal(t, "value"+string(iter.Key()[4:]), string(iter.Value()))
		}
		require.NoError(t, iter.Error())
		require.NoError(t, iter.Close())

		assert.Equal(t, []string{"iter1", "iter2", "iter3"}, keys)
	})

	t.Run("Reopen returns same data", func(t *testing.T) {
		db, err := manager.OpenDB("reopen")
		require.NoError(t, err)
		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

		again, err := manager.OpenDB("reopen")
		require.NoError(t, err)
		got, err := again.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("CloseDB unknown", func(t *testing.T) {
		require.Error(t, manager.CloseDB("never-opened"))
	})
}
