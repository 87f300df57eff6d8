package pebble_test

import (
	"testing"

	"github.com/LeJamon/goSettle/internal/storage/database/dbtest"
	"github.com/LeJamon/goSettle/internal/storage/database/pebble"
	"github.com/stretchr/testify/require"
)

func TestBackend(t *testing.T) {
	manager := pebble.NewManager(t.TempDir())
	defer func() {
		require.NoError(t, manager.Close())
	}()

	dbtest.Run(t, manager)
}
