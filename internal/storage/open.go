package storage

import (
	"fmt"
	"os"

	"github.com/LeJamon/goSettle/internal/storage/database"
	"github.com/LeJamon/goSettle/internal/storage/database/leveldb"
	"github.com/LeJamon/goSettle/internal/storage/database/memory"
	"github.com/LeJamon/goSettle/internal/storage/database/pebble"
)

// Backend names accepted by NewManager
const (
	BackendMemory  = "memory"
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
)

// NewManager returns the database manager for the named backend. Disk
// backends create path if it does not exist.
func NewManager(backend, path string) (database.Manager, error) {
	switch backend {
	case BackendMemory, "":
		return memory.NewManager(), nil
	case BackendPebble, BackendLevelDB:
		if path == "" {
			return nil, fmt.Errorf("%s backend requires a storage path", backend)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage path %s: %w", path, err)
		}
		if backend == BackendPebble {
			return pebble.NewManager(path), nil
		}
		return leveldb.NewManager(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, backend)
	}
}
