package memory

import (
	"fmt"
	"sync"

	"github.com/LeJamon/goSettle/internal/storage/database"
)

// Manager hands out named in-memory databases. Data lives until CloseDB.
type Manager struct {
	mu  sync.Mutex
	dbs map[string]*DB
}

var _ database.Manager = (*Manager)(nil)

func NewManager() *Manager {
	return &Manager{dbs: make(map[string]*DB)}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.dbs[name]; ok {
		return db, nil
	}
	db := NewDB()
	m.dbs[name] = db
	return db, nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.dbs[name]
	if !ok {
		return fmt.Errorf("database %s not found", name)
	}
	db.close()
	delete(m.dbs, name)
	return nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, db := range m.dbs {
		db.close()
		delete(m.dbs, name)
	}
	return nil
}
