package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goSettle/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// DB adapts a goleveldb handle to database.DB.
type DB struct {
	db *leveldb.DB
}

func NewDB(db *leveldb.DB) *DB {
	return &DB{db: db}
}

var syncWrites = &opt.WriteOptions{Sync: true}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	if err != nil {
		return nil, translate(err)
	}
	return val, nil
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	return translate(l.db.Put(key, value, syncWrites))
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	return translate(l.db.Delete(key, syncWrites))
}

func (l *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			batch.Put(op.Key, op.Value)
		case database.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}
	return translate(l.db.Write(batch, syncWrites))
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	iter := l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	if err := iter.Error(); err != nil {
		iter.Release()
		return nil, translate(err)
	}
	return &Iterator{iter: iter}, nil
}

// Iterator copies keys and values out of the leveldb iterator, whose
// buffers are only valid until the next call.
type Iterator struct {
	iter  iterator.Iterator
	key   []byte
	value []byte
}

func (it *Iterator) Next() bool {
	if !it.iter.Next() {
		return false
	}
	it.key = append([]byte(nil), it.iter.Key()...)
	it.value = append([]byte(nil), it.iter.Value()...)
	return true
}

func (it *Iterator) Key() []byte   { return it.key }
func (it *Iterator) Value() []byte { return it.value }

func (it *Iterator) Error() error {
	return translate(it.iter.Error())
}

func (it *Iterator) Close() error {
	it.iter.Release()
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, leveldb.ErrNotFound):
		return database.ErrKeyNotFound
	case errors.Is(err, leveldb.ErrClosed):
		return database.ErrDBClosed
	default:
		return err
	}
}
