package storage

import (
	"errors"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Op is a single entry of an atomic batch write. A nil Value with Delete set
// removes the key.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Database is a generic key-value store. Both the in-memory backend used in
// tests and the persistent LevelDB backend satisfy it, as does the Overlay
// staging layer, so callers never need to know which one they hold.
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	// Write applies all ops as one atomic unit.
	Write(ops []Op) error
	Close()
}

// --- In-memory backend ---

type MemDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemDB() *MemDB {
	return &MemDB{data: make(map[string][]byte)}
}

func (db *MemDB) Put(key []byte, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (db *MemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (db *MemDB) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.data[string(key)]
	return ok, nil
}

func (db *MemDB) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.data, string(key))
	return nil
}

func (db *MemDB) Write(ops []Op) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, op := range ops {
		if op.Delete {
			delete(db.data, string(op.Key))
			continue
		}
		db.data[string(op.Key)] = append([]byte(nil), op.Value...)
	}
	return nil
}

// Close satisfies the Database interface for MemDB.
func (db *MemDB) Close() {}

// --- Persistent backend ---

// LevelDB is a persistent key-value store backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB creates or opens a LevelDB database at the given path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (ldb *LevelDB) Put(key []byte, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := ldb.db.Get(key, nil)
	if errors.Is(err, ldberrors.ErrNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// Write applies the batch through a LevelDB write batch so that the ops land
// atomically on disk.
func (ldb *LevelDB) Write(ops []Op) error {
	batch := new(leveldb.Batch)
	for _, op := range ops {
		if op.Delete {
			batch.Delete(op.Key)
			continue
		}
		batch.Put(op.Key, op.Value)
	}
	return ldb.db.Write(batch, nil)
}

func (ldb *LevelDB) Close() {
	ldb.db.Close()
}
