package badger

import (
	"context"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/mwantia/hostfs/backend"
)

// Object keys are stored below this prefix to leave room for bookkeeping keys.
const objectPrefix = "obj/"

const (
	metaFile   byte = 0
	metaFolder byte = 1
)

// BadgerBackend stores objects in an embedded BadgerDB key-value store.
//
// Every object is one entry whose value is the file content. Folders are empty
// entries marked through the entry's user meta byte.
type BadgerBackend struct {
	mu   sync.RWMutex
	db   *badgerdb.DB
	path string
}

// NewBadgerBackend creates a backend for the database directory at path.
// The path ":memory:" keeps everything in memory. The database is opened by Open.
func NewBadgerBackend(path string) (*BadgerBackend, error) {
	return &BadgerBackend{
		path: path,
	}, nil
}

func (*BadgerBackend) Name() string {
	return "badger"
}

func (bb *BadgerBackend) Open(ctx context.Context) error {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	if bb.db != nil {
		return nil
	}

	opts := badgerdb.DefaultOptions(bb.path)
	if bb.path == ":memory:" {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return err
	}

	bb.db = db
	return nil
}

func (bb *BadgerBackend) Close(ctx context.Context) error {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	if bb.db == nil {
		return nil
	}

	err := bb.db.Close()
	bb.db = nil
	return err
}

func (bb *BadgerBackend) GetCapabilities() *backend.BackendCapabilities {
	capabilities := []backend.BackendCapability{
		backend.CapabilityObjectStorage,
		backend.CapabilityRecursiveDelete,
	}
	if bb.path != ":memory:" {
		capabilities = append(capabilities, backend.CapabilityPersistent)
	}

	return &backend.BackendCapabilities{
		Capabilities: capabilities,
	}
}

func buildKey(key string) []byte {
	return []byte(objectPrefix + key)
}

// childPrefix returns the prefix shared by all descendants of key.
func childPrefix(key string) []byte {
	if key == "" {
		return []byte(objectPrefix)
	}
	return []byte(objectPrefix + key + "/")
}
