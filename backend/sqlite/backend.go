package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteBackend stores objects in a single SQLite table.
//
// Layer 1: In-memory B-tree for fast key → type lookups (keys map)
// Layer 2: SQLite table (hostfs_objects) holding stat columns and content
//
// The B-tree is rebuilt from the table on Open, so existence checks and
// folder listings never hit the database.
type SQLiteBackend struct {
	mu sync.RWMutex
	db *sql.DB

	// In-memory B-tree for fast key lookups
	keys *btree.Map[string, data.FileType]
}

// NewSQLiteBackend creates a new SQLite-backed object storage.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Every pooled connection to ":memory:" would open its own database
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		// Enable WAL mode for better concurrency
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}

	sb := &SQLiteBackend{
		db:   db,
		keys: btree.NewMap[string, data.FileType](0),
	}

	if err := sb.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return sb, nil
}

// initSchema creates the database schema.
func (sb *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS hostfs_objects (
		key TEXT PRIMARY KEY,
		parent TEXT NOT NULL,
		type INTEGER NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		create_time INTEGER NOT NULL,
		modify_time INTEGER NOT NULL,
		content_type TEXT,
		content BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_hostfs_objects_parent ON hostfs_objects(parent);
	`

	_, err := sb.db.Exec(schema)
	return err
}

// Returns the identifier name defined for this backend
func (*SQLiteBackend) Name() string {
	return "sqlite"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (sb *SQLiteBackend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	// Verify database connection
	if err := sb.db.PingContext(ctx); err != nil {
		return err
	}

	// Load all keys into memory B-tree
	rows, err := sb.db.QueryContext(ctx, "SELECT key, type FROM hostfs_objects")
	if err != nil {
		return err
	}
	defer rows.Close()

	sb.keys.Clear()
	for rows.Next() {
		var key string
		var fileType data.FileType
		if err := rows.Scan(&key, &fileType); err != nil {
			return err
		}
		sb.keys.Set(key, fileType)
	}

	return rows.Err()
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *SQLiteBackend) Close(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.keys.Clear()
	return sb.db.Close()
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *SQLiteBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityObjectStorage,
			backend.CapabilityPersistent,
			backend.CapabilityRecursiveDelete,
		},
	}
}
