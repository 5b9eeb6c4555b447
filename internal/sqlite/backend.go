// Package sqlite implements the toodle Store on SQLite. SQLite is the query
// engine; when a data directory is configured, JSONL files in that directory
// are the durable record and the database is rebuilt from them on attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

// dbFileName is the scratch database kept next to the JSONL files.
const dbFileName = "toodle.db"

// Backend implements types.Store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger

	// dirty marks committed changes not yet written to JSONL under the
	// on_close sync strategy.
	dirty bool
}

var _ types.Store = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for debug and warning output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a detached backend. Call Attach to open it.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the database described by config, creates the schema and,
// for a durable store, loads the JSONL record.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dsn := ":memory:"
	if !config.InMemory() {
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dsn = filepath.Join(config.DataDir, dbFileName)
		// The JSONL files are authoritative; start from an empty database.
		_ = os.Remove(dsn)
	}

	db, err := sql.Open(config.Backend, dsn)
	if err != nil {
		return fmt.Errorf("opening %s database: %w", config.Backend, err)
	}
	// One connection keeps an in-memory database alive and shared, and
	// serializes writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying %q: %w", stmt, err)
		}
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if !config.InMemory() {
		if err := initJSONLFiles(config.DataDir); err != nil {
			db.Close()
			return err
		}
		if err := loadAllJSONL(db, config.DataDir); err != nil {
			db.Close()
			return err
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	b.dirty = false
	b.logger.Debug("store attached",
		"backend", config.Backend,
		"data_dir", config.DataDir,
		"sync", config.EffectiveSyncStrategy())
	return nil
}

// Detach flushes pending JSONL writes and closes the database.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	var flushErr error
	if b.dirty {
		flushErr = b.persistAllLocked()
	}
	closeErr := b.db.Close()

	b.attached = false
	b.db = nil
	b.dirty = false
	b.logger.Debug("store detached", "data_dir", b.config.DataDir)

	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Close implements types.Store.
func (b *Backend) Close() error {
	return b.Detach()
}

// committed records that a transaction changed the store and writes the
// JSONL record according to the sync strategy. Callers hold b.mu.
//
// The change is already visible in SQLite when this runs, so a failed write
// does not fail the operation: it is logged and the store stays dirty until
// the next successful write or Close, which reports the error.
func (b *Backend) committed() {
	if b.config.InMemory() {
		return
	}
	if b.config.EffectiveSyncStrategy() == types.SyncOnClose {
		b.dirty = true
		return
	}
	if err := b.persistAllLocked(); err != nil {
		b.dirty = true
		b.logger.Error("jsonl persist failed, retrying on next change or close",
			"data_dir", b.config.DataDir, "err", err)
	}
}

// generateUUID returns a time-ordered UUID, falling back to a random one.
func generateUUID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	queryer
	Exec(query string, args ...any) (sql.Result, error)
}
