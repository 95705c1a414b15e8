// Package settings is the persisted configuration store behind the status
// capability: a small SQLite key-value table holding the enabled flag and
// provider credentials. The engine consults Status once at startup and
// stays fully inactive — no listeners attached — when the answer is
// disabled or unconfigured.
package settings

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Well-known keys.
const (
	KeyEnabled  = "enabled"
	KeyProvider = "provider"
	KeyAPIKey   = "api_key"
	KeyModel    = "model"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is the settings database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings database at path with the
// production pragmas: WAL journal, foreign keys, busy timeout.
// The caller must blank-import a driver registering as "sqlite":
//
//	import _ "modernc.org/sqlite"
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("settings: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("settings: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("settings: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory store for testing. MaxOpenConns(1) keeps
// every query on the same in-memory database.
func OpenMemory(t testing.TB) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("settings.OpenMemory: %v", err)
	}
	s.db.SetMaxOpenConns(1)
	t.Cleanup(func() { s.Close() })
	return s
}

// Get returns the value for key, or "" when unset.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("settings: get %s: %w", key, err)
	}
	return v, nil
}

// Set stores a value, replacing any previous one.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("settings: set %s: %w", key, err)
	}
	return nil
}

// Status is the startup query: whether the engine should run at all.
type Status struct {
	Enabled    bool `json:"enabled"`
	Configured bool `json:"configured"`
}

// StatusOf answers the status capability. Enabled defaults to true when the
// key was never written; an explicit "false" disables. Configured means a
// provider is named and, when requiresKey says it needs one, a key is set.
func (s *Store) StatusOf(ctx context.Context, requiresKey func(name string) bool) (Status, error) {
	enabled, err := s.Get(ctx, KeyEnabled)
	if err != nil {
		return Status{}, err
	}
	name, err := s.Get(ctx, KeyProvider)
	if err != nil {
		return Status{}, err
	}
	key, err := s.Get(ctx, KeyAPIKey)
	if err != nil {
		return Status{}, err
	}

	st := Status{Enabled: enabled != "false"}
	if name != "" {
		needsKey := requiresKey != nil && requiresKey(name)
		st.Configured = !needsKey || key != ""
	}
	return st, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }
