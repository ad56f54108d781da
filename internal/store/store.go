// Package store is the SQLite persistence layer. It owns the database
// handle and implements the contract the core services consume: point
// lookups, filtered/ordered/paginated listing, bulk id-set lookups,
// insert/update/delete, and raw parameterized query execution against the
// FTS index.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence handle. Safe for concurrent use;
// SQLite serializes writes via its WAL journal.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Open opens or creates the database at dbPath and applies migrations.
// A nil logger disables store logging.
func Open(dbPath string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for raw queries (the search service's
// count/row FTS queries run through this).
func (s *Store) DB() *sql.DB {
	return s.db
}

// now returns the timestamp format persisted in the *_at columns.
func now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}

// nullable converts an optional string to its driver value.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
