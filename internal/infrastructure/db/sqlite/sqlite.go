// Package sqlite implements the persistence layer on a single SQLite file
// using the pure-Go modernc driver. Writes are serialized per repository: the
// driver does not support concurrent writers.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT    UNIQUE NOT NULL,
	roles         TEXT    NOT NULL,
	secret_phrase TEXT    NOT NULL,
	is_active     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	price       REAL    NOT NULL DEFAULT 0,
	stock       INTEGER NOT NULL DEFAULT 0
);
`

// Connect opens (or creates) the database file, applies pragmas, and ensures
// the schema exists.
func Connect(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Store hands out repositories that share one write lock. The driver supports
// a single writer per database, so writes across all tables are serialized
// through the same mutex.
type Store struct {
	db        *sql.DB
	writeLock sync.Mutex
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{db: s.db, writeLock: &s.writeLock}
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{db: s.db, writeLock: &s.writeLock}
}
