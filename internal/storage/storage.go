// Package storage is the device-local persistence layer: a small SQLite
// key-value table holding the serialized booking snapshot and the
// signed-in artist identity.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// Storage keys. The whole booking collection lives under a single key
// and is rewritten in full on every mutation.
const (
	KeyBookings = "bookings"
	KeyArtist   = "artist_name"
)

// DB wraps the SQLite connection behind a key-value interface.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens (creating if needed) the device storage at path.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	// Single local writer, but keep a small pool for the health probe.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Storage initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// Get returns the stored value for key. found is false when the key has
// never been written.
func (db *DB) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (db *DB) Set(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Del removes key. Missing keys are not an error.
func (db *DB) Del(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
