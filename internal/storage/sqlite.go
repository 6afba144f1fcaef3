package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite keeps the record as one row of a key/payload table.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewSQLite opens (or creates) the database at path and prepares the table.
func NewSQLite(path, key string) (*SQLite, error) {
	if path == "" {
		path = "hwtrack.db"
	}
	if key == "" {
		return nil, fmt.Errorf("sqlite record: empty key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("sqlite record: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite record: open: %w", err)
	}
	// One writer at a time keeps sqlite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite record: create table: %w", err)
	}
	return &SQLite{db: db, key: key}, nil
}

func (s *SQLite) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM records WHERE key = ?`, s.key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("sqlite record: select: %w", err)
	}
	return payload, nil
}

func (s *SQLite) Write(ctx context.Context, data []byte) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite record: begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (key, payload) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		s.key, data); err != nil {
		return fmt.Errorf("sqlite record: upsert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite record: commit: %w", err)
	}
	return nil
}

func (s *SQLite) Driver() string { return "sqlite" }

func (s *SQLite) Close() error { return s.db.Close() }
