package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createInterestsTable = `
CREATE TABLE IF NOT EXISTS interests (
	client_id  TEXT PRIMARY KEY,
	interests  TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteBackend stores records in an embedded SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// interests table exists. busyTimeout bounds lock waits.
func OpenSQLite(ctx context.Context, path string, busyTimeout time.Duration) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite mkdir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if _, err := db.ExecContext(ctx, createInterestsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Get implements Backend.Get.
func (s *SQLiteBackend) Get(ctx context.Context, id string) ([]string, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT interests FROM interests WHERE client_id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get %s: %w", id, err)
	}
	var interests []string
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return nil, false, fmt.Errorf("sqlite get %s: %w: %v", id, ErrCorruptRecord, err)
	}
	return interests, true, nil
}

// Set implements Backend.Set.
func (s *SQLiteBackend) Set(ctx context.Context, id string, interests []string) error {
	if id == "" {
		return ErrEmptyID
	}
	if interests == nil {
		interests = []string{}
	}
	raw, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO interests (client_id, interests, updated_at) VALUES (?, ?, ?)
ON CONFLICT(client_id) DO UPDATE SET interests = excluded.interests, updated_at = excluded.updated_at`,
		id, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", id, err)
	}
	return nil
}

// Ping implements Backend.Ping.
func (s *SQLiteBackend) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping: %w", err)
	}
	return nil
}

// Close implements Backend.Close.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// Name implements Backend.Name.
func (s *SQLiteBackend) Name() string { return BackendSQLite }
