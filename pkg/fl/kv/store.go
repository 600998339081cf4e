// Package kv persists small named slots of text: one constant key per
// concern, value read and written whole.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store reads and writes kv_slots rows.
type Store struct {
	db *sql.DB
}

// New creates a Store over the given database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the value stored under key. The second return value reports
// whether the slot exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv_slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot read slot %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, creating the slot if needed.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cannot write slot %q: %w", key, err)
	}
	return nil
}

// Delete removes the slot under key. Deleting an absent slot is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_slots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("cannot delete slot %q: %w", key, err)
	}
	return nil
}
