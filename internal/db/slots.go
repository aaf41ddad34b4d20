package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"
)

// Slots is a key-value store over the slots table. It implements store.Backend.
type Slots struct {
	db  *sql.DB
	now func() time.Time
}

// NewSlots wraps an initialized database.
func NewSlots(db *sql.DB) *Slots {
	return &Slots{db: db, now: time.Now}
}

// Get returns the value stored under key, or (nil, nil) if there is none.
func (s *Slots) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return []byte(value), nil
}

// Update runs fn over the current value inside one write transaction.
// Errors returned by fn are passed through unchanged.
func (s *Slots) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin slot update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current []byte
	var value string
	err = tx.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read slot %q: %w", key, err)
	default:
		current = []byte(value)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(next), s.now().Unix())
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit slot %q: %w", key, err)
	}
	return nil
}
