// Package store persists diary entries as a single JSON array in a durable
// key-value slot. It is the only writer of that slot.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/errors"
)

// SlotKey is the name of the slot holding the entry list.
const SlotKey = "diaryEntries"

// Backend is a durable key-value slot.
type Backend interface {
	// Get returns the slot's bytes, or (nil, nil) if the slot has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update reads the slot, calls fn with the current bytes (nil if unset) and
	// writes fn's result back, atomically with respect to other Update calls.
	// If fn returns an error nothing is written and that error is returned.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

// DuplicateMode controls what AppendMany does with ids that are already stored.
type DuplicateMode string

const (
	DuplicateError DuplicateMode = "error" // default: reject the whole batch
	DuplicateSkip  DuplicateMode = "skip"  // keep the stored entry, drop the new one
)

// Store is the entry repository.
type Store struct {
	mu      sync.Mutex
	backend Backend
	catalog entry.Catalog
	key     string
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a Store over backend. Entries are validated against catalog on append.
func New(backend Backend, catalog entry.Catalog, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		catalog: catalog,
		key:     SlotKey,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the emotion catalog entries are validated against.
func (s *Store) Catalog() entry.Catalog {
	return s.catalog
}

// Append adds e to the stored list. It never replaces an existing entry:
// two entries with the same logical date are both kept.
func (s *Store) Append(ctx context.Context, e entry.Entry) error {
	_, err := s.AppendMany(ctx, []entry.Entry{e}, DuplicateError)
	return err
}

// AppendResult reports what AppendMany wrote.
type AppendResult struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
}

// AppendMany adds entries in a single read-modify-write cycle.
func (s *Store) AppendMany(ctx context.Context, entries []entry.Entry, mode DuplicateMode) (*AppendResult, error) {
	if mode == "" {
		mode = DuplicateError
	}
	for _, e := range entries {
		if err := entry.Validate(e, s.catalog); err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &AppendResult{}
	err := s.backend.Update(ctx, s.key, func(current []byte) ([]byte, error) {
		stored, err := decode(current)
		if err != nil {
			// Writing would discard history we cannot read; surface it instead.
			s.log.Error("refusing to append over corrupt payload", zap.String("key", s.key), zap.Error(err))
			return nil, errors.NewStorageUnavailable(errors.NewCorruptData(err))
		}

		seen := make(map[string]bool, len(stored)+len(entries))
		for _, e := range stored {
			seen[e.ID] = true
		}

		*result = AppendResult{}
		for _, e := range entries {
			if seen[e.ID] {
				if mode == DuplicateSkip {
					result.Skipped = append(result.Skipped, e.ID)
					continue
				}
				return nil, errors.NewDuplicateID(e.ID)
			}
			seen[e.ID] = true
			stored = append(stored, e)
			result.Added++
		}

		entry.SortNewestFirst(stored)
		return json.Marshal(stored)
	})
	if err != nil {
		if errors.Is(err, errors.ErrStorageUnavailable) || errors.Is(err, errors.ErrConflict) {
			return nil, errors.As(err)
		}
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("append")
		}
		s.log.Warn("append failed", zap.String("key", s.key), zap.Error(err))
		return nil, errors.NewStorageUnavailable(err)
	}

	for _, e := range entries {
		s.log.Debug("entry appended", zap.String("id", e.ID), zap.Stringer("date", e.Date))
	}
	return result, nil
}

// ListAll returns every stored entry, newest first. Unreadable or corrupt
// storage yields an empty list so the read path stays available.
func (s *Store) ListAll(ctx context.Context) []entry.Entry {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("storage read failed, treating as empty", zap.String("key", s.key), zap.Error(err))
		return []entry.Entry{}
	}

	entries, err := decode(data)
	if err != nil {
		s.log.Warn("stored entries are corrupt, treating as empty", zap.String("key", s.key), zap.Error(err))
		return []entry.Entry{}
	}
	if entries == nil {
		return []entry.Entry{}
	}

	entry.SortNewestFirst(entries)
	return entries
}

// RawPayload is the diagnostic view of the slot.
type RawPayload struct {
	Key     string `json:"key"`
	Payload string `json:"payload"`
	Count   int    `json:"count"`
	Corrupt bool   `json:"corrupt"`
}

// Raw returns the slot's raw bytes and the number of entries they decode to.
func (s *Store) Raw(ctx context.Context) (*RawPayload, error) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}

	out := &RawPayload{Key: s.key, Payload: string(data)}
	entries, err := decode(data)
	if err != nil {
		out.Corrupt = true
		return out, nil
	}
	out.Count = len(entries)
	return out, nil
}

// decode parses a slot payload. An empty or unset slot decodes to nil.
func decode(data []byte) ([]entry.Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []entry.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
