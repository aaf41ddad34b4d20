package store

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process Backend. Useful for tests and dry runs.
type MemoryBackend struct {
	mu       sync.Mutex
	slots    map[string][]byte
	readErr  error
	writeErr error
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.slots[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// Update implements Backend.
func (m *MemoryBackend) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return m.readErr
	}
	var current []byte
	if data, ok := m.slots[key]; ok {
		current = append([]byte(nil), data...)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.slots[key] = append([]byte(nil), next...)
	return nil
}

// Set writes raw bytes to a slot, bypassing any store logic.
func (m *MemoryBackend) Set(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), data...)
}

// FailReads makes subsequent reads return err. Pass nil to clear.
func (m *MemoryBackend) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes subsequent writes return err. Pass nil to clear.
func (m *MemoryBackend) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}
