package store

import (
	"context"
	"sync"
)

// MemoryStorage keeps the document in process memory.
// This is intended for tests and throwaway local runs.
type MemoryStorage struct {
	mu      sync.RWMutex
	body    []byte
	version uint64
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns a copy of the stored bytes.
func (m *MemoryStorage) Load(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.body == nil {
		return Snapshot{}, nil
	}
	return Snapshot{Body: append([]byte(nil), m.body...), Version: m.version}, nil
}

// CompareAndSwap stores a copy of body when expected matches.
func (m *MemoryStorage) CompareAndSwap(_ context.Context, expected uint64, body []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.version != expected {
		return 0, ErrVersionConflict
	}
	m.body = append([]byte(nil), body...)
	m.version++
	return m.version, nil
}

// Ping always succeeds.
func (m *MemoryStorage) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStorage) Close() error { return nil }

// Name returns "memory".
func (m *MemoryStorage) Name() string { return "memory" }

// Put overwrites the stored bytes without a version check. Used to seed
// fixtures, including deliberately corrupt ones.
func (m *MemoryStorage) Put(body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = append([]byte(nil), body...)
	m.version++
}
