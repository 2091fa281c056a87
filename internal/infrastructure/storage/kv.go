// Package storage persists portal state as a handful of JSON records under
// fixed logical keys in a key-value store. Records are versioned and migrated
// forward on every load.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Logical keys of the persisted records.
const (
	KeyUsers   = "users"
	KeySession = "session"
	KeyReviews = "reviews"
	KeyCourses = "courses"
)

// ErrNotFound is returned by KV.Get for a key that holds no record.
var ErrNotFound = errors.New("storage: key not found")

// KV is the durable key-value store records are mirrored to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// MemoryKV is a process-local KV used in development and tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Ping(context.Context) error { return nil }
