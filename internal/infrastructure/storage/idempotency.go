package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryIdempotency is the in-process counterpart of the Redis dedup store.
type MemoryIdempotency struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]idempotencyEntry
	now     func() time.Time
}

type idempotencyEntry struct {
	value   string
	expires time.Time
}

func NewMemoryIdempotency(ttl time.Duration) *MemoryIdempotency {
	return &MemoryIdempotency{
		ttl:     ttl,
		entries: make(map[string]idempotencyEntry),
		now:     time.Now,
	}
}

func (m *MemoryIdempotency) Reserve(_ context.Context, key, value string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.entries[key]; ok && now.Before(e.expires) {
		return e.value, false, nil
	}
	m.sweepLocked(now)
	m.entries[key] = idempotencyEntry{value: value, expires: now.Add(m.ttl)}
	return value, true, nil
}

// Len reports how many reservations are held, expired ones included until
// the next sweep.
func (m *MemoryIdempotency) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryIdempotency) sweepLocked(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
}
