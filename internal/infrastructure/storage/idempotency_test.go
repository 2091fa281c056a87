package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotency_Reserve(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryIdempotency(time.Minute)
	m.now = func() time.Time { return now }

	v, stored, err := m.Reserve(ctx, "k", "r1")
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, "r1", v)

	v, stored, err = m.Reserve(ctx, "k", "r2")
	require.NoError(t, err)
	assert.False(t, stored)
	assert.Equal(t, "r1", v)

	now = now.Add(2 * time.Minute)
	v, stored, err = m.Reserve(ctx, "k", "r3")
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, "r3", v)
}

func TestMemoryIdempotency_SweepsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryIdempotency(time.Minute)
	m.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		_, _, err := m.Reserve(ctx, k, "r-"+k)
		require.NoError(t, err)
	}
	require.Equal(t, 3, m.Len())

	now = now.Add(2 * time.Minute)
	_, stored, err := m.Reserve(ctx, "d", "r-d")
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, 1, m.Len())
}
