package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deepmetric/institute-portal/internal/core/ports"
)

const dedupTTL = time.Hour

var _ ports.IdempotencyStore = (*DedupStore)(nil)

// DedupStore provides idempotency reservations backed by Redis.
// Key format: <prefix>dedup:<key>
type DedupStore struct {
	client *redis.Client
	prefix string
}

// NewDedupStore creates a DedupStore wrapping the given Redis client.
func NewDedupStore(client *redis.Client, prefix string) *DedupStore {
	return &DedupStore{client: client, prefix: prefix}
}

// Reserve stores value under key unless a live reservation exists, and
// returns the value that ends up reserved. Reservations expire after dedupTTL.
func (d *DedupStore) Reserve(ctx context.Context, key, value string) (string, bool, error) {
	k := d.key(key)
	ok, err := d.client.SetNX(ctx, k, value, dedupTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("dedup reserve: %w", err)
	}
	if ok {
		return value, true, nil
	}
	existing, err := d.client.Get(ctx, k).Result()
	if err != nil {
		return "", false, fmt.Errorf("dedup lookup: %w", err)
	}
	return existing, false, nil
}

func (d *DedupStore) key(key string) string {
	return fmt.Sprintf("%sdedup:%s", d.prefix, key)
}
