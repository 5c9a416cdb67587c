// Package cache keeps a short-lived copy of store snapshots in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
)

const snapshotKeyPrefix = "fleetdesk:snapshot:"

// ErrMiss is returned when no cached snapshot exists for a path.
var ErrMiss = errors.New("snapshot not cached")

// SnapshotCache stores raw snapshots by store path.
type SnapshotCache interface {
	Load(ctx context.Context, path string) (store.Snapshot, error)
	Save(ctx context.Context, path string, snap store.Snapshot) error
	Invalidate(ctx context.Context, path string) error
}

// RedisCache implements SnapshotCache on a Redis string key per path.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SnapshotCache = (*RedisCache)(nil)

// NewRedisCache wraps client; entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Load returns the cached snapshot or ErrMiss.
func (c *RedisCache) Load(ctx context.Context, path string) (store.Snapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKeyPrefix+path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cached snapshot %s: %w", path, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot %s: %w", path, err)
	}
	if snap == nil {
		snap = store.Snapshot{}
	}
	return snap, nil
}

// Save overwrites the cached snapshot for path.
func (c *RedisCache) Save(ctx context.Context, path string, snap store.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	if err := c.client.Set(ctx, snapshotKeyPrefix+path, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot %s: %w", path, err)
	}
	return nil
}

// Invalidate drops the cached snapshot for path.
func (c *RedisCache) Invalidate(ctx context.Context, path string) error {
	if err := c.client.Del(ctx, snapshotKeyPrefix+path).Err(); err != nil {
		return fmt.Errorf("invalidate snapshot %s: %w", path, err)
	}
	return nil
}
