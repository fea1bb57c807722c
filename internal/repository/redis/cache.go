package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache holds JSON snapshots of registry reads. The registry lives in process
// memory, so every key carries the owning instance id and a restarted or
// sibling process never reads snapshots of a registry it does not hold.
type Cache struct {
	rdb      *redis.Client
	instance string
	keys     keyspace
	group    singleflight.Group
}

// New returns a cache scoped to instance. An empty instance gets a fresh id.
func New(client *redis.Client, instance string) *Cache {
	if instance == "" {
		instance = uuid.NewString()
	}

	return &Cache{
		rdb:      client,
		instance: instance,
		keys:     newKeyspace(instance),
	}
}

// Enabled reports whether c is backed by a redis client. A nil *Cache is a
// valid pass-through cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Cache) Instance() string {
	if c == nil {
		return ""
	}

	return c.instance
}

func (c *Cache) CourtsKey() string {
	if c == nil {
		return ""
	}

	return c.keys.join("courts")
}

func (c *Cache) SessionsKey() string {
	if c == nil {
		return ""
	}

	return c.keys.join("sessions")
}

func (c *Cache) SessionKey(sessionID string) string {
	if c == nil {
		return ""
	}

	return c.keys.join("session", sessionID)
}

// read decodes the snapshot at key into dst. An undecodable snapshot counts
// as a miss and is overwritten by the next load.
func (c *Cache) read(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(b, dst); err != nil {
		return false, nil
	}

	return true, nil
}

func (c *Cache) write(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, string(b), ttl).Err()
}

// Fetch returns the snapshot stored at key, calling load and storing its
// result on a miss. Concurrent misses for one key share a single load.
// A nil or disabled cache calls load directly.
func Fetch[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	if !c.Enabled() {
		return load(ctx)
	}

	var hit T
	if ok, err := c.read(ctx, key, &hit); err != nil || ok {
		return hit, err
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var again T
		if ok, err := c.read(ctx, key, &again); err != nil || ok {
			return again, err
		}

		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}

		// A failed store only costs the next reader a reload.
		_ = c.write(ctx, key, fresh, ttl)

		return fresh, nil
	})
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache %s: unexpected %T", key, v)
	}

	return out, nil
}

// InvalidateSession drops the cached snapshot of one session and the list view.
func (c *Cache) InvalidateSession(ctx context.Context, sessionID string) error {
	if !c.Enabled() {
		return nil
	}

	return c.rdb.Del(ctx, c.SessionKey(sessionID), c.SessionsKey()).Err()
}
