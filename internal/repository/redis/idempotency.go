package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers create responses per instance. A stored
// response names a session in one process's registry, so replays never cross
// to another instance.
type IdempotencyStore struct {
	rdb  *redis.Client
	keys keyspace
	ttl  time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, instance string, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, keys: newKeyspace(instance), ttl: ttl}
}

// CreateSessionKey scopes an Idempotency-Key to the caller so two users can
// never replay each other's responses.
func (s *IdempotencyStore) CreateSessionKey(userID, idemKey string) string {
	return s.keys.join("idem", "sessions", userID, idemKey)
}

func (s *IdempotencyStore) AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, "LOCK", lockTTL).Result()
}

func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, jsonPayload string) error {
	val := "RES:" + jsonPayload
	return s.rdb.Set(ctx, key, val, s.ttl).Err()
}

func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if strings.HasPrefix(v, "RES:") {
		return strings.TrimPrefix(v, "RES:"), true, nil
	}

	return "", false, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
