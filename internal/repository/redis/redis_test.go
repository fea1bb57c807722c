package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/kirinyoku/courtgo/internal/domain"
	redisrepo "github.com/kirinyoku/courtgo/internal/repository/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestFetch_MissLoadsAndStores(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := redisrepo.New(db, "instance-a")
	ctx := context.Background()
	key := cache.CourtsKey()

	mock.ExpectGet(key).RedisNil()
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, `{"name":"center"}`, time.Minute).SetVal("OK")

	calls := 0
	v, err := redisrepo.Fetch(ctx, cache, key, time.Minute, func(ctx context.Context) (payload, error) {
		calls++
		return payload{Name: "center"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "center", v.Name)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_HitSkipsLoader(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := redisrepo.New(db, "instance-a")
	key := cache.SessionKey("session1")

	mock.ExpectGet(key).SetVal(`{"name":"cached"}`)

	v, err := redisrepo.Fetch(context.Background(), cache, key, time.Minute, func(ctx context.Context) (payload, error) {
		t.Fatal("loader must not run on a hit")
		return payload{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "cached", v.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_CorruptSnapshotReloads(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := redisrepo.New(db, "instance-a")
	key := cache.SessionsKey()

	mock.ExpectGet(key).SetVal(`not json`)
	mock.ExpectGet(key).SetVal(`not json`)
	mock.ExpectSet(key, `{"name":"fresh"}`, time.Minute).SetVal("OK")

	v, err := redisrepo.Fetch(context.Background(), cache, key, time.Minute, func(ctx context.Context) (payload, error) {
		return payload{Name: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_LoaderErrorIsNotCached(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := redisrepo.New(db, "instance-a")
	key := cache.SessionKey("missing")
	boom := errors.New("boom")

	mock.ExpectGet(key).RedisNil()
	mock.ExpectGet(key).RedisNil()

	_, err := redisrepo.Fetch(context.Background(), cache, key, time.Minute, func(ctx context.Context) (payload, error) {
		return payload{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_NilCachePassesThrough(t *testing.T) {
	var cache *redisrepo.Cache

	v, err := redisrepo.Fetch(context.Background(), cache, cache.SessionsKey(), time.Minute, func(ctx context.Context) (payload, error) {
		return payload{Name: "direct"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", v.Name)
	assert.NoError(t, cache.InvalidateSession(context.Background(), "session1"))
}

func TestCacheKeysAreScopedToInstance(t *testing.T) {
	a := redisrepo.New(nil, "instance-a")
	b := redisrepo.New(nil, "instance-b")

	assert.NotEqual(t, a.SessionsKey(), b.SessionsKey())
	assert.NotEqual(t, a.SessionKey("session4"), b.SessionKey("session4"))
	assert.NotEqual(t, a.CourtsKey(), b.CourtsKey())
	assert.Contains(t, a.SessionKey("session4"), "instance-a")

	fresh := redisrepo.New(nil, "")
	assert.NotEmpty(t, fresh.Instance())
	assert.NotEqual(t, fresh.Instance(), redisrepo.New(nil, "").Instance())
}

func TestInvalidateSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := redisrepo.New(db, "instance-a")

	mock.ExpectDel(cache.SessionKey("session2"), cache.SessionsKey()).SetVal(2)

	require.NoError(t, cache.InvalidateSession(context.Background(), "session2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyStore_LockSaveGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := redisrepo.NewIdempotencyStore(db, "instance-a", time.Hour)
	ctx := context.Background()
	key := store.CreateSessionKey("user1", "abc")

	mock.ExpectSetNX(key, "LOCK", time.Minute).SetVal(true)
	mock.ExpectGet(key).SetVal("LOCK")
	mock.ExpectSet(key, `RES:{"id":"session4"}`, time.Hour).SetVal("OK")
	mock.ExpectGet(key).SetVal(`RES:{"id":"session4"}`)

	locked, err := store.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)

	_, ok, err := store.GetResult(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "a held lock is not a result")

	require.NoError(t, store.SaveResult(ctx, key, `{"id":"session4"}`))

	res, ok, err := store.GetResult(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"session4"}`, res)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyKeyIsScopedToCallerAndInstance(t *testing.T) {
	a := redisrepo.NewIdempotencyStore(nil, "instance-a", time.Hour)
	b := redisrepo.NewIdempotencyStore(nil, "instance-b", time.Hour)

	assert.NotEqual(t, a.CreateSessionKey("user1", "k"), a.CreateSessionKey("user2", "k"))
	assert.NotEqual(t, a.CreateSessionKey("user1", "k"), b.CreateSessionKey("user1", "k"))
}

func TestSessionsPubSub_Publish(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ps := redisrepo.NewSessionsPubSub(db)

	msg := domain.SessionChanged{
		Type:      "session_changed",
		SessionID: "session2",
		Status:    domain.SessionFull,
		TsUnix:    1700000000,
	}
	b, err := json.Marshal(msg)
	require.NoError(t, err)

	mock.ExpectPublish(redisrepo.ChannelSessionsChanged(), b).SetVal(1)

	require.NoError(t, ps.PublishSessionChanged(context.Background(), msg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlidingWindowLimiter_Denied(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := redisrepo.NewSlidingWindowLimiter(db, "join", 10, time.Minute)
	key := redisrepo.KeyRateLimit("join", "ip:10.0.0.1")

	mock.CustomMatch(func(_, actual []interface{}) error {
		if len(actual) < 8 {
			return errors.New("unexpected evalsha arity")
		}
		if actual[3] != key {
			return errors.New("unexpected key")
		}
		return nil
	}).ExpectEvalSha("", []string{key}).SetVal([]interface{}{int64(0), int64(11), int64(2500)})

	allowed, current, retry, err := limiter.Allow(context.Background(), "ip:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(11), current)
	assert.Equal(t, 2500*time.Millisecond, retry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlidingWindowLimiter_AgainstServer(t *testing.T) {
	srv := miniredis.RunT(t)
	db := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = db.Close() })

	limiter := redisrepo.NewSlidingWindowLimiter(db, "join", 2, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		allowed, current, _, err := limiter.Allow(ctx, "user:user1")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(i), current)
	}

	allowed, current, retry, err := limiter.Allow(ctx, "user:user1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(3), current)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, time.Minute)

	allowed, _, _, err = limiter.Allow(ctx, "user:user2")
	require.NoError(t, err)
	assert.True(t, allowed, "hit logs are per client")
}
