package sessions_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/kirinyoku/courtgo/internal/repository/memory"
	redisrepo "github.com/kirinyoku/courtgo/internal/repository/redis"
	"github.com/kirinyoku/courtgo/internal/service/catalog"
	"github.com/kirinyoku/courtgo/internal/service/sessions"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCachedService starts a fresh registry whose reads go through db under
// the given instance id, the way app.New wires one process.
func newCachedService(t *testing.T, db *goredis.Client, instance string) *sessions.Service {
	t.Helper()

	store := memory.NewStore(memory.DefaultSeed(time.Now()))
	cache := redisrepo.New(db, instance)
	quoter := catalog.New(store, cache, catalog.Config{})

	return sessions.New(store, cache, &recordingPublisher{}, nil, quoter, nil, sessions.Config{CacheTTL: time.Minute})
}

func newServer(t *testing.T) *goredis.Client {
	t.Helper()

	srv := miniredis.RunT(t)
	db := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestCachedReads_FollowWrites(t *testing.T) {
	ctx := context.Background()
	svc := newCachedService(t, newServer(t), "instance-a")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	before, err := svc.Get(ctx, "session2")
	require.NoError(t, err)
	require.Len(t, before.Participants, 1)

	_, _, err = svc.Join(ctx, "user1", "session2", "")
	require.NoError(t, err)

	after, err := svc.Get(ctx, "session2")
	require.NoError(t, err)
	assert.Len(t, after.Participants, 2)

	start := time.Now().Add(time.Hour)
	created, err := svc.Create(ctx, "user3", sessions.CreateInput{
		CourtID:    "court1",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		MaxPlayers: 2,
		TotalCost:  decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, created.ID, list[3].ID)
}

func TestCachedReads_RestartStartsFromSeed(t *testing.T) {
	ctx := context.Background()
	db := newServer(t)

	first := newCachedService(t, db, "instance-a")

	start := time.Now().Add(time.Hour)
	created, err := first.Create(ctx, "user1", sessions.CreateInput{
		CourtID:    "court1",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		MaxPlayers: 4,
		TotalCost:  decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	list, err := first.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	_, err = first.Get(ctx, created.ID)
	require.NoError(t, err)

	restarted := newCachedService(t, db, "instance-b")

	list, err = restarted.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = restarted.Get(ctx, created.ID)
	assert.ErrorIs(t, err, sessions.ErrSessionNotFound)

	_, _, err = restarted.Join(ctx, "user2", created.ID, "")
	assert.ErrorIs(t, err, sessions.ErrSessionNotFound)

	// The first registry still reads its own snapshot.
	list, err = first.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestJoin_InvalidationFailureIsLogged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := redisrepo.New(db, "instance-a")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	store := memory.NewStore(memory.DefaultSeed(time.Now()))
	pub := &recordingPublisher{}
	svc := sessions.New(store, cache, pub, nil, catalog.New(store, nil, catalog.Config{}), logger, sessions.Config{})

	mock.ExpectDel(cache.SessionKey("session2"), cache.SessionsKey()).SetErr(errors.New("connection refused"))

	_, sess, err := svc.Join(context.Background(), "user1", "session2", "")
	require.NoError(t, err)
	assert.Len(t, sess.Participants, 2)

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "invalidate cached session failed")
	assert.Contains(t, logs.String(), "session_id=session2")
	assert.Len(t, pub.events(), 1, "publish still runs after a failed invalidation")
	assert.NoError(t, mock.ExpectationsWereMet())
}
