package uow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirinyoku/courtgo/internal/repository/memory"
	"github.com/kirinyoku/courtgo/internal/uow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_RunsHooksAfterCommit(t *testing.T) {
	store := memory.NewStore(memory.DefaultSeed(time.Now()))
	u := uow.NewUoW(store)

	var order []string
	err := u.Do(context.Background(), func(ctx context.Context, tx *memory.Tx, after func(uow.AfterCommit)) error {
		after(func(context.Context) { order = append(order, "first") })
		after(func(context.Context) { order = append(order, "second") })
		order = append(order, "body")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"body", "first", "second"}, order)
}

func TestDo_SkipsHooksOnError(t *testing.T) {
	store := memory.NewStore(memory.DefaultSeed(time.Now()))
	u := uow.NewUoW(store)
	boom := errors.New("boom")

	ran := false
	err := u.Do(context.Background(), func(ctx context.Context, tx *memory.Tx, after func(uow.AfterCommit)) error {
		after(func(context.Context) { ran = true })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

func TestDo_HooksCanReadCommittedState(t *testing.T) {
	store := memory.NewStore(memory.DefaultSeed(time.Now()))
	u := uow.NewUoW(store)

	var seen int
	err := u.Do(context.Background(), func(ctx context.Context, tx *memory.Tx, after func(uow.AfterCommit)) error {
		after(func(ctx context.Context) {
			// would deadlock if hooks ran while the write lock is held
			list, _ := store.Sessions().List(ctx)
			seen = len(list)
		})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
}
