package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/kirinyoku/courtgo/internal/repository"
	"github.com/kirinyoku/courtgo/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *memory.Store {
	return memory.NewStore(memory.DefaultSeed(time.Now()))
}

func TestStore_SeededState(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	sessions, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "session1", sessions[0].ID)
	assert.Equal(t, "session2", sessions[1].ID)
	assert.Equal(t, "session3", sessions[2].ID)

	courts, err := s.Courts().List(ctx)
	require.NoError(t, err)
	assert.Len(t, courts, 3)

	users, err := s.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestSessionRepo_ByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	sess, err := s.Sessions().ByID(ctx, "session1")
	require.NoError(t, err)

	sess.Participants[0].HasPaid = false
	sess.Participants = append(sess.Participants, domain.Participant{ID: "x"})
	sess.Court.Name = "mutated"
	sess.Status = domain.SessionFull

	again, err := s.Sessions().ByID(ctx, "session1")
	require.NoError(t, err)
	assert.True(t, again.Participants[0].HasPaid)
	assert.Len(t, again.Participants, 1)
	assert.Equal(t, "Center Court", again.Court.Name)
	assert.Equal(t, domain.SessionOpen, again.Status)
}

func TestSessionRepo_ByIDNotFound(t *testing.T) {
	_, err := newStore().Sessions().ByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepo_ByParticipant(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	sess, err := s.Sessions().ByParticipant(ctx, "participant4")
	require.NoError(t, err)
	assert.Equal(t, "session3", sess.ID)

	_, err = s.Sessions().ByParticipant(ctx, "participant99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepo_WritesRequireTx(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	err := s.Sessions().Save(ctx, &domain.Session{ID: "session1"})
	assert.ErrorIs(t, err, repository.ErrNoTx)

	err = s.Sessions().Insert(ctx, &domain.Session{ID: "session9"})
	assert.ErrorIs(t, err, repository.ErrNoTx)
}

func TestStore_RunTxCommits(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	err := s.RunTx(ctx, func(ctx context.Context, tx *memory.Tx) error {
		repo := s.Sessions().With(tx)

		sess, err := repo.ByID(ctx, "session2")
		if err != nil {
			return err
		}
		sess.Status = domain.SessionFull
		if err := repo.Save(ctx, sess); err != nil {
			return err
		}

		created := &domain.Session{ID: tx.NextSessionID(), Status: domain.SessionOpen}
		if err := repo.Insert(ctx, created); err != nil {
			return err
		}

		// the transaction sees its own writes
		inTx, err := repo.ByID(ctx, created.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "session4", inTx.ID)

		return nil
	})
	require.NoError(t, err)

	sess, err := s.Sessions().ByID(ctx, "session2")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionFull, sess.Status)

	list, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "session4", list[3].ID)
}

func TestStore_RunTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	boom := errors.New("boom")

	var minted string
	err := s.RunTx(ctx, func(ctx context.Context, tx *memory.Tx) error {
		repo := s.Sessions().With(tx)

		sess, err := repo.ByID(ctx, "session1")
		if err != nil {
			return err
		}
		sess.Participants = append(sess.Participants, domain.Participant{ID: tx.NextParticipantID()})
		if err := repo.Save(ctx, sess); err != nil {
			return err
		}

		minted = tx.NextSessionID()
		if err := repo.Insert(ctx, &domain.Session{ID: minted}); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	sess, err := s.Sessions().ByID(ctx, "session1")
	require.NoError(t, err)
	assert.Len(t, sess.Participants, 1)

	list, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	// ids are never reused, even after a rollback
	err = s.RunTx(ctx, func(ctx context.Context, tx *memory.Tx) error {
		assert.NotEqual(t, minted, tx.NextSessionID())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ParticipantIDsSkipSeededIDs(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	err := s.RunTx(ctx, func(ctx context.Context, tx *memory.Tx) error {
		assert.Equal(t, "participant5", tx.NextParticipantID())
		assert.Equal(t, "participant6", tx.NextParticipantID())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RunTxHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := newStore().RunTx(ctx, func(ctx context.Context, tx *memory.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCourtRepo_ByID(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	c, err := s.Courts().ByID(ctx, "court2")
	require.NoError(t, err)
	assert.True(t, c.IsIndoor)
	assert.Equal(t, "35", c.HourlyRate.String())

	_, err = s.Courts().ByID(ctx, "court9")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
