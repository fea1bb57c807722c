package payments_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kirinyoku/courtgo/internal/repository/memory"
	"github.com/kirinyoku/courtgo/internal/service/payments"
	"github.com/kirinyoku/courtgo/internal/service/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(delay time.Duration) (*payments.Service, *sessions.Service) {
	store := memory.NewStore(memory.DefaultSeed(time.Now()))
	ss := sessions.New(store, nil, nil, nil, nil, nil, sessions.Config{})
	return payments.New(ss, nil, payments.Config{Delay: delay}), ss
}

func TestCreateIntent(t *testing.T) {
	svc, _ := newServices(0)

	intent, err := svc.CreateIntent(context.Background(), "participant1")
	require.NoError(t, err)
	assert.True(t, intent.Success)
	assert.Equal(t, "Payment intent created", intent.Message)
	assert.True(t, strings.HasPrefix(intent.ClientSecret, "mock_client_secret_"))

	other, err := svc.CreateIntent(context.Background(), "participant1")
	require.NoError(t, err)
	assert.NotEqual(t, intent.ClientSecret, other.ClientSecret)
}

func TestCreateIntent_UnknownParticipantStillSucceeds(t *testing.T) {
	svc, _ := newServices(0)

	intent, err := svc.CreateIntent(context.Background(), "participant404")
	require.NoError(t, err)
	assert.True(t, intent.Success)
}

func TestCreateIntent_RequiresID(t *testing.T) {
	svc, _ := newServices(0)

	_, err := svc.CreateIntent(context.Background(), "  ")
	assert.ErrorIs(t, err, payments.ErrParticipantIDRequired)
}

func TestCreateIntent_WaitsForDelay(t *testing.T) {
	svc, _ := newServices(50 * time.Millisecond)

	start := time.Now()
	_, err := svc.CreateIntent(context.Background(), "participant1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestCreateIntent_ContextCancelled(t *testing.T) {
	svc, _ := newServices(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.CreateIntent(ctx, "participant1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	svc, ss := newServices(0)

	pid, _, err := ss.Join(ctx, "user1", "session2", "")
	require.NoError(t, err)

	p, sess, err := svc.Confirm(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, pid, p.ID)
	assert.True(t, p.HasPaid)
	assert.Equal(t, "session2", sess.ID)
	for _, sp := range sess.Participants {
		assert.True(t, sp.HasPaid, sp.ID)
	}
}

func TestConfirm_Errors(t *testing.T) {
	svc, _ := newServices(0)

	_, _, err := svc.Confirm(context.Background(), "")
	assert.ErrorIs(t, err, payments.ErrParticipantIDRequired)

	_, _, err = svc.Confirm(context.Background(), "participant404")
	assert.ErrorIs(t, err, sessions.ErrParticipantNotFound)
}
