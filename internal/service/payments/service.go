package payments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/courtgo/internal/domain"
)

// Completer marks a participant's share as paid.
type Completer interface {
	CompletePayment(ctx context.Context, participantID string) (*domain.Participant, *domain.Session, error)
}

type Config struct {
	// Delay simulates the processor round trip before an intent is returned.
	Delay time.Duration
}

// Service is a mock payment processor. No money moves.
type Service struct {
	completer Completer
	logger    *slog.Logger
	cfg       Config
}

func New(completer Completer, logger *slog.Logger, cfg Config) *Service {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		completer: completer,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateIntent returns a mock payment intent after the configured delay.
// The participant is not looked up.
//
// Returns:
//   - error: payments.ErrParticipantIDRequired if participantID is blank.
//   - error: ctx.Err() if the context ends during the delay.
func (s *Service) CreateIntent(ctx context.Context, participantID string) (*domain.PaymentIntent, error) {
	const op = "service.payments.CreateIntent"

	if strings.TrimSpace(participantID) == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrParticipantIDRequired)
	}

	if s.cfg.Delay > 0 {
		timer := time.NewTimer(s.cfg.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s:%w", op, ctx.Err())
		case <-timer.C:
		}
	}

	intent := &domain.PaymentIntent{
		Success:      true,
		Message:      "Payment intent created",
		ClientSecret: "mock_client_secret_" + uuid.NewString(),
	}

	s.logger.Debug("payment intent created", "participant_id", participantID)

	return intent, nil
}

// Confirm settles the participant's share.
//
// Returns:
//   - error: payments.ErrParticipantIDRequired if participantID is blank.
//   - error: sessions.ErrParticipantNotFound if no session holds that participant.
func (s *Service) Confirm(
	ctx context.Context,
	participantID string,
) (*domain.Participant, *domain.Session, error) {
	const op = "service.payments.Confirm"

	if strings.TrimSpace(participantID) == "" {
		return nil, nil, fmt.Errorf("%s:%w", op, ErrParticipantIDRequired)
	}

	p, sess, err := s.completer.CompletePayment(ctx, participantID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s:%w", op, err)
	}

	return p, sess, nil
}
