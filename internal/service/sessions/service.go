package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/kirinyoku/courtgo/internal/repository"
	"github.com/kirinyoku/courtgo/internal/repository/memory"
	redisrepo "github.com/kirinyoku/courtgo/internal/repository/redis"
	"github.com/kirinyoku/courtgo/internal/uow"
	"github.com/shopspring/decimal"
)

// Publisher is notified after every committed change to a session.
type Publisher interface {
	PublishSessionChanged(ctx context.Context, msg domain.SessionChanged) error
}

// Limiter throttles joins per client key.
type Limiter interface {
	Allow(ctx context.Context, id string) (allowed bool, current int64, retryAfter time.Duration, err error)
}

// Quoter prices a court booking server-side.
type Quoter interface {
	Quote(ctx context.Context, courtID string, start, end time.Time) (*domain.Quote, error)
}

type Config struct {
	CacheTTL time.Duration
}

type Service struct {
	store   *memory.Store
	cache   *redisrepo.Cache
	pub     Publisher
	limiter Limiter
	quoter  Quoter
	uow     *uow.UoW
	logger  *slog.Logger
	cfg     Config
}

func New(
	store *memory.Store,
	cache *redisrepo.Cache,
	pub Publisher,
	limiter Limiter,
	quoter Quoter,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:   store,
		cache:   cache,
		pub:     pub,
		limiter: limiter,
		quoter:  quoter,
		uow:     uow.NewUoW(store),
		logger:  logger,
		cfg:     cfg,
	}
}

type CreateInput struct {
	CourtID     string
	StartTime   time.Time
	EndTime     time.Time
	MaxPlayers  int
	Description string
	TotalCost   decimal.Decimal
}

// List returns every session in creation order.
func (s *Service) List(ctx context.Context) ([]domain.Session, error) {
	const op = "service.sessions.List"

	list, err := redisrepo.Fetch(
		ctx,
		s.cache,
		s.cache.SessionsKey(),
		s.cfg.CacheTTL,
		func(ctx context.Context) ([]domain.Session, error) {
			return s.store.Sessions().List(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return list, nil
}

// Get retrieves a session snapshot by its ID.
//
// Returns:
//   - error: sessions.ErrSessionNotFound if the session does not exist.
func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	const op = "service.sessions.Get"

	sess, err := redisrepo.Fetch(
		ctx,
		s.cache,
		s.cache.SessionKey(id),
		s.cfg.CacheTTL,
		func(ctx context.Context) (domain.Session, error) {
			sess, err := s.store.Sessions().ByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Session{}, ErrSessionNotFound
				}

				return domain.Session{}, err
			}

			return *sess, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &sess, nil
}

// Create opens a new session on behalf of callerID. The caller becomes the
// first participant and is marked as paid. TotalCost is stored as supplied.
//
// Parameters:
//   - ctx: request-scoped context.
//   - callerID: ID of the user creating the session.
//   - in: session attributes as submitted by the client.
//
// Returns:
//   - *domain.Session: snapshot of the created session.
//   - error: sessions.ErrUserNotFound if callerID is unknown.
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (*domain.Session, error) {
	const op = "service.sessions.Create"

	creator, err := s.user(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	court, err := s.store.Courts().ByID(ctx, in.CourtID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		court = nil
	}

	if court != nil {
		s.checkCost(ctx, in)
	}

	var created *domain.Session

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx *memory.Tx,
		after func(uow.AfterCommit),
	) error {
		sess := &domain.Session{
			ID:          tx.NextSessionID(),
			CourtID:     in.CourtID,
			Court:       court,
			CreatorID:   creator.ID,
			Creator:     creator,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			TotalCost:   in.TotalCost,
			MaxPlayers:  in.MaxPlayers,
			Description: in.Description,
			Status:      domain.SessionOpen,
			Participants: []domain.Participant{
				{
					ID:       tx.NextParticipantID(),
					UserID:   creator.ID,
					UserName: creator.Name,
					HasPaid:  true,
				},
			},
		}

		if err := s.store.Sessions().With(tx).Insert(ctx, sess); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		created = sess.Clone()

		after(s.changed(sess.ID, sess.Status))

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("session created",
		"session_id", created.ID,
		"court_id", created.CourtID,
		"creator_id", created.CreatorID,
		"max_players", created.MaxPlayers,
	)

	return created, nil
}

// Join enrolls callerID in the session as an unpaid participant. The session
// flips to FULL when the new participant fills the last spot.
//
// Parameters:
//   - ctx: request-scoped context.
//   - callerID: ID of the user joining.
//   - sessionID: ID of the session to join.
//   - rlKey: rate limit bucket for the client; empty disables limiting.
//
// Returns:
//   - string: the new participant's ID.
//   - *domain.Session: snapshot of the session after the join.
//   - error: sessions.ErrSessionNotFound if the session does not exist.
//   - error: sessions.ErrSessionFull if no spots are left.
//   - error: sessions.ErrSessionNotOpen if the session is not OPEN.
//   - error: sessions.ErrAlreadyJoined if the caller is already a participant.
//   - error: sessions.RateLimitedError if the client exceeded the join rate.
func (s *Service) Join(
	ctx context.Context,
	callerID, sessionID string,
	rlKey string,
) (string, *domain.Session, error) {
	const op = "service.sessions.Join"

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return "", nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return "", nil, fmt.Errorf("%s:%w", op, RateLimitedError{RetryAfter: retry})
		}
	}

	user, err := s.user(ctx, callerID)
	if err != nil {
		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	var (
		participantID string
		joined        *domain.Session
	)

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx *memory.Tx,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.Sessions().With(tx)

		sess, err := repo.ByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrSessionNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if len(sess.Participants) >= sess.MaxPlayers {
			return fmt.Errorf("%s:%w", op, ErrSessionFull)
		}

		if sess.Status != domain.SessionOpen {
			return fmt.Errorf("%s:%w", op, ErrSessionNotOpen)
		}

		if sess.HasUser(user.ID) {
			return fmt.Errorf("%s:%w", op, ErrAlreadyJoined)
		}

		p := domain.Participant{
			ID:       tx.NextParticipantID(),
			UserID:   user.ID,
			UserName: user.Name,
			HasPaid:  false,
		}
		sess.Participants = append(sess.Participants, p)

		if len(sess.Participants) >= sess.MaxPlayers {
			sess.Status = domain.SessionFull
		}

		if err := repo.Save(ctx, sess); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		participantID = p.ID
		joined = sess

		after(s.changed(sess.ID, sess.Status))

		return nil
	})
	if err != nil {
		return "", nil, err
	}

	s.logger.Debug("session joined",
		"session_id", joined.ID,
		"participant_id", participantID,
		"user_id", user.ID,
		"status", joined.Status,
	)

	return participantID, joined, nil
}

// CompletePayment marks a participant as paid. Paying twice is not an error.
//
// Parameters:
//   - ctx: request-scoped context.
//   - participantID: globally unique participant ID.
//
// Returns:
//   - *domain.Participant: the participant after the update.
//   - *domain.Session: snapshot of the owning session.
//   - error: sessions.ErrParticipantNotFound if no session holds that participant.
func (s *Service) CompletePayment(
	ctx context.Context,
	participantID string,
) (*domain.Participant, *domain.Session, error) {
	const op = "service.sessions.CompletePayment"

	var (
		paid  domain.Participant
		owner *domain.Session
	)

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx *memory.Tx,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.Sessions().With(tx)

		sess, err := repo.ByParticipant(ctx, participantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrParticipantNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		i := sess.ParticipantIndex(participantID)
		sess.Participants[i].HasPaid = true

		if err := repo.Save(ctx, sess); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		paid = sess.Participants[i]
		owner = sess

		after(s.changed(sess.ID, sess.Status))

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("payment completed",
		"session_id", owner.ID,
		"participant_id", paid.ID,
	)

	return &paid, owner, nil
}

func (s *Service) user(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users().ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return u, nil
}

// checkCost logs when the client-supplied total disagrees with rate × duration.
// The submitted value is still stored unchanged.
func (s *Service) checkCost(ctx context.Context, in CreateInput) {
	if s.quoter == nil {
		return
	}

	q, err := s.quoter.Quote(ctx, in.CourtID, in.StartTime, in.EndTime)
	if err != nil {
		s.logger.Warn("cannot price submitted session",
			"court_id", in.CourtID,
			"total_cost", in.TotalCost.String(),
			"error", err,
		)
		return
	}

	if !q.TotalCost.Equal(in.TotalCost.Round(2)) {
		s.logger.Warn("submitted total cost differs from court rate",
			"court_id", in.CourtID,
			"total_cost", in.TotalCost.String(),
			"expected_cost", q.TotalCost.String(),
		)
	}
}

func (s *Service) changed(sessionID string, status domain.SessionStatus) uow.AfterCommit {
	return func(ctx context.Context) {
		if err := s.cache.InvalidateSession(ctx, sessionID); err != nil {
			s.logger.Warn("invalidate cached session failed", "session_id", sessionID, "error", err)
		}

		if s.pub == nil {
			return
		}

		if err := s.pub.PublishSessionChanged(ctx, domain.NewSessionChanged(sessionID, status)); err != nil {
			s.logger.Warn("publish session change failed", "session_id", sessionID, "error", err)
		}
	}
}
