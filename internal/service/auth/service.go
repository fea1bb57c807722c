package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/kirinyoku/courtgo/internal/repository"
	"github.com/kirinyoku/courtgo/internal/repository/memory"
)

const issuer = "courtgo"

type Config struct {
	Secret        string
	SessionTTL    time.Duration
	DefaultUserID string
}

// Claims carries the signed-in user's id in the standard sub claim.
type Claims struct {
	jwt.RegisteredClaims
}

// Service hands out mock sign-in sessions for seeded users.
type Service struct {
	store *memory.Store
	cfg   Config
	now   func() time.Time
}

func New(store *memory.Store, cfg Config) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}

	if cfg.DefaultUserID == "" {
		cfg.DefaultUserID = "user1"
	}

	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// DefaultUserID is the caller assumed for requests without a bearer token.
func (s *Service) DefaultUserID() string {
	return s.cfg.DefaultUserID
}

// Session returns the signed-in view for userID together with a bearer token
// that expires with it.
//
// Returns:
//   - error: auth.ErrUserNotFound if userID is not a known user.
func (s *Service) Session(ctx context.Context, userID string) (*domain.AuthSession, error) {
	const op = "service.auth.Session"

	u, err := s.store.Users().ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	expires := s.now().Add(s.cfg.SessionTTL)

	token, err := s.sign(u.ID, expires)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &domain.AuthSession{
		User:    *u,
		Expires: expires,
		Token:   token,
	}, nil
}

// ParseToken validates an HS256 bearer token and returns its subject.
//
// Returns:
//   - error: auth.ErrInvalidToken for a bad signature, an expired token or a missing subject.
func (s *Service) ParseToken(token string) (string, error) {
	const op = "service.auth.ParseToken"

	claims := &Claims{}
	t, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return "", fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	return claims.Subject, nil
}

func (s *Service) sign(userID string, expires time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}
