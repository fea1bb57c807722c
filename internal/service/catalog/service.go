package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/kirinyoku/courtgo/internal/repository"
	"github.com/kirinyoku/courtgo/internal/repository/memory"
	redisrepo "github.com/kirinyoku/courtgo/internal/repository/redis"
	"github.com/shopspring/decimal"
)

type Config struct {
	CourtsTTL time.Duration
}

type Service struct {
	store *memory.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *memory.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.CourtsTTL <= 0 {
		cfg.CourtsTTL = 5 * time.Minute
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// ListCourts returns the bookable courts, read through the cache when one is configured.
func (s *Service) ListCourts(ctx context.Context) ([]domain.Court, error) {
	const op = "service.catalog.ListCourts"

	courts, err := redisrepo.Fetch(
		ctx,
		s.cache,
		s.cache.CourtsKey(),
		s.cfg.CourtsTTL,
		func(ctx context.Context) ([]domain.Court, error) {
			return s.store.Courts().List(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return courts, nil
}

// GetCourt retrieves a court by its ID.
//
// Returns:
//   - error: catalog.ErrCourtNotFound if the court does not exist.
func (s *Service) GetCourt(ctx context.Context, id string) (*domain.Court, error) {
	const op = "service.catalog.GetCourt"

	c, err := s.store.Courts().ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrCourtNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// Quote prices a booking as hourly rate × duration, rounded to cents.
//
// Parameters:
//   - ctx: request-scoped context.
//   - courtID: ID of the court to price.
//   - start, end: booking window; end must be after start.
//
// Returns:
//   - *domain.Quote: the computed price.
//   - error: catalog.ErrCourtNotFound if the court does not exist.
//   - error: catalog.ErrInvalidTimeRange if end is not after start.
func (s *Service) Quote(ctx context.Context, courtID string, start, end time.Time) (*domain.Quote, error) {
	const op = "service.catalog.Quote"

	if !end.After(start) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTimeRange)
	}

	court, err := s.GetCourt(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hours := decimal.NewFromInt(int64(end.Sub(start) / time.Second)).
		Div(decimal.NewFromInt(int64(time.Hour / time.Second)))

	return &domain.Quote{
		CourtID:   court.ID,
		Hours:     hours.Round(4),
		TotalCost: court.HourlyRate.Mul(hours).Round(2),
	}, nil
}
