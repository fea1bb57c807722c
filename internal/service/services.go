package service

import (
	"log/slog"

	"github.com/kirinyoku/courtgo/internal/repository/memory"
	redis "github.com/kirinyoku/courtgo/internal/repository/redis"
	"github.com/kirinyoku/courtgo/internal/service/auth"
	"github.com/kirinyoku/courtgo/internal/service/catalog"
	"github.com/kirinyoku/courtgo/internal/service/payments"
	"github.com/kirinyoku/courtgo/internal/service/sessions"
)

type Services struct {
	Sessions *sessions.Service
	Catalog  *catalog.Service
	Payments *payments.Service
	Auth     *auth.Service
}

type Config struct {
	Sessions sessions.Config
	Catalog  catalog.Config
	Payments payments.Config
	Auth     auth.Config
}

// NewServices wires the services over one registry. cache, pub and limiter may
// be nil; the services then skip caching, change notifications and join throttling.
func NewServices(
	store *memory.Store,
	cache *redis.Cache,
	pub sessions.Publisher,
	limiter sessions.Limiter,
	logger *slog.Logger,
	cfg Config,
) *Services {
	catalogSvc := catalog.New(store, cache, cfg.Catalog)
	sessionsSvc := sessions.New(store, cache, pub, limiter, catalogSvc, logger, cfg.Sessions)

	return &Services{
		Sessions: sessionsSvc,
		Catalog:  catalogSvc,
		Payments: payments.New(sessionsSvc, logger, cfg.Payments),
		Auth:     auth.New(store, cfg.Auth),
	}
}
