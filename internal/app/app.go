package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/courtgo/internal/config"
	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/kirinyoku/courtgo/internal/redis"
	"github.com/kirinyoku/courtgo/internal/repository/memory"
	redisrepo "github.com/kirinyoku/courtgo/internal/repository/redis"
	"github.com/kirinyoku/courtgo/internal/service"
	"github.com/kirinyoku/courtgo/internal/service/auth"
	"github.com/kirinyoku/courtgo/internal/service/catalog"
	"github.com/kirinyoku/courtgo/internal/service/payments"
	"github.com/kirinyoku/courtgo/internal/service/sessions"
	"github.com/kirinyoku/courtgo/internal/stream"
	httpgin "github.com/kirinyoku/courtgo/internal/transport/http/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	hub        *stream.Hub
	rdb        *goredis.Client
	pubsub     *redisrepo.SessionsPubSub
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize the registry with the demo data
	store := memory.NewStore(memory.DefaultSeed(time.Now()))
	hub := stream.NewHub(logger)

	a := &App{
		cfg:    cfg,
		logger: logger,
		hub:    hub,
	}

	var (
		cache   *redisrepo.Cache
		idem    *redisrepo.IdempotencyStore
		pub     sessions.Publisher = hub
		limiter sessions.Limiter
	)

	if cfg.Redis.Enabled() {
		rdb, err := redis.New(context.Background(), redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}

		a.rdb = rdb
		a.pubsub = redisrepo.NewSessionsPubSub(rdb)

		// Snapshots and stored responses describe this process's registry only
		instance := uuid.NewString()
		logger.Info("redis enabled", "addr", cfg.Redis.Addr, "instance_id", instance)

		cache = redisrepo.New(rdb, instance)
		idem = redisrepo.NewIdempotencyStore(rdb, instance, cfg.IdempotencyTTL)
		pub = a.pubsub

		if cfg.JoinRateLimit > 0 {
			limiter = redisrepo.NewSlidingWindowLimiter(rdb, "join", cfg.JoinRateLimit, cfg.JoinRateWindow)
		}
	} else {
		logger.Warn("REDIS_ADDR not set; running without cache, idempotency and rate limiting")
	}

	// Initialize services
	services := service.NewServices(store, cache, pub, limiter, logger, service.Config{
		Sessions: sessions.Config{CacheTTL: cfg.CacheTTL},
		Catalog:  catalog.Config{},
		Payments: payments.Config{Delay: cfg.PaymentDelay},
		Auth: auth.Config{
			Secret:        cfg.Auth.Secret,
			SessionTTL:    cfg.Auth.SessionTTL,
			DefaultUserID: cfg.DemoUserID,
		},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, hub, idem, a.ready, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func (a *App) ready(ctx context.Context) error {
	if a.rdb == nil {
		return nil
	}
	return a.rdb.Ping(ctx).Err()
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Forward change notifications from every process to local websocket peers
	if a.pubsub != nil {
		g.Go(func() error {
			err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, msg domain.SessionChanged) {
				_ = a.hub.PublishSessionChanged(ctx, msg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("session change subscription: %w", err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	err := g.Wait()

	if a.rdb != nil {
		if cerr := a.rdb.Close(); cerr != nil {
			a.logger.Warn("closing redis", "error", cerr)
		}
	}

	return err
}
