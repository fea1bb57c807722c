package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig `envconfig:"SERVER"`
	Redis    RedisConfig  `envconfig:"REDIS"`
	Auth     AuthConfig   `envconfig:"AUTH"`
	LogLevel string       `envconfig:"LOG_LEVEL" default:"info"`

	DemoUserID     string        `envconfig:"DEMO_USER_ID" default:"user1"`
	PaymentDelay   time.Duration `envconfig:"PAYMENT_DELAY" default:"1s"`
	JoinRateLimit  int           `envconfig:"JOIN_RATE_LIMIT" default:"10"`
	JoinRateWindow time.Duration `envconfig:"JOIN_RATE_WINDOW" default:"1m"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"2h"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"15s"`
}

type ServerConfig struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"8080"`
}

// RedisConfig is optional; an empty Addr runs the service without redis.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

type AuthConfig struct {
	Secret     string        `envconfig:"SECRET" default:"courtgo-dev-secret"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"168h"`
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT %d", op, cfg.Server.Port)
	}

	if cfg.JoinRateLimit < 0 {
		return nil, fmt.Errorf("%s: invalid JOIN_RATE_LIMIT %d", op, cfg.JoinRateLimit)
	}

	return &cfg, nil
}
