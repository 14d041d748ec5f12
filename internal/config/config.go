package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StageDev  = "dev"
	StageProd = "prod"
)

type Config struct {
	Stage                  string        `env:"STAGE" envDefault:"dev"`
	Host                   string        `env:"HOST" envDefault:"127.0.0.1"`
	Port                   int           `env:"PORT" envDefault:"9191"`
	DatabaseUrl            string        `env:"DATABASE_URL"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"20m"`
	AllowedOrigins         []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads .env outside of prod and then parses the environment.
func Load(envFiles ...string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if len(envFiles) == 0 {
			envFiles = []string{".env"}
		}
		// a missing .env is fine; the defaults cover a local run
		if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Stage != StageDev && c.Stage != StageProd {
		return fmt.Errorf("stage must be either %s or %s, got: %q", StageDev, StageProd, c.Stage)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.SessionCleanupInterval <= 0 {
		return fmt.Errorf("session cleanup interval must be positive, got: %s", c.SessionCleanupInterval)
	}
	return nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
