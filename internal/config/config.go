// Package config reads server settings from the environment, after loading
// an optional .env file from the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string `env:"ADDR"         envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	RiotAPIKey   string `env:"RIOT_API_KEY"`
	RiotPlatform string `env:"RIOT_PLATFORM" envDefault:"na1"`
	RiotRetries  int    `env:"RIOT_RETRIES"  envDefault:"2"`

	LogLevel       string `env:"LOG_LEVEL"       envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	BalanceWorkers int           `env:"BALANCE_WORKERS" envDefault:"1"`
	RatingTimeout  time.Duration `env:"RATING_TIMEOUT"  envDefault:"5s"`
}

// Load reads files (".env" when none are given) into the process environment
// without overriding variables that are already set, then parses Config.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.BalanceWorkers < 1 {
		cfg.BalanceWorkers = 1
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// RatingsEnabled reports whether ranked lookups can be made.
func (c Config) RatingsEnabled() bool {
	return c.RiotAPIKey != "" && c.DatabaseURL != ""
}
