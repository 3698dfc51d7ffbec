package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration, parsed once at startup and
// injected into constructors. Nothing reads the environment after Load.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	Port        string `env:"PORT" envDefault:"8080"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"*"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// JWTSecret defaults to the historical literal so existing tokens keep
	// verifying; override it in any real deployment.
	JWTSecret string `env:"JWT_SECRET" envDefault:"atultingre.work@gmail.com"`

	AuthRateMax     int           `env:"RATE_LIMIT_AUTH_MAX" envDefault:"10"`
	WriteRateMax    int           `env:"RATE_LIMIT_WRITE_MAX" envDefault:"60"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return cfg, nil
}
