// Package config loads and validates the typed process configuration from
// environment variables, per spec §6's "Configuration (recognised
// options, enumerated)".
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-sourced option this process recognizes.
// Environment variables not named by a field are ignored; Load does not
// reject unknown keys.
type Config struct {
	UpstreamAPIKey string `env:"UPSTREAM_API_KEY,required"`
	UpstreamURL    string `env:"UPSTREAM_URL" envDefault:"https://api.upstream-odds.example/v1"`

	CacheURL string `env:"CACHE_URL,required"`
	DBURL    string `env:"DB_URL,required"`

	RefreshInterval     time.Duration `env:"REFRESH_INTERVAL" envDefault:"15m"`
	StaleThreshold      time.Duration `env:"STALE_THRESHOLD" envDefault:"30m"`
	SessionHeartbeatTTL time.Duration `env:"SESSION_HEARTBEAT_TTL" envDefault:"5m"`
	UpstreamTimeout     time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	ExchangeFeeBPS int `env:"EXCHANGE_FEE_BPS" envDefault:"200"`

	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	MarketsConfigPath string `env:"MARKETS_CONFIG_PATH" envDefault:"config/markets.yaml"`
}

// Load reads a local .env file if present (local-dev convenience, matching
// Agentchow-HFTKalshiGo/internal/config's godotenv.Load() before parsing),
// then parses and validates the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate enforces the startup-abort rules of spec §6: required options
// must be present; the exchange fee must be a sane basis-point value.
func (c *Config) Validate() error {
	if c.UpstreamAPIKey == "" {
		return fmt.Errorf("UPSTREAM_API_KEY is required")
	}
	if c.CacheURL == "" {
		return fmt.Errorf("CACHE_URL is required")
	}
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if c.ExchangeFeeBPS < 0 || c.ExchangeFeeBPS > 10000 {
		return fmt.Errorf("EXCHANGE_FEE_BPS must be between 0 and 10000, got %d", c.ExchangeFeeBPS)
	}
	return nil
}

// ExchangeFee converts the configured basis points into a fraction (e.g.
// 200 -> 0.02), as consumed by internal/evscore.
func (c *Config) ExchangeFee() float64 {
	return float64(c.ExchangeFeeBPS) / 10000.0
}
