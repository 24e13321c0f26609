package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"airport-gateway/airport/domain"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "AIRPORT"

type config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	Slots      int    `envconfig:"SLOTS" default:"5"`
	Strategy   string `envconfig:"STRATEGY" default:"mutex"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`

	RateEnabled   bool          `envconfig:"RATE_ENABLED" default:"true"`
	RateRPS       float64       `envconfig:"RATE_RPS" default:"10"`
	RateBurst     int           `envconfig:"RATE_BURST" default:"20"`
	RateKeyHeader string        `envconfig:"RATE_KEY_HEADER" default:"X-Pilot-ID"`
	TrustXFF      bool          `envconfig:"TRUST_XFF" default:"false"`
	RetryAfter    time.Duration `envconfig:"RETRY_AFTER" default:"1s"`

	ConcurrencyMax     int           `envconfig:"CONCURRENCY_MAX" default:"100"`
	ConcurrencyTimeout time.Duration `envconfig:"CONCURRENCY_TIMEOUT" default:"0"`

	StatsEnabled       bool          `envconfig:"STATS_ENABLED" default:"false"`
	StatsRedisAddr     string        `envconfig:"STATS_REDIS_ADDR"`
	StatsRedisPassword string        `envconfig:"STATS_REDIS_PASSWORD"`
	StatsRedisDB       int           `envconfig:"STATS_REDIS_DB" default:"0"`
	StatsPrefix        string        `envconfig:"STATS_PREFIX" default:"airport:claims"`
	StatsTTL           time.Duration `envconfig:"STATS_TTL" default:"24h"`
	StatsBucket        string        `envconfig:"STATS_BUCKET" default:"minute"`
	StatsTrackInstants bool          `envconfig:"STATS_TRACK_INSTANTS" default:"false"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return config{}, fmt.Errorf("parsing environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.Slots <= 0 {
		return errors.New("AIRPORT_SLOTS must be > 0")
	}
	if _, err := domain.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("AIRPORT_STRATEGY: %w", err)
	}
	if c.RateEnabled {
		if c.RateRPS <= 0 {
			return errors.New("AIRPORT_RATE_RPS must be > 0")
		}
		if c.RateBurst <= 0 {
			return errors.New("AIRPORT_RATE_BURST must be > 0")
		}
	}
	if c.ConcurrencyMax < 0 {
		return errors.New("AIRPORT_CONCURRENCY_MAX must be >= 0")
	}
	if c.StatsEnabled && strings.TrimSpace(c.StatsRedisAddr) == "" {
		return errors.New("AIRPORT_STATS_REDIS_ADDR is required when AIRPORT_STATS_ENABLED=true")
	}
	return nil
}
