package main

import (
	"testing"
	"time"

	"airport-gateway/airport/domain"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, domain.DefaultSlotCount, cfg.Slots)
	require.Equal(t, "mutex", cfg.Strategy)
	require.Equal(t, "X-Pilot-ID", cfg.RateKeyHeader)
	require.Equal(t, time.Second, cfg.RetryAfter)
	require.Equal(t, 24*time.Hour, cfg.StatsTTL)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("AIRPORT_SLOTS", "3")
	t.Setenv("AIRPORT_STRATEGY", "semaphore")
	t.Setenv("AIRPORT_CONCURRENCY_TIMEOUT", "250ms")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Slots)
	require.Equal(t, "semaphore", cfg.Strategy)
	require.Equal(t, 250*time.Millisecond, cfg.ConcurrencyTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"strategy":    {"AIRPORT_STRATEGY": "spinlock"},
		"slots":       {"AIRPORT_SLOTS": "0"},
		"nonnumeric":  {"AIRPORT_SLOTS": "five"},
		"rps":         {"AIRPORT_RATE_RPS": "0"},
		"concurrency": {"AIRPORT_CONCURRENCY_MAX": "-1"},
		"redis":       {"AIRPORT_STATS_ENABLED": "true"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			require.Error(t, err)
		})
	}
}
