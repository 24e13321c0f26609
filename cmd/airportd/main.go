package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airport-gateway/airport/application"
	"airport-gateway/airport/domain"
	"airport-gateway/airport/httpapi"
	"airport-gateway/airport/infra"
	"airport-gateway/internal/log"

	clock "github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.New(nil, "info", false).Fatalw("config error", "err", err)
	}

	logger := log.New(nil, cfg.LogLevel, cfg.LogJSON).Named("airportd")
	defer func() { _ = logger.Sync() }()

	alloc, err := infra.NewAllocator(domain.Strategy(cfg.Strategy), cfg.Slots)
	if err != nil {
		logger.Fatalw("allocator error", "err", err)
	}
	defer func() { _ = alloc.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := infra.NewMetrics(reg)
	if err != nil {
		logger.Fatalw("metrics error", "err", err)
	}

	var stats domain.StatsStore
	if cfg.StatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.StatsRedisAddr,
			Password: cfg.StatsRedisPassword,
			DB:       cfg.StatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			logger.Fatalw("redis stats ping error", "err", err)
		}

		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.StatsPrefix),
			infra.WithStatsTTL(cfg.StatsTTL),
			infra.WithStatsBucket(cfg.StatsBucket),
			infra.WithStatsTrackInstants(cfg.StatsTrackInstants),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	claims := application.ClaimService{
		Allocator:        alloc,
		Strategy:         alloc.Strategy(),
		RetryAfter:       cfg.RetryAfter,
		AdmissionTimeout: cfg.ConcurrencyTimeout,
		Stats:            stats,
		Observer:         metrics,
		Clock:            clock.NewRealClock(),
		Logger:           logger.Named("claims"),
	}
	if cfg.RateEnabled {
		limiters := infra.NewPilotLimiterStore(cfg.RateRPS, cfg.RateBurst)
		limiters.StartJanitor(ctx)
		claims.Limits = limiters
	}
	if cfg.ConcurrencyMax > 0 {
		claims.Admission = infra.NewChanPool(cfg.ConcurrencyMax)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.Handle("/claims", httpapi.NewHandler(claims, alloc.Slots(), logger,
		httpapi.WithPilotHeader(cfg.RateKeyHeader),
		httpapi.WithTrustedForwardedFor(cfg.TrustXFF),
	))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("listening", "addr", cfg.ListenAddr, "strategy", alloc.Strategy(), "slots", alloc.Slots())
	logger.Infow("rate", "enabled", cfg.RateEnabled, "rps", cfg.RateRPS, "burst", cfg.RateBurst, "pilotHeader", cfg.RateKeyHeader, "trustXFF", cfg.TrustXFF)
	logger.Infow("stats", "enabled", cfg.StatsEnabled, "redisAddr", cfg.StatsRedisAddr, "bucket", cfg.StatsBucket, "ttl", cfg.StatsTTL)
	logger.Infow("concurrency", "max", cfg.ConcurrencyMax, "acquireTimeout", cfg.ConcurrencyTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("server error", "err", err)
		os.Exit(1)
	}
}
