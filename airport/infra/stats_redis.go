package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"airport-gateway/airport/domain"

	"github.com/redis/go-redis/v9"
)

type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por instante.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackInstants bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackInstants(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackInstants = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "airport:claims",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record grava o evento num pipeline (uma ida ao Redis por reserva).
func (s *RedisStatsStore) Record(ctx context.Context, ev domain.ClaimEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	recorded := ev.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}

	field := ev.Outcome.String()

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if ev.Strategy != "" {
		pipe.HIncrBy(ctx, s.prefix+":strategy", string(ev.Strategy)+":"+field, 1)
	}

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, recorded.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackInstants {
		instantKey := s.prefix + ":instant:" + domain.InstantOf(ev.At).String()
		pipe.HIncrBy(ctx, instantKey, field, 1)
		if ev.Outcome == domain.OutcomeGranted {
			pipe.SAdd(ctx, instantKey+":slots", ev.SlotIndex)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, instantKey, s.ttl)
			pipe.Expire(ctx, instantKey+":slots", s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
