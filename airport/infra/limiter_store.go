package infra

import (
	"context"
	"sync"
	"time"

	"airport-gateway/airport/domain"

	"golang.org/x/time/rate"
)

// PilotLimiterStore mantém um token bucket (x/time/rate) por piloto,
// com expiração de pilotos inativos.
type PilotLimiterStore struct {
	mu           sync.Mutex
	pilots       map[domain.Key]*pilotEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type pilotEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type LimiterOption func(*PilotLimiterStore)

func WithIdleTTL(d time.Duration) LimiterOption {
	return func(s *PilotLimiterStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) LimiterOption {
	return func(s *PilotLimiterStore) { s.cleanupEvery = d }
}

// WithNow troca o relógio usado para lastSeen (testes).
func WithNow(now func() time.Time) LimiterOption {
	return func(s *PilotLimiterStore) { s.now = now }
}

func NewPilotLimiterStore(rps float64, burst int, opts ...LimiterOption) *PilotLimiterStore {
	s := &PilotLimiterStore{
		pilots:       make(map[domain.Key]*pilotEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PilotLimiterStore) RPS() float64 { return float64(s.rps) }

func (s *PilotLimiterStore) Burst() int { return s.burst }

// Get implementa domain.LimiterStore.
func (s *PilotLimiterStore) Get(key domain.Key) domain.Limiter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.pilots[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.pilots[key] = &pilotEntry{lim: lim, lastSeen: now}
	return lim
}

// Len retorna quantos pilotos têm limiter ativo.
func (s *PilotLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pilots)
}

func (s *PilotLimiterStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.pilots {
		if ent.lastSeen.Before(cutoff) {
			delete(s.pilots, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa pilotos inativos periodicamente.
// Pare cancelando o contexto.
func (s *PilotLimiterStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
