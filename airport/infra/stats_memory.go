package infra

import (
	"context"
	"sync"

	"airport-gateway/airport/domain"
)

type Counters struct {
	Granted     int64
	Unavailable int64
	Throttled   int64
	Busy        int64
}

func (c *Counters) add(o domain.Outcome) {
	switch o {
	case domain.OutcomeGranted:
		c.Granted++
	case domain.OutcomeUnavailable:
		c.Unavailable++
	case domain.OutcomeThrottled:
		c.Throttled++
	case domain.OutcomeBusy:
		c.Busy++
	}
}

// MemoryStatsStore guarda contadores de reserva em memória.
// Útil para testes e para o harness.
//
// Não faz expiração: com muitos instantes distintos, desligue trackInstants.
type MemoryStatsStore struct {
	mu         sync.Mutex
	total      Counters
	byStrategy map[domain.Strategy]Counters
	byInstant  map[domain.Instant]Counters

	trackInstants bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackInstants(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackInstants = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byStrategy: make(map[domain.Strategy]Counters),
		byInstant:  make(map[domain.Instant]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.ClaimEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Outcome)

	c := s.byStrategy[ev.Strategy]
	c.add(ev.Outcome)
	s.byStrategy[ev.Strategy] = c

	if s.trackInstants {
		key := domain.InstantOf(ev.At)
		i := s.byInstant[key]
		i.add(ev.Outcome)
		s.byInstant[key] = i
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByStrategy() map[domain.Strategy]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Strategy]Counters, len(s.byStrategy))
	for k, v := range s.byStrategy {
		out[k] = v
	}
	return out
}

// ByInstant indexa pelo instante pedido (domain.InstantOf).
func (s *MemoryStatsStore) ByInstant() map[domain.Instant]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Instant]Counters, len(s.byInstant))
	for k, v := range s.byInstant {
		out[k] = v
	}
	return out
}
