package application

import (
	"context"
	"time"

	"airport-gateway/airport/domain"
	"airport-gateway/internal/log"

	clock "github.com/jonboulle/clockwork"
)

// DefaultRetryAfter é sugerido ao piloto bloqueado quando RetryAfter não é configurado.
const DefaultRetryAfter = time.Second

// ClaimService envolve um Allocator com rate limit por piloto, limite de
// concorrência, estatísticas, métricas e log.
//
// O instante é sempre explícito: o serviço nunca gera "agora" por conta
// própria para a reserva. O relógio serve apenas para medir e carimbar eventos.
type ClaimService struct {
	Allocator domain.Allocator
	Strategy  domain.Strategy

	// Limits é opcional; sem ele nenhum piloto é bloqueado.
	Limits     domain.LimiterStore
	RetryAfter time.Duration

	// Admission é opcional. AdmissionTimeout <= 0 espera até o ctx encerrar.
	Admission        domain.AdmissionPool
	AdmissionTimeout time.Duration

	Stats    domain.StatsStore
	Observer domain.ClaimObserver
	Clock    clock.Clock
	Logger   log.Logger
}

func (s ClaimService) Claim(ctx context.Context, req domain.ClaimRequest) domain.Claim {
	if s.Clock == nil {
		s.Clock = clock.NewRealClock()
	}
	if s.Logger == nil {
		s.Logger = log.Nop()
	}

	start := s.Clock.Now()
	c := s.decide(ctx, req)
	wait := s.Clock.Since(start)

	if s.Observer != nil {
		s.Observer.ObserveClaim(s.Strategy, c.Outcome, wait)
	}

	ev := domain.ClaimEvent{
		Strategy:   s.Strategy,
		Pilot:      req.Pilot,
		At:         req.At,
		Outcome:    c.Outcome,
		SlotIndex:  -1,
		RecordedAt: s.Clock.Now(),
	}
	if c.Granted() {
		ev.SlotIndex = c.Slot.Index
		s.Logger.Debugw("slot granted", "pilot", req.Pilot, "at", req.At, "slot", c.Slot.Index, "slot_id", c.Slot.ID, "wait", wait)
	} else {
		s.Logger.Debugw("claim refused", "pilot", req.Pilot, "at", req.At, "outcome", c.Outcome, "wait", wait)
	}

	if s.Stats != nil {
		if err := s.Stats.Record(ctx, ev); err != nil {
			s.Logger.Warnw("claim stats record failed", "err", err)
		}
	}
	return c
}

func (s ClaimService) decide(ctx context.Context, req domain.ClaimRequest) domain.Claim {
	c := domain.Claim{ClaimRequest: req}

	if s.throttled(req.Pilot) {
		c.Outcome = domain.OutcomeThrottled
		c.RetryAfter = s.RetryAfter
		if c.RetryAfter <= 0 {
			c.RetryAfter = DefaultRetryAfter
		}
		return c
	}

	release, ok := s.admit(ctx)
	if !ok {
		c.Outcome = domain.OutcomeBusy
		return c
	}
	defer release()

	slot, ok := s.Allocator.Claim(req.At)
	if !ok {
		c.Outcome = domain.OutcomeUnavailable
		return c
	}
	c.Slot, c.Outcome = slot, domain.OutcomeGranted
	return c
}

func (s ClaimService) throttled(pilot domain.Key) bool {
	if s.Limits == nil {
		return false
	}
	lim := s.Limits.Get(pilot)
	return lim != nil && !lim.Allow()
}

func (s ClaimService) admit(ctx context.Context) (func(), bool) {
	if s.Admission == nil {
		return func() {}, true
	}
	if s.AdmissionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.AdmissionTimeout)
		defer cancel()
	}
	return s.Admission.Acquire(ctx)
}

// Booked devolve as pistas reservadas em `at` quando o Allocator expõe leitura.
// ok=false significa que o Allocator não implementa domain.OccupancyReader.
func (s ClaimService) Booked(at time.Time) ([]*domain.Slot, bool) {
	r, ok := s.Allocator.(domain.OccupancyReader)
	if !ok {
		return nil, false
	}
	return r.Booked(at), true
}
