// Package harness dispara muitos Claim simultâneos contra um único Allocator
// e verifica que nenhuma pista foi concedida duas vezes para o mesmo instante.
//
// Os instantes são calculados uma única vez, antes do fan-out: gerar "agora"
// dentro de cada goroutine transformaria um teste de mesmo instante num teste
// de instantes distintos sem ninguém perceber.
package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"airport-gateway/airport/domain"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

type Mode string

const (
	ModeSame     Mode = "same"
	ModeDistinct Mode = "distinct"
)

// Grant é uma reserva concedida durante uma rodada.
type Grant struct {
	At     time.Time
	SlotID uuid.UUID
	Index  int
}

// Duplicate aponta uma pista concedida mais de uma vez para o mesmo instante.
type Duplicate struct {
	At     time.Time
	SlotID uuid.UUID
	Count  int
}

type Report struct {
	Mode        Mode
	Requests    int
	Granted     int
	Unavailable int

	// Unique conta ids distintos entre todas as concessões (todos os instantes).
	Unique     int
	Duplicates []Duplicate
	Grants     []Grant
	Elapsed    time.Duration
}

// Same dispara `requests` claims, todos para o mesmo instante `at`.
func Same(ctx context.Context, a domain.Allocator, at time.Time, requests int) (Report, error) {
	ats := make([]time.Time, requests)
	for i := range ats {
		ats[i] = at
	}
	return run(ctx, a, ModeSame, ats)
}

// Distinct dispara `requests` claims em instantes base, base+step, base+2*step...
func Distinct(ctx context.Context, a domain.Allocator, base time.Time, step time.Duration, requests int) (Report, error) {
	if step <= 0 {
		return Report{}, fmt.Errorf("distinct mode needs a positive step, got %s", step)
	}
	ats := make([]time.Time, requests)
	for i := range ats {
		ats[i] = base.Add(time.Duration(i) * step)
	}
	return run(ctx, a, ModeDistinct, ats)
}

func run(ctx context.Context, a domain.Allocator, mode Mode, ats []time.Time) (Report, error) {
	var (
		mu     sync.Mutex
		grants []Grant
		start  = make(chan struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, at := range ats {
		at := at
		g.Go(func() error {
			select {
			case <-start:
			case <-gctx.Done():
				return gctx.Err()
			}
			slot, ok := a.Claim(at)
			if !ok {
				return nil
			}
			mu.Lock()
			grants = append(grants, Grant{At: at, SlotID: slot.ID, Index: slot.Index})
			mu.Unlock()
			return nil
		})
	}

	began := time.Now()
	close(start)
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r := Report{
		Mode:        mode,
		Requests:    len(ats),
		Granted:     len(grants),
		Unavailable: len(ats) - len(grants),
		Grants:      grants,
		Elapsed:     time.Since(began),
	}
	r.Unique, r.Duplicates = analyze(grants)
	return r, nil
}

func analyze(grants []Grant) (unique int, dups []Duplicate) {
	type pair struct {
		at domain.Instant
		id uuid.UUID
	}
	ids := make(map[uuid.UUID]struct{})
	perInstant := make(map[pair]int)
	firstAt := make(map[pair]time.Time)
	var order []pair

	for _, gr := range grants {
		ids[gr.SlotID] = struct{}{}
		p := pair{at: domain.InstantOf(gr.At), id: gr.SlotID}
		if perInstant[p] == 0 {
			order = append(order, p)
			firstAt[p] = gr.At
		}
		perInstant[p]++
	}
	for _, p := range order {
		if n := perInstant[p]; n > 1 {
			dups = append(dups, Duplicate{At: firstAt[p], SlotID: p.id, Count: n})
		}
	}
	return len(ids), dups
}

// Check devolve todas as violações encontradas, agregadas num multierror,
// ou nil se a rodada respeitou as invariantes para um pool de `slots` pistas.
func (r Report) Check(slots int) error {
	var result *multierror.Error

	for _, d := range r.Duplicates {
		result = multierror.Append(result, fmt.Errorf("slot %s granted %d times for %s", d.SlotID, d.Count, d.At.Format(time.RFC3339Nano)))
	}

	switch r.Mode {
	case ModeSame:
		want := r.Requests
		if slots < want {
			want = slots
		}
		if r.Granted != want {
			result = multierror.Append(result, fmt.Errorf("same instant: granted %d, want %d", r.Granted, want))
		}
		if r.Unavailable != r.Requests-want {
			result = multierror.Append(result, fmt.Errorf("same instant: unavailable %d, want %d", r.Unavailable, r.Requests-want))
		}
	case ModeDistinct:
		if r.Granted != r.Requests {
			result = multierror.Append(result, fmt.Errorf("distinct instants: granted %d, want %d", r.Granted, r.Requests))
		}
	}

	return result.ErrorOrNil()
}

// Compare verifica que estratégias diferentes, com a mesma entrada, chegaram
// ao mesmo resultado agregado. A atribuição pista → chamador pode diferir.
func Compare(reports map[domain.Strategy]Report) error {
	var (
		result   *multierror.Error
		ref      Report
		refName  domain.Strategy
		haveBase bool
	)
	for _, name := range domain.Strategies {
		r, ok := reports[name]
		if !ok {
			continue
		}
		if !haveBase {
			ref, refName, haveBase = r, name, true
			continue
		}
		if r.Mode != ref.Mode || r.Requests != ref.Requests {
			result = multierror.Append(result, fmt.Errorf("%s and %s ran different inputs", refName, name))
			continue
		}
		if r.Granted != ref.Granted || r.Unavailable != ref.Unavailable {
			result = multierror.Append(result, fmt.Errorf("%s granted %d/%d, %s granted %d/%d",
				refName, ref.Granted, ref.Requests, name, r.Granted, r.Requests))
		}
	}
	return result.ErrorOrNil()
}
