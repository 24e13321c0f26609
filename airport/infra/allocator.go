package infra

import (
	"sync/atomic"
	"time"

	"airport-gateway/airport/domain"
)

// Allocator é a implementação de domain.Allocator: um Pool próprio
// mais um guard que protege a varredura inteira (lock grosso, não por slot).
type Allocator struct {
	strategy domain.Strategy
	pool     *domain.Pool
	guard    guard
	closed   atomic.Bool
}

// NewAllocator cria um allocator com `slots` pistas usando a estratégia indicada.
// slots <= 0 usa domain.DefaultSlotCount.
func NewAllocator(strategy domain.Strategy, slots int) (*Allocator, error) {
	strategy, err := domain.ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}

	var g guard
	switch strategy {
	case domain.StrategyMutex:
		g = &mutexGuard{}
	case domain.StrategyQueue:
		g = newQueueGuard()
	case domain.StrategySemaphore:
		g = newSemaphoreGuard()
	}
	return &Allocator{
		strategy: strategy,
		pool:     domain.NewPool(slots),
		guard:    g,
	}, nil
}

func NewMutexAllocator(slots int) *Allocator {
	a, _ := NewAllocator(domain.StrategyMutex, slots)
	return a
}

// NewQueueAllocator inicia um worker; chame Close para encerrá-lo.
func NewQueueAllocator(slots int) *Allocator {
	a, _ := NewAllocator(domain.StrategyQueue, slots)
	return a
}

func NewSemaphoreAllocator(slots int) *Allocator {
	a, _ := NewAllocator(domain.StrategySemaphore, slots)
	return a
}

// Claim implementa domain.Allocator.
func (a *Allocator) Claim(at time.Time) (slot *domain.Slot, ok bool) {
	a.mustBeOpen()
	a.guard.run(func() {
		slot, ok = a.pool.Claim(at)
	})
	return slot, ok
}

// Booked implementa domain.OccupancyReader.
func (a *Allocator) Booked(at time.Time) (out []*domain.Slot) {
	a.mustBeOpen()
	a.guard.run(func() {
		out = a.pool.Booked(at)
	})
	return out
}

func (a *Allocator) Strategy() domain.Strategy { return a.strategy }

func (a *Allocator) Slots() int { return a.pool.Len() }

// Close libera recursos da estratégia (o worker da fila) e é idempotente.
// Depois de Close, Claim e Booked entram em panic com domain.ErrAllocatorClosed
// em todas as estratégias.
func (a *Allocator) Close() error {
	a.closed.Store(true)
	a.guard.close()
	return nil
}

func (a *Allocator) mustBeOpen() {
	if a.closed.Load() {
		panic(domain.ErrAllocatorClosed)
	}
}
