package infra

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// semaphoreGuard usa um semáforo contador com peso 1, equivalente a um mutex.
// Peso maior exigiria lock por slot e não é suportado.
type semaphoreGuard struct {
	sem *semaphore.Weighted
}

func newSemaphoreGuard() *semaphoreGuard {
	return &semaphoreGuard{sem: semaphore.NewWeighted(1)}
}

func (g *semaphoreGuard) run(fn func()) {
	// com context.Background o Acquire só retorna após conseguir a vaga.
	if err := g.sem.Acquire(context.Background(), 1); err != nil {
		panic(err)
	}
	defer g.sem.Release(1)
	fn()
}

func (g *semaphoreGuard) close() {}
