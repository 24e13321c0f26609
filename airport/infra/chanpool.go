package infra

import (
	"context"
	"sync"

	"airport-gateway/airport/domain"
)

type chanPool struct {
	sem chan struct{}
}

// NewChanPool cria um pool de admissão baseado em channel com capacidade `max`.
func NewChanPool(max int) domain.AdmissionPool {
	return &chanPool{sem: make(chan struct{}, max)}
}

// Acquire devolve um release idempotente: chamar duas vezes não libera duas vagas.
func (p *chanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	case <-ctx.Done():
		return nil, false
	}
}
