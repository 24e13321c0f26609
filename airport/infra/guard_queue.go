package infra

import (
	"sync"

	"airport-gateway/airport/domain"
)

// queueGuard serializa as execuções num único worker (fila serial).
// Quem chama bloqueia até o seu job terminar e o resultado estar disponível.
type queueGuard struct {
	jobs chan queueJob
	quit chan struct{}
	once sync.Once
}

type queueJob struct {
	fn   func()
	done chan any // recebe o valor do panic, ou nil
}

func newQueueGuard() *queueGuard {
	g := &queueGuard{
		jobs: make(chan queueJob),
		quit: make(chan struct{}),
	}
	go g.loop()
	return g
}

func (g *queueGuard) loop() {
	for {
		select {
		case job := <-g.jobs:
			g.exec(job)
		case <-g.quit:
			return
		}
	}
}

func (g *queueGuard) exec(job queueJob) {
	// o worker sobrevive a um panic; o panic volta para o goroutine de origem.
	defer func() { job.done <- recover() }()
	job.fn()
}

func (g *queueGuard) run(fn func()) {
	select {
	case <-g.quit:
		panic(domain.ErrAllocatorClosed)
	default:
	}

	job := queueJob{fn: fn, done: make(chan any, 1)}
	select {
	case g.jobs <- job:
	case <-g.quit:
		panic(domain.ErrAllocatorClosed)
	}
	if p := <-job.done; p != nil {
		panic(p)
	}
}

func (g *queueGuard) close() {
	g.once.Do(func() { close(g.quit) })
}
