package infra

import "sync"

type mutexGuard struct {
	mu sync.Mutex
}

func (g *mutexGuard) run(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
}

func (g *mutexGuard) close() {}
