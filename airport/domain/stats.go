package domain

import (
	"context"
	"time"
)

// ClaimEvent representa o resultado de um pedido de reserva.
//
// Observação: SlotIndex é -1 quando Outcome != OutcomeGranted.
type ClaimEvent struct {
	Strategy  Strategy
	Pilot     Key
	At        time.Time
	Outcome   Outcome
	SlotIndex int

	// RecordedAt é quando a decisão foi tomada (relógio do serviço).
	RecordedAt time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de reservas.
//
// Implementações podem armazenar em Redis, memória, etc.
// Quem chama trata erro como best-effort (não derruba a reserva).
type StatsStore interface {
	Record(ctx context.Context, ev ClaimEvent) error
}

// ClaimObserver recebe métricas de cada pedido (ex.: Prometheus).
// wait é o tempo até a decisão, incluindo a espera pela seção crítica.
type ClaimObserver interface {
	ObserveClaim(strategy Strategy, outcome Outcome, wait time.Duration)
}
