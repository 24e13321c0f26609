package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Allocator representa a capacidade "reservar uma pista para o instante T".
//
// Claim é atômico em relação a qualquer outro Claim na mesma instância.
// ok=false é o resultado Unavailable: pool esgotado para aquele instante.
// Não é erro; quem chama decide se tenta outro instante ou desiste.
type Allocator interface {
	Claim(at time.Time) (slot *Slot, ok bool)
}

// OccupancyReader expõe uma leitura consistente das reservas de um instante.
type OccupancyReader interface {
	Booked(at time.Time) []*Slot
}

// Strategy identifica a primitiva que guarda a seção crítica.
type Strategy string

const (
	StrategyMutex     Strategy = "mutex"
	StrategyQueue     Strategy = "queue"
	StrategySemaphore Strategy = "semaphore"
)

// Strategies lista todas as estratégias suportadas, em ordem estável.
var Strategies = []Strategy{StrategyMutex, StrategyQueue, StrategySemaphore}

var (
	ErrUnknownStrategy = errors.New("unknown allocation strategy")
	ErrAllocatorClosed = errors.New("allocator closed")
)

func ParseStrategy(s string) (Strategy, error) {
	v := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Strategies {
		if v == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}
