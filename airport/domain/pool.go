package domain

import "time"

// DefaultSlotCount é o tamanho do pool quando nenhum valor positivo é informado.
const DefaultSlotCount = 5

// Pool é a coleção ordenada e de tamanho fixo de Slots.
//
// A ordem é definida na construção e nunca muda: o menor índice livre vence.
// Pool não é seguro para uso concorrente; quem o protege é o Allocator.
type Pool struct {
	slots []*Slot
}

func NewPool(n int) *Pool {
	if n <= 0 {
		n = DefaultSlotCount
	}
	p := &Pool{slots: make([]*Slot, n)}
	for i := range p.slots {
		p.slots[i] = newSlot(i)
	}
	return p
}

func (p *Pool) Len() int { return len(p.slots) }

// Claim varre os slots em ordem e reserva o primeiro livre para `at`.
// Retorna ok=false quando todos já estão reservados (nenhuma mutação acontece).
//
// Deve ser chamado dentro da seção crítica.
func (p *Pool) Claim(at time.Time) (*Slot, bool) {
	key := InstantOf(at)
	for _, s := range p.slots {
		if !s.bookedAt(key) {
			s.book(key)
			return s, true
		}
	}
	return nil, false
}

// Booked retorna os slots reservados para `at`, na ordem do pool.
// Não cria entradas no mapa de reservas.
//
// Deve ser chamado dentro da seção crítica.
func (p *Pool) Booked(at time.Time) []*Slot {
	key := InstantOf(at)
	var out []*Slot
	for _, s := range p.slots {
		if s.bookedAt(key) {
			out = append(out, s)
		}
	}
	return out
}
