package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Instant é a chave de igualdade exata de um time.Time: segundos Unix mais
// nanossegundos. Cobre todo o intervalo de time.Time (UnixNano não cobre) e
// ignora location e leitura monotônica.
type Instant struct {
	Sec  int64
	Nsec int32
}

func InstantOf(at time.Time) Instant {
	return Instant{Sec: at.Unix(), Nsec: int32(at.Nanosecond())}
}

func (i Instant) Time() time.Time { return time.Unix(i.Sec, int64(i.Nsec)).UTC() }

// String serve como chave externa (ex.: Redis).
func (i Instant) String() string { return fmt.Sprintf("%d.%09d", i.Sec, i.Nsec) }

// Slot é um recurso alocável (uma pista) com o registro de reservas por instante.
//
// ID e Index são imutáveis após a criação. O mapa de reservas só pode ser lido
// ou alterado dentro da seção crítica do Allocator dono do Pool.
type Slot struct {
	ID    uuid.UUID
	Index int

	// ausência da chave equivale a livre.
	bookings map[Instant]bool
}

func newSlot(index int) *Slot {
	return &Slot{
		ID:       uuid.New(),
		Index:    index,
		bookings: make(map[Instant]bool),
	}
}

func (s *Slot) bookedAt(key Instant) bool { return s.bookings[key] }

func (s *Slot) book(key Instant) { s.bookings[key] = true }
