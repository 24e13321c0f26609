package domain

import "time"

// Outcome classifica o resultado de um pedido de reserva.
type Outcome int

const (
	// OutcomeGranted: uma pista foi reservada para o instante.
	OutcomeGranted Outcome = iota
	// OutcomeUnavailable: todas as pistas já estão reservadas para o instante.
	OutcomeUnavailable
	// OutcomeThrottled: o piloto excedeu sua taxa de pedidos; o pool não foi consultado.
	OutcomeThrottled
	// OutcomeBusy: não houve vaga de atendimento a tempo; o pool não foi consultado.
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeThrottled:
		return "throttled"
	case OutcomeBusy:
		return "busy"
	}
	return "unknown"
}

// ClaimRequest é o pedido de um piloto por uma pista num instante exato.
type ClaimRequest struct {
	Pilot Key
	At    time.Time
}

// Claim é o resultado de um pedido visto pela aplicação.
//
// Só OutcomeGranted altera o pool. Unavailable é resultado normal, não erro:
// quem pede decide se tenta outro instante. RetryAfter só vem preenchido em
// OutcomeThrottled e diz quando o mesmo piloto pode pedir de novo.
type Claim struct {
	ClaimRequest
	Slot       *Slot
	Outcome    Outcome
	RetryAfter time.Duration
}

func (c Claim) Granted() bool { return c.Outcome == OutcomeGranted }
