package domain

// Key identifica quem pede a reserva (id do piloto ou, na falta, o IP).
type Key string

// Limiter decide se um pedido é permitido agora.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém o limiter de cada piloto.
type LimiterStore interface {
	Get(Key) Limiter
}
