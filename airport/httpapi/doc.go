// Package httpapi fornece o adapter HTTP (net/http) do serviço de reservas.
//
// Visão geral (camadas):
//
//   - domain: pistas, pool, resultados de reserva (sem dependência de net/http)
//   - application: ClaimService (rate limit por piloto, admissão, alocação)
//   - infra: estratégias de exclusão, semáforo, token bucket, stats, métricas
//   - httpapi (este pacote): rotas /claims e tradução de resultado para status/headers
//
// O handler só identifica o piloto (header, X-Forwarded-For opcional, IP)
// e mapeia o domain.Outcome devolvido pelo ClaimService:
//
//	granted     -> 201
//	unavailable -> 409
//	throttled   -> 429 + Retry-After
//	busy        -> 503
package httpapi
