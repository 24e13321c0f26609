// Package infra contém implementações concretas para os contratos definidos
// no pacote domain.
//
// Exemplos:
//   - Allocator: pool de pistas guardado por mutex, fila serial ou semáforo
//   - ChanPool: semáforo simples para limite de concorrência HTTP
//   - LimiterStore: token bucket por piloto usando golang.org/x/time/rate
//   - Stats: contadores de reserva em memória ou Redis
//   - Metrics: coletores Prometheus
package infra
