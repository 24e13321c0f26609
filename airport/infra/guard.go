package infra

// guard executa fn com exclusão mútua em relação a qualquer outro run
// no mesmo guard. A primitiva é liberada em todos os caminhos de saída;
// um panic dentro de fn é repassado para quem chamou run.
type guard interface {
	run(fn func())
	close()
}
