package domain

import "context"

// AdmissionPool limita quantos pedidos disputam o Allocator ao mesmo tempo.
//
// Não confundir com Pool: aqui a vaga é de atendimento, não uma pista.
// Acquire bloqueia até conseguir vaga ou até o ctx encerrar; o release
// retornado deve ser chamado exatamente uma vez.
type AdmissionPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
