// Package application contém o caso de uso de reserva de pistas.
//
// ClaimService decide, em ordem, se o piloto está dentro da sua taxa,
// se há vaga de atendimento e, só então, consulta o Allocator.
// Ele depende apenas do pacote domain (e do logger) e não conhece net/http.
package application
