// Package domain define os tipos e contratos do domínio de reserva de pistas
// (airstrips) do aeroporto.
//
// Este pacote não depende de net/http nem de primitivas de sincronização.
// A lógica de varredura e marcação (scan-and-mark) vive aqui, uma única vez;
// cada estratégia de exclusão mútua em infra apenas a envolve.
package domain
