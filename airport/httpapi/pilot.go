package httpapi

import (
	"net"
	"net/http"
	"strings"

	"airport-gateway/airport/domain"
)

// DefaultPilotHeader identifica o piloto quando nenhum header é configurado.
const DefaultPilotHeader = "X-Pilot-ID"

// pilotResolver decide a quem um pedido de reserva pertence: é a chave
// do token bucket por piloto.
type pilotResolver struct {
	header   string
	trustXFF bool
}

func (p pilotResolver) resolve(r *http.Request) domain.Key {
	if v := strings.TrimSpace(r.Header.Get(p.header)); v != "" {
		return domain.Key(v)
	}
	if p.trustXFF {
		// o primeiro endereço é o cliente original
		first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return domain.Key(ip)
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return domain.Key(host)
	}
	if r.RemoteAddr != "" {
		return domain.Key(r.RemoteAddr)
	}
	return "unknown"
}

type Option func(*handler)

// WithPilotHeader troca o header que identifica o piloto.
func WithPilotHeader(name string) Option {
	return func(h *handler) {
		if name = strings.TrimSpace(name); name != "" {
			h.pilots.header = name
		}
	}
}

// WithTrustedForwardedFor usa X-Forwarded-For quando o header do piloto falta.
// Só ligue atrás de um proxy que reescreve o header.
func WithTrustedForwardedFor(trust bool) Option {
	return func(h *handler) { h.pilots.trustXFF = trust }
}
