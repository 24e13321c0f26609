package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"airport-gateway/airport/application"
	"airport-gateway/airport/domain"
	"airport-gateway/internal/log"
)

type claimRequest struct {
	// ponteiro para distinguir "ausente" de time.Time zero.
	At *time.Time `json:"at"`
}

type slotView struct {
	SlotID    string `json:"slot_id"`
	SlotIndex int    `json:"slot_index"`
}

type claimResponse struct {
	slotView
	Pilot string    `json:"pilot"`
	At    time.Time `json:"at"`
}

type occupancyResponse struct {
	At     time.Time  `json:"at"`
	Booked []slotView `json:"booked"`
	Free   int        `json:"free"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	claims application.ClaimService
	slots  int
	pilots pilotResolver
	logger log.Logger
}

// NewHandler registra as rotas de reserva:
//
//	POST /claims           {"at": "<RFC3339Nano>"} -> 201 | 409 | 429 | 503 | 400
//	GET  /claims?at=<...>  ocupação do instante
//
// slots é o tamanho do pool, usado para calcular as pistas livres.
func NewHandler(claims application.ClaimService, slots int, logger log.Logger, opts ...Option) http.Handler {
	if logger == nil {
		logger = log.Nop()
	}
	h := &handler{
		claims: claims,
		slots:  slots,
		pilots: pilotResolver{header: DefaultPilotHeader},
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /claims", h.postClaim)
	mux.HandleFunc("GET /claims", h.getClaims)
	return mux
}

func (h *handler) postClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Debugw("invalid claim body", "err", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body: " + err.Error()})
		return
	}
	if req.At == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "at is required"})
		return
	}

	c := h.claims.Claim(r.Context(), domain.ClaimRequest{Pilot: h.pilots.resolve(r), At: *req.At})
	switch c.Outcome {
	case domain.OutcomeGranted:
		writeJSON(w, http.StatusCreated, claimResponse{slotView: view(c.Slot), Pilot: string(c.Pilot), At: c.At})
	case domain.OutcomeThrottled:
		w.Header().Set("Retry-After", retryAfterSeconds(c.RetryAfter))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many claims for pilot"})
	case domain.OutcomeBusy:
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "server busy"})
	default:
		writeJSON(w, http.StatusConflict, errorResponse{Error: "no slot available"})
	}
}

func (h *handler) getClaims(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "at is required"})
		return
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid at: " + err.Error()})
		return
	}

	booked, ok := h.claims.Booked(at)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "occupancy not supported"})
		return
	}

	resp := occupancyResponse{At: at, Booked: make([]slotView, 0, len(booked)), Free: h.slots - len(booked)}
	for _, s := range booked {
		resp.Booked = append(resp.Booked, view(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func view(s *domain.Slot) slotView {
	return slotView{SlotID: s.ID.String(), SlotIndex: s.Index}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
