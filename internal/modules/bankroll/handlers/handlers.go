// Package handlers provides HTTP handlers for bankroll setup and the
// aggregate betting summary.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/ledger"
)

// Handler provides HTTP handlers for bankroll endpoints.
type Handler struct {
	ledger *ledger.Service
	log    zerolog.Logger
}

func NewHandler(svc *ledger.Service, log zerolog.Logger) *Handler {
	return &Handler{
		ledger: svc,
		log:    log.With().Str("handler", "bankroll").Logger(),
	}
}

// HandleGet handles GET /api/bankroll
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	bankroll, ok := h.ledger.GetBankroll()
	if !ok {
		h.writeError(w, http.StatusNotFound, "bankroll_not_initialized", "Bankroll is not set up")
		return
	}

	h.writeJSON(w, http.StatusOK, bankroll)
}

type setupRequest struct {
	InitialAmount decimal.Decimal  `json:"initialAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
}

// HandleSet handles POST /api/bankroll. Omitting currentAmount starts the
// running balance at the initial amount. Re-posting overwrites the record
// but keeps its creation time.
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	current := req.InitialAmount
	if req.CurrentAmount != nil {
		current = *req.CurrentAmount
	}

	bankroll, created, err := h.ledger.SetBankroll(req.InitialAmount, current)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, bankroll)
}

// HandleSummary handles GET /api/bankroll/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ledger.GetBankrollSummary())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]string{"error": message, "code": code})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.writeError(w, http.StatusBadRequest, "validation", vErr.Error())
	default:
		h.log.Error().Err(err).Msg("Unexpected handler error")
		h.writeError(w, http.StatusInternalServerError, "internal", "Internal error")
	}
}
