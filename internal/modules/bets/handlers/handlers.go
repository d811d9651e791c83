// Package handlers provides HTTP handlers for the bet lifecycle: placing,
// editing, settling and deleting wagers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/ledger"
)

// Handler provides HTTP handlers for bet endpoints.
type Handler struct {
	ledger *ledger.Service
	log    zerolog.Logger
}

func NewHandler(svc *ledger.Service, log zerolog.Logger) *Handler {
	return &Handler{
		ledger: svc,
		log:    log.With().Str("handler", "bets").Logger(),
	}
}

// HandleList handles GET /api/bets, newest first. An optional
// ?recommendationId= filters to bets placed against one recommendation.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if recParam := r.URL.Query().Get("recommendationId"); recParam != "" {
		recID, err := strconv.ParseInt(recParam, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "validation", "Invalid recommendationId")
			return
		}
		h.writeJSON(w, http.StatusOK, h.ledger.GetBetsByRecommendation(recID))
		return
	}

	h.writeJSON(w, http.StatusOK, h.ledger.ListBets())
}

// HandleGet handles GET /api/bets/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.betID(w, r)
	if !ok {
		return
	}

	bet, err := h.ledger.GetBet(id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, bet)
}

// HandlePlace handles POST /api/bets
func (h *Handler) HandlePlace(w http.ResponseWriter, r *http.Request) {
	var input domain.BetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	bet, err := h.ledger.PlaceBet(input)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, bet)
}

// HandleUpdate handles PUT /api/bets/{id}. Only descriptive fields are
// editable here; settlement goes through the result endpoint.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.betID(w, r)
	if !ok {
		return
	}

	var edit ledger.BetEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	bet, err := h.ledger.UpdateBet(id, edit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, bet)
}

type resultUpdate struct {
	Result domain.Result `json:"result"`
	Notes  *string       `json:"notes,omitempty"`
}

// HandleUpdateResult handles PUT /api/bets/{id}/result. Declaring win or
// loss settles the bet against the bankroll; declaring pending reverses a
// previous settlement.
func (h *Handler) HandleUpdateResult(w http.ResponseWriter, r *http.Request) {
	id, ok := h.betID(w, r)
	if !ok {
		return
	}

	var update resultUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	bet, err := h.ledger.UpdateBetResult(id, update.Result, update.Notes)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, bet)
}

// HandleDelete handles DELETE /api/bets/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.betID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteBet(id); err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) betID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "Invalid bet id")
		return 0, false
	}
	return id, true
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
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "Bet not found")
	case errors.Is(err, domain.ErrBankrollNotInitialized):
		h.writeError(w, http.StatusBadRequest, "bankroll_not_initialized", "Bankroll must be set up first")
	default:
		h.log.Error().Err(err).Msg("Unexpected handler error")
		h.writeError(w, http.StatusInternalServerError, "internal", "Internal error")
	}
}
