// Package handlers provides HTTP handlers for betting recommendations.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/ledger"
)

// PickGenerator produces recommendations for a slate of games.
type PickGenerator interface {
	GeneratePicks(ctx context.Context, games []domain.Game) ([]domain.RecommendationInput, error)
}

// Handler provides HTTP handlers for recommendation endpoints.
type Handler struct {
	ledger *ledger.Service
	picks  PickGenerator
	log    zerolog.Logger
}

func NewHandler(svc *ledger.Service, picks PickGenerator, log zerolog.Logger) *Handler {
	return &Handler{
		ledger: svc,
		picks:  picks,
		log:    log.With().Str("handler", "recommendations").Logger(),
	}
}

// HandleList handles GET /api/recommendations
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ledger.ListRecommendations())
}

// HandleIngest handles POST /api/recommendations. The body is an array of
// recommendation inputs; the whole collection is replaced and numbering
// restarts at 1.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var inputs []domain.RecommendationInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	recs, err := h.ledger.IngestRecommendations(inputs)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, recs)
}

// HandleGenerate handles POST /api/recommendations/generate. Picks are
// generated over the current slate and replace the collection.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.picks == nil {
		h.writeError(w, http.StatusServiceUnavailable, "upstream", "Pick generation is not configured")
		return
	}

	games := h.ledger.ListGames()
	if len(games) == 0 {
		h.writeError(w, http.StatusBadRequest, "validation", "No games to analyze")
		return
	}

	inputs, err := h.picks.GeneratePicks(r.Context(), games)
	if err != nil {
		h.log.Error().Err(err).Msg("Pick generation failed")
		h.writeError(w, http.StatusBadGateway, "upstream", "Pick generation failed")
		return
	}

	recs, err := h.ledger.IngestRecommendations(inputs)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, recs)
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
		h.writeError(w, http.StatusNotFound, "not_found", "Not found")
	default:
		h.log.Error().Err(err).Msg("Unexpected handler error")
		h.writeError(w, http.StatusInternalServerError, "internal", "Internal error")
	}
}
