// Package handlers provides HTTP handlers for the games collection.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/ledger"
)

// RefreshJob is a manually triggerable odds refresh.
type RefreshJob interface {
	Run() error
	Name() string
}

// Handler provides HTTP handlers for game endpoints.
type Handler struct {
	ledger     *ledger.Service
	refreshJob RefreshJob
	log        zerolog.Logger
}

func NewHandler(svc *ledger.Service, log zerolog.Logger) *Handler {
	return &Handler{
		ledger: svc,
		log:    log.With().Str("handler", "games").Logger(),
	}
}

// SetRefreshJob wires the manual refresh trigger (set after job registration).
func (h *Handler) SetRefreshJob(job RefreshJob) {
	h.refreshJob = job
}

// HandleList handles GET /api/games
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ledger.ListGames())
}

// HandleIngest handles POST /api/games. The body is an array of game
// inputs; ?mode=replace swaps the whole slate and restarts numbering,
// the default appends.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var inputs []domain.GameInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	kind := ledger.IngestAppend
	if r.URL.Query().Get("mode") == "replace" {
		kind = ledger.IngestReplace
	}

	games, err := h.ledger.IngestGames(kind, inputs)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, games)
}

// HandleRefresh handles POST /api/games/refresh. The refresh runs in the
// background; the fresh slate shows up on the next GET.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refreshJob == nil {
		h.writeError(w, http.StatusServiceUnavailable, "upstream", "Odds feed is not configured")
		return
	}

	go func() {
		if err := h.refreshJob.Run(); err != nil {
			h.log.Error().Err(err).Msg("Manual refresh failed")
		}
	}()

	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
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
