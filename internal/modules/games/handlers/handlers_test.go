package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/ledger"
	"github.com/dugoutapp/dugout/internal/storage"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Handler) {
	t.Helper()
	store, err := storage.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	svc := ledger.New(store, ledger.ResettleCorrected, zerolog.Nop())
	h := NewHandler(svc, zerolog.Nop())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	return r, h
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func gameBodies() []map[string]interface{} {
	return []map[string]interface{}{
		{"homeTeam": "Yankees", "awayTeam": "Red Sox", "gameTime": "2026-06-14T23:05:00Z", "homeOdds": "-150", "awayOdds": "+130"},
		{"homeTeam": "Dodgers", "awayTeam": "Giants", "gameTime": "2026-06-15T02:10:00Z", "homeOdds": "-200", "awayOdds": "+170"},
	}
}

func TestIngestAndListGames(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/games", gameBodies())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var games []domain.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	require.Len(t, games, 2)
	assert.Equal(t, int64(1), games[0].ID)
	assert.Equal(t, domain.SourceManual, games[0].Source, "missing source defaults to manual upload")
}

func TestIngestReplaceRestartsNumbering(t *testing.T) {
	r, _ := newTestRouter(t)

	doRequest(t, r, http.MethodPost, "/api/games", gameBodies())

	rec := doRequest(t, r, http.MethodPost, "/api/games?mode=replace", gameBodies()[:1])
	require.Equal(t, http.StatusCreated, rec.Code)

	var games []domain.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, int64(1), games[0].ID)
}

func TestIngestGamesValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/games", []map[string]interface{}{
		{"homeTeam": "", "awayTeam": "Red Sox", "gameTime": "2026-06-14T23:05:00Z"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation", body["code"])
}

type fakeRefreshJob struct {
	mu   sync.Mutex
	runs int
}

func (f *fakeRefreshJob) Run() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	return nil
}

func (f *fakeRefreshJob) Name() string { return "refresh" }

func (f *fakeRefreshJob) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func TestRefreshTriggersJob(t *testing.T) {
	r, h := newTestRouter(t)
	job := &fakeRefreshJob{}
	h.SetRefreshJob(job)

	rec := doRequest(t, r, http.MethodPost, "/api/games/refresh", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool { return job.count() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestRefreshWithoutFeedConfigured(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/games/refresh", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
