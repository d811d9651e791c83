package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/ledger"
	"github.com/dugoutapp/dugout/internal/storage"
)

func newTestRouter(t *testing.T) (*chi.Mux, *ledger.Service) {
	t.Helper()
	store, err := storage.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	svc := ledger.New(store, ledger.ResettleCorrected, zerolog.Nop())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(svc, zerolog.Nop()).RegisterRoutes(r)
	})
	return r, svc
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

func TestGetBankrollBeforeSetup(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/api/bankroll", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bankroll_not_initialized", body["code"])
}

func TestSetBankrollDefaultsCurrentToInitial(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/bankroll", map[string]interface{}{"initialAmount": "500"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var bankroll domain.BankrollSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bankroll))
	assert.Equal(t, "500", bankroll.InitialAmount.String())
	assert.Equal(t, "500", bankroll.CurrentAmount.String())
}

func TestSetBankrollOverwriteReturnsOK(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/bankroll", map[string]interface{}{"initialAmount": "500"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/bankroll", map[string]interface{}{
		"initialAmount": "1000",
		"currentAmount": "750",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var bankroll domain.BankrollSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bankroll))
	assert.Equal(t, "1000", bankroll.InitialAmount.String())
	assert.Equal(t, "750", bankroll.CurrentAmount.String())
}

func TestSetBankrollRejectsNegative(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/bankroll", map[string]interface{}{"initialAmount": "-10"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation", body["code"])
}

func TestSummaryReflectsSettledBets(t *testing.T) {
	r, svc := newTestRouter(t)

	_, _, err := svc.SetBankroll(decimal.NewFromInt(500), decimal.NewFromInt(500))
	require.NoError(t, err)

	bet, err := svc.PlaceBet(domain.BetInput{
		Date:       "2026-06-14",
		Game:       "Red Sox @ Yankees",
		BetType:    "moneyline",
		Odds:       "+120",
		Confidence: 60,
		Stake:      decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	_, err = svc.UpdateBetResult(bet.ID, domain.ResultWin, nil)
	require.NoError(t, err)

	rec := doRequest(t, r, http.MethodGet, "/api/bankroll/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary ledger.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalBets)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, 0, summary.Pending)
	assert.Equal(t, "60", summary.TotalProfitLoss.String())
	assert.InDelta(t, 100.0, summary.WinRate, 0.001)
	assert.InDelta(t, 12.0, summary.ROI, 0.001)
}

func TestSummaryEmptyState(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/api/bankroll/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary ledger.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.TotalBets)
	assert.Zero(t, summary.WinRate)
	assert.Zero(t, summary.ROI)
}
