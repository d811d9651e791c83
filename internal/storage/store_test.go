package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugoutapp/dugout/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func gameInput(home, away string) domain.GameInput {
	return domain.GameInput{
		HomeTeam:  home,
		AwayTeam:  away,
		GameTime:  time.Date(2026, 6, 14, 19, 5, 0, 0, time.UTC),
		HomeOdds:  "-150",
		AwayOdds:  "+130",
		TotalLine: "8.5",
		TotalOdds: "-110",
	}
}

func betInput(stake string) domain.BetInput {
	return domain.BetInput{
		Date:       "2026-06-14",
		Game:       "Yankees vs Red Sox",
		BetType:    "moneyline",
		Odds:       "+120",
		Confidence: 70,
		Stake:      decimal.RequireFromString(stake),
		Prediction: "Yankees win",
	}
}

func TestCreateGameAssignsMonotonicIDs(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= 5; i++ {
		g := s.CreateGame(gameInput("Home", fmt.Sprintf("Away %d", i)))
		assert.Equal(t, int64(i), g.ID)
	}

	games := s.ListGames()
	require.Len(t, games, 5)
	for i, g := range games {
		assert.Equal(t, int64(i+1), g.ID)
	}
}

func TestCreateGameDefaultsSource(t *testing.T) {
	s := newTestStore(t)

	g := s.CreateGame(gameInput("Mets", "Braves"))
	assert.Equal(t, domain.SourceManual, g.Source)
	assert.False(t, g.CreatedAt.IsZero())

	tagged := gameInput("Cubs", "Cardinals")
	tagged.Source = domain.SourceOddsAPI
	g2 := s.CreateGame(tagged)
	assert.Equal(t, domain.SourceOddsAPI, g2.Source)
}

func TestReplaceAllGamesRestartsNumbering(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 4; i++ {
		s.CreateGame(gameInput("Old", "Game"))
	}

	inputs := []domain.GameInput{
		gameInput("Dodgers", "Giants"),
		gameInput("Padres", "Rockies"),
	}
	replaced := s.ReplaceAllGames(inputs)

	require.Len(t, replaced, 2)
	assert.Equal(t, int64(1), replaced[0].ID)
	assert.Equal(t, int64(2), replaced[1].ID)
	assert.Equal(t, "Dodgers", replaced[0].HomeTeam)

	games := s.ListGames()
	require.Len(t, games, 2, "no prior games may survive a replace-all")
	assert.Equal(t, "Padres", games[1].HomeTeam)

	// Numbering continues from the new generation.
	g := s.CreateGame(gameInput("Astros", "Rangers"))
	assert.Equal(t, int64(3), g.ID)
}

func TestReplaceAllRecommendationsDiscardsOld(t *testing.T) {
	s := newTestStore(t)

	s.CreateRecommendation(domain.RecommendationInput{
		Game: "A vs B", BetType: "moneyline", Odds: "+100", Confidence: 50, Prediction: "A",
	})
	s.CreateRecommendation(domain.RecommendationInput{
		Game: "C vs D", BetType: "total", Odds: "-110", Confidence: 60, Prediction: "over",
	})

	replaced := s.ReplaceAllRecommendations([]domain.RecommendationInput{
		{Game: "E vs F", BetType: "run line", Odds: "+150", Confidence: 55, Prediction: "E -1.5"},
	})

	require.Len(t, replaced, 1)
	assert.Equal(t, int64(1), replaced[0].ID)

	recs := s.ListRecommendations()
	require.Len(t, recs, 1)
	assert.Equal(t, "E vs F", recs[0].Game)
}

func TestRecommendationProvenanceDefaults(t *testing.T) {
	s := newTestStore(t)

	r := s.CreateRecommendation(domain.RecommendationInput{
		Game:       "Twins vs Royals",
		BetType:    "moneyline",
		Odds:       "-120",
		Confidence: 65,
		Prediction: "Twins win",
		OddsSource: domain.SourceOddsAPI,
	})

	assert.Equal(t, domain.SourceAIGenerated, r.GameSource)
	assert.Equal(t, domain.SourceAIGenerated, r.BetTypeSource)
	assert.Equal(t, domain.SourceOddsAPI, r.OddsSource)
	assert.Equal(t, domain.SourceAIGenerated, r.ConfidenceSource)
	assert.Equal(t, domain.SourceAIGenerated, r.PredictionSource)
}

func TestCreateBetDefaults(t *testing.T) {
	s := newTestStore(t)

	b := s.CreateBet(betInput("50"))
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, domain.ResultPending, b.ActualResult)
	assert.True(t, b.ProfitLoss.IsZero())
	assert.True(t, b.BankrollAfter.IsZero())
	assert.Nil(t, b.Notes)
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)
}

func TestListBetsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	first := s.CreateBet(betInput("10"))
	second := s.CreateBet(betInput("20"))
	third := s.CreateBet(betInput("30"))

	bets := s.ListBets()
	require.Len(t, bets, 3)
	assert.Equal(t, third.ID, bets[0].ID)
	assert.Equal(t, second.ID, bets[1].ID)
	assert.Equal(t, first.ID, bets[2].ID)
}

func TestGetBetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBet(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetBetsByRecommendation(t *testing.T) {
	s := newTestStore(t)

	recID := int64(7)
	linked := betInput("25")
	linked.RecommendationID = &recID
	s.CreateBet(linked)
	s.CreateBet(betInput("50"))
	s.CreateBet(linked)

	bets := s.GetBetsByRecommendation(recID)
	require.Len(t, bets, 2)
	assert.Equal(t, int64(1), bets[0].ID)
	assert.Equal(t, int64(3), bets[1].ID)
}

func TestDeleteBet(t *testing.T) {
	s := newTestStore(t)

	b := s.CreateBet(betInput("50"))
	require.NoError(t, s.DeleteBet(b.ID))
	assert.ErrorIs(t, s.DeleteBet(b.ID), domain.ErrNotFound)
	assert.Empty(t, s.ListBets())
}

func TestSetBankrollValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SetBankroll(decimal.NewFromInt(-1), decimal.NewFromInt(100))
	assert.True(t, domain.IsValidation(err))

	_, err = s.SetBankroll(decimal.NewFromInt(100), decimal.NewFromInt(-1))
	assert.True(t, domain.IsValidation(err))

	_, ok := s.GetBankroll()
	assert.False(t, ok, "failed setup must not leave a bankroll behind")
}

func TestSetBankrollAmountRequiresSetup(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SetBankrollAmount(decimal.NewFromInt(500))
	assert.ErrorIs(t, err, domain.ErrBankrollNotInitialized)

	_, err = s.SetBankroll(decimal.NewFromInt(500), decimal.NewFromInt(500))
	require.NoError(t, err)

	updated, err := s.SetBankrollAmount(decimal.NewFromInt(560))
	require.NoError(t, err)
	assert.True(t, updated.CurrentAmount.Equal(decimal.NewFromInt(560)))
	assert.True(t, updated.InitialAmount.Equal(decimal.NewFromInt(500)))
}

func TestSetBankrollOverwritePreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SetBankroll(decimal.NewFromInt(500), decimal.NewFromInt(500))
	require.NoError(t, err)

	second, err := s.SetBankroll(decimal.NewFromInt(1000), decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.InitialAmount.Equal(decimal.NewFromInt(1000)))
}
