package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugoutapp/dugout/internal/domain"
)

func TestRoundTripDurability(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)

	s.CreateGame(gameInput("Yankees", "Red Sox"))
	s.CreateGame(gameInput("Dodgers", "Giants"))
	s.CreateGame(gameInput("Cubs", "Cardinals"))
	notes := "fade the public"
	in := betInput("50")
	in.Notes = &notes
	s.CreateBet(in)
	s.CreateBet(betInput("100"))
	_, err = s.SetBankroll(decimal.NewFromInt(500), decimal.RequireFromString("512.50"))
	require.NoError(t, err)

	before := struct {
		games []domain.Game
		bets  []domain.Bet
	}{s.ListGames(), s.ListBets()}

	// Simulate a process restart: everything below comes from the files.
	reloaded, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)

	games := reloaded.ListGames()
	require.Len(t, games, 3)
	for i := range games {
		assert.Equal(t, before.games[i].ID, games[i].ID)
		assert.Equal(t, before.games[i].HomeTeam, games[i].HomeTeam)
		assert.True(t, before.games[i].GameTime.Equal(games[i].GameTime),
			"timestamps must reload as time values")
		assert.True(t, before.games[i].CreatedAt.Equal(games[i].CreatedAt))
	}

	bets := reloaded.ListBets()
	require.Len(t, bets, 2)
	for i := range bets {
		assert.Equal(t, before.bets[i].ID, bets[i].ID)
		assert.True(t, before.bets[i].Stake.Equal(bets[i].Stake))
		assert.Equal(t, before.bets[i].ActualResult, bets[i].ActualResult)
	}
	require.NotNil(t, bets[1].Notes)
	assert.Equal(t, "fade the public", *bets[1].Notes)

	bankroll, ok := reloaded.GetBankroll()
	require.True(t, ok)
	assert.True(t, bankroll.InitialAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, bankroll.CurrentAmount.Equal(decimal.RequireFromString("512.50")))

	// Counters survive: the next ids continue where the last run stopped.
	g := reloaded.CreateGame(gameInput("Astros", "Rangers"))
	assert.Equal(t, int64(4), g.ID)
	b := reloaded.CreateBet(betInput("25"))
	assert.Equal(t, int64(3), b.ID)
}

func TestCorruptFileLoadsOthers(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)
	s.CreateGame(gameInput("Mets", "Phillies"))
	s.CreateRecommendation(domain.RecommendationInput{
		Game: "Mets vs Phillies", BetType: "moneyline", Odds: "-130", Confidence: 60, Prediction: "Mets",
	})
	s.CreateBet(betInput("75"))
	_, err = s.SetBankroll(decimal.NewFromInt(1000), decimal.NewFromInt(1000))
	require.NoError(t, err)

	// Corrupt only the bets file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, betsFile), []byte("{not json"), 0o644))

	reloaded, err := Open(dir, zerolog.Nop())
	require.NoError(t, err, "a corrupt file must not prevent startup")

	assert.Len(t, reloaded.ListGames(), 1)
	assert.Len(t, reloaded.ListRecommendations(), 1)
	assert.Empty(t, reloaded.ListBets(), "corrupt collection starts empty")
	_, ok := reloaded.GetBankroll()
	assert.True(t, ok)
}

func TestCountersClampedAfterLaggingWrite(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)
	s.CreateBet(betInput("10"))
	s.CreateBet(betInput("20"))

	// Simulate a crash between the collection write and the counters
	// write: the counters file still claims next bet id is 1.
	require.NoError(t, os.WriteFile(filepath.Join(dir, countersFile),
		[]byte(`{"games":1,"recommendations":1,"bets":1,"bankroll":1}`), 0o644))

	reloaded, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)

	b := reloaded.CreateBet(betInput("30"))
	assert.Equal(t, int64(3), b.ID, "recovered counter must not reissue an existing id")
}

func TestMissingFilesStartEmpty(t *testing.T) {
	s, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	assert.Empty(t, s.ListGames())
	assert.Empty(t, s.ListRecommendations())
	assert.Empty(t, s.ListBets())
	_, ok := s.GetBankroll()
	assert.False(t, ok)
}

func TestPersistedFileNamesAndShape(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)
	s.CreateGame(gameInput("Twins", "Tigers"))

	data, err := os.ReadFile(filepath.Join(dir, gamesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"homeTeam": "Twins"`)
	assert.Contains(t, string(data), `"source": "Manual Upload"`)

	counters, err := os.ReadFile(filepath.Join(dir, countersFile))
	require.NoError(t, err)
	assert.Contains(t, string(counters), `"games": 2`)
}
