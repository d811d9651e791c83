// Package storage holds the authoritative in-memory state of the ledger and
// keeps it durable across restarts with one JSON file per collection.
package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dugoutapp/dugout/internal/domain"
)

// counters holds the next id for each of the four id spaces.
type counters struct {
	Games           int64 `json:"games"`
	Recommendations int64 `json:"recommendations"`
	Bets            int64 `json:"bets"`
	Bankroll        int64 `json:"bankroll"`
}

// Store owns the four entity collections and their id issuance. Every
// mutating call re-serializes the affected collection (whole file, not a
// diff) before returning; persistence failures are logged and do not roll
// back the in-memory mutation.
type Store struct {
	mu      sync.RWMutex
	dataDir string
	log     zerolog.Logger

	games           map[int64]*domain.Game
	recommendations map[int64]*domain.Recommendation
	bets            map[int64]*domain.Bet
	bankroll        *domain.BankrollSettings
	counters        counters
}

// Open creates a Store rooted at dataDir and loads any state persisted by a
// previous run. A file that fails to parse leaves its collection empty and
// does not prevent the other files from loading.
func Open(dataDir string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		dataDir:         dataDir,
		log:             log.With().Str("component", "storage").Logger(),
		games:           make(map[int64]*domain.Game),
		recommendations: make(map[int64]*domain.Recommendation),
		bets:            make(map[int64]*domain.Bet),
		counters:        counters{Games: 1, Recommendations: 1, Bets: 1, Bankroll: 1},
	}

	if err := s.loadAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload discards the in-memory state and re-reads the data files. Used
// after a backup restore replaces the files underneath a running store.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[int64]*domain.Game)
	s.recommendations = make(map[int64]*domain.Recommendation)
	s.bets = make(map[int64]*domain.Bet)
	s.bankroll = nil
	s.counters = counters{Games: 1, Recommendations: 1, Bets: 1, Bankroll: 1}

	return s.loadAll()
}

// ListGames returns all games ordered by id ascending.
func (s *Store) ListGames() []domain.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateGame assigns the next game id, stamps the ingestion time and
// defaults the provenance tag to "Manual Upload".
func (s *Store) CreateGame(input domain.GameInput) domain.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.createGameLocked(input)
	s.persistGames()
	s.persistCounters()
	return g
}

// ReplaceAllGames clears the collection and its counter, then recreates each
// input in order. Used for full-refresh ingestion, never incremental append.
func (s *Store) ReplaceAllGames(inputs []domain.GameInput) []domain.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[int64]*domain.Game, len(inputs))
	s.counters.Games = 1

	out := make([]domain.Game, 0, len(inputs))
	for _, input := range inputs {
		out = append(out, s.createGameLocked(input))
	}

	s.persistGames()
	s.persistCounters()
	return out
}

func (s *Store) createGameLocked(input domain.GameInput) domain.Game {
	source := input.Source
	if source == "" {
		source = domain.SourceManual
	}

	g := &domain.Game{
		ID:        s.counters.Games,
		HomeTeam:  input.HomeTeam,
		AwayTeam:  input.AwayTeam,
		GameTime:  input.GameTime,
		HomeOdds:  input.HomeOdds,
		AwayOdds:  input.AwayOdds,
		TotalLine: input.TotalLine,
		TotalOdds: input.TotalOdds,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	s.counters.Games++
	s.games[g.ID] = g
	return *g
}

// ListRecommendations returns all recommendations ordered by id ascending.
func (s *Store) ListRecommendations() []domain.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Recommendation, 0, len(s.recommendations))
	for _, r := range s.recommendations {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateRecommendation assigns the next id, stamps the generation time and
// fills any missing provenance field with the sentinel default.
func (s *Store) CreateRecommendation(input domain.RecommendationInput) domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.createRecommendationLocked(input)
	s.persistRecommendations()
	s.persistCounters()
	return r
}

// ReplaceAllRecommendations discards the whole collection and recreates it
// from inputs, restarting ids at 1.
func (s *Store) ReplaceAllRecommendations(inputs []domain.RecommendationInput) []domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recommendations = make(map[int64]*domain.Recommendation, len(inputs))
	s.counters.Recommendations = 1

	out := make([]domain.Recommendation, 0, len(inputs))
	for _, input := range inputs {
		out = append(out, s.createRecommendationLocked(input))
	}

	s.persistRecommendations()
	s.persistCounters()
	return out
}

func (s *Store) createRecommendationLocked(input domain.RecommendationInput) domain.Recommendation {
	r := &domain.Recommendation{
		ID:               s.counters.Recommendations,
		Game:             input.Game,
		BetType:          input.BetType,
		Odds:             input.Odds,
		Confidence:       input.Confidence,
		Prediction:       input.Prediction,
		GameSource:       defaultProvenance(input.GameSource),
		BetTypeSource:    defaultProvenance(input.BetTypeSource),
		OddsSource:       defaultProvenance(input.OddsSource),
		ConfidenceSource: defaultProvenance(input.ConfidenceSource),
		PredictionSource: defaultProvenance(input.PredictionSource),
		CreatedAt:        time.Now().UTC(),
	}
	s.counters.Recommendations++
	s.recommendations[r.ID] = r
	return *r
}

func defaultProvenance(tag string) string {
	if tag == "" {
		return domain.SourceAIGenerated
	}
	return tag
}

// ListBets returns all bets sorted by creation time descending, newest
// first. Ties fall back to id descending.
func (s *Store) ListBets() []domain.Bet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Bet, 0, len(s.bets))
	for _, b := range s.bets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// GetBet returns the bet with the given id, or ErrNotFound.
func (s *Store) GetBet(id int64) (domain.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bets[id]
	if !ok {
		return domain.Bet{}, domain.ErrNotFound
	}
	return *b, nil
}

// GetBetsByRecommendation returns all bets referencing the given
// recommendation id, ordered by id ascending.
func (s *Store) GetBetsByRecommendation(recommendationID int64) []domain.Bet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Bet
	for _, b := range s.bets {
		if b.RecommendationID != nil && *b.RecommendationID == recommendationID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateBet assigns the next bet id and stamps timestamps. The bet starts
// pending with zero profit/loss.
func (s *Store) CreateBet(input domain.BetInput) domain.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	b := &domain.Bet{
		ID:               s.counters.Bets,
		RecommendationID: input.RecommendationID,
		Date:             input.Date,
		Game:             input.Game,
		BetType:          input.BetType,
		Odds:             input.Odds,
		Confidence:       input.Confidence,
		Stake:            input.Stake,
		Prediction:       input.Prediction,
		ActualResult:     domain.ResultPending,
		ProfitLoss:       decimal.Zero,
		BankrollAfter:    decimal.Zero,
		Notes:            input.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.counters.Bets++
	s.bets[b.ID] = b

	s.persistBets()
	s.persistCounters()
	return *b
}

// UpdateBet overwrites the stored bet with the same id, or ErrNotFound.
func (s *Store) UpdateBet(bet domain.Bet) (domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bets[bet.ID]; !ok {
		return domain.Bet{}, domain.ErrNotFound
	}

	stored := bet
	s.bets[bet.ID] = &stored

	s.persistBets()
	s.persistCounters()
	return bet, nil
}

// DeleteBet removes the bet with the given id. Deleting a settled bet does
// not reverse its bankroll effect.
func (s *Store) DeleteBet(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bets, id)

	s.persistBets()
	s.persistCounters()
	return nil
}

// GetBankroll returns the bankroll record if one has been set up.
func (s *Store) GetBankroll() (domain.BankrollSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bankroll == nil {
		return domain.BankrollSettings{}, false
	}
	return *s.bankroll, true
}

// SetBankroll overwrites the single bankroll record. Amounts must not be
// negative.
func (s *Store) SetBankroll(initial, current decimal.Decimal) (domain.BankrollSettings, error) {
	if initial.IsNegative() {
		return domain.BankrollSettings{}, domain.NewValidationError("initialAmount", "must not be negative")
	}
	if current.IsNegative() {
		return domain.BankrollSettings{}, domain.NewValidationError("currentAmount", "must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	createdAt := now
	if s.bankroll != nil {
		createdAt = s.bankroll.CreatedAt
	} else {
		s.counters.Bankroll++
	}

	s.bankroll = &domain.BankrollSettings{
		InitialAmount: initial,
		CurrentAmount: current,
		CreatedAt:     createdAt,
		UpdatedAt:     now,
	}

	s.persistBankroll()
	s.persistCounters()
	return *s.bankroll, nil
}

// SetBankrollAmount updates the running balance. It fails when no bankroll
// record exists yet; settlement must not invent one.
func (s *Store) SetBankrollAmount(amount decimal.Decimal) (domain.BankrollSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bankroll == nil {
		return domain.BankrollSettings{}, domain.ErrBankrollNotInitialized
	}

	s.bankroll.CurrentAmount = amount
	s.bankroll.UpdatedAt = time.Now().UTC()

	s.persistBankroll()
	s.persistCounters()
	return *s.bankroll, nil
}

// HasBankroll reports whether the bankroll record exists.
func (s *Store) HasBankroll() bool {
	_, ok := s.GetBankroll()
	return ok
}
