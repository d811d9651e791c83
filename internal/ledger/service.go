package ledger

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/metrics"
	"github.com/dugoutapp/dugout/internal/storage"
)

// IngestKind selects between appending to and replacing the games
// collection.
type IngestKind string

const (
	IngestAppend  IngestKind = "append"
	IngestReplace IngestKind = "replace"
)

// Service is the ledger facade. All mutating operations run under a single
// process-wide lock: settlement reads the bankroll, computes a delta and
// writes it back, which must never interleave with another writer.
type Service struct {
	mu    sync.Mutex
	store *storage.Store
	mode  ResettleMode
	log   zerolog.Logger
}

// New creates a ledger service over the given store.
func New(store *storage.Store, mode ResettleMode, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		mode:  mode,
		log:   log.With().Str("component", "ledger").Logger(),
	}
}

// Reload re-reads the ledger state from disk. Taken under the service lock
// so a restore never interleaves with a settlement in flight.
func (s *Service) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Reload()
}

// ListGames returns the current game slate.
func (s *Service) ListGames() []domain.Game {
	return s.store.ListGames()
}

// IngestGames validates and stores a batch of games. Replace semantics
// clear the collection and restart numbering; append adds to the current
// generation.
func (s *Service) IngestGames(kind IngestKind, inputs []domain.GameInput) ([]domain.Game, error) {
	for _, in := range inputs {
		if strings.TrimSpace(in.HomeTeam) == "" {
			return nil, domain.NewValidationError("homeTeam", "is required")
		}
		if strings.TrimSpace(in.AwayTeam) == "" {
			return nil, domain.NewValidationError("awayTeam", "is required")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var games []domain.Game
	if kind == IngestReplace {
		games = s.store.ReplaceAllGames(inputs)
	} else {
		games = make([]domain.Game, 0, len(inputs))
		for _, in := range inputs {
			games = append(games, s.store.CreateGame(in))
		}
	}

	s.log.Info().Str("kind", string(kind)).Int("count", len(games)).Msg("Ingested games")
	return games, nil
}

// ListRecommendations returns the current pick set.
func (s *Service) ListRecommendations() []domain.Recommendation {
	return s.store.ListRecommendations()
}

// IngestRecommendations replaces the whole recommendation collection with
// the given picks. Old picks are discarded and ids restart at 1.
func (s *Service) IngestRecommendations(inputs []domain.RecommendationInput) ([]domain.Recommendation, error) {
	for _, in := range inputs {
		if in.Confidence < 1 || in.Confidence > 100 {
			return nil, domain.NewValidationError("confidence", "must be between 1 and 100")
		}
		if _, err := domain.ParseAmericanOdds(in.Odds); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.store.ReplaceAllRecommendations(inputs)
	s.log.Info().Int("count", len(recs)).Msg("Replaced recommendations")
	return recs, nil
}

// ListBets returns all bets, newest first.
func (s *Service) ListBets() []domain.Bet {
	return s.store.ListBets()
}

// GetBet returns one bet by id.
func (s *Service) GetBet(id int64) (domain.Bet, error) {
	return s.store.GetBet(id)
}

// GetBetsByRecommendation returns the bets placed against a recommendation.
func (s *Service) GetBetsByRecommendation(recommendationID int64) []domain.Bet {
	return s.store.GetBetsByRecommendation(recommendationID)
}

// PlaceBet validates and records a new bet. The bet starts pending; stake
// and odds are fixed here and re-validated defensively even when copied
// from a recommendation.
func (s *Service) PlaceBet(input domain.BetInput) (domain.Bet, error) {
	if err := validateBetInput(input); err != nil {
		return domain.Bet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bet := s.store.CreateBet(input)
	metrics.BetsPlaced.Inc()

	s.log.Info().
		Int64("bet_id", bet.ID).
		Str("game", bet.Game).
		Str("odds", bet.Odds).
		Str("stake", bet.Stake.String()).
		Msg("Placed bet")
	return bet, nil
}

func validateBetInput(input domain.BetInput) error {
	if strings.TrimSpace(input.Date) == "" {
		return domain.NewValidationError("date", "is required")
	}
	if !input.Stake.IsPositive() {
		return domain.NewValidationError("stake", "must be positive")
	}
	if input.Confidence < 1 || input.Confidence > 100 {
		return domain.NewValidationError("confidence", "must be between 1 and 100")
	}
	if _, err := domain.ParseAmericanOdds(input.Odds); err != nil {
		return err
	}
	return nil
}

// BetEdit carries the editable fields of a bet. Nil fields are left
// unchanged. Stake is editable only while the bet is pending.
type BetEdit struct {
	Date       *string          `json:"date,omitempty"`
	Game       *string          `json:"game,omitempty"`
	BetType    *string          `json:"betType,omitempty"`
	Odds       *string          `json:"odds,omitempty"`
	Confidence *int             `json:"confidence,omitempty"`
	Stake      *decimal.Decimal `json:"stake,omitempty"`
	Prediction *string          `json:"prediction,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

// UpdateBet applies an edit to an existing bet. Settlement fields are not
// editable here; use UpdateBetResult.
func (s *Service) UpdateBet(id int64, edit BetEdit) (domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bet, err := s.store.GetBet(id)
	if err != nil {
		return domain.Bet{}, err
	}

	if edit.Date != nil {
		if strings.TrimSpace(*edit.Date) == "" {
			return domain.Bet{}, domain.NewValidationError("date", "is required")
		}
		bet.Date = *edit.Date
	}
	if edit.Game != nil {
		bet.Game = *edit.Game
	}
	if edit.BetType != nil {
		bet.BetType = *edit.BetType
	}
	if edit.Odds != nil {
		if _, err := domain.ParseAmericanOdds(*edit.Odds); err != nil {
			return domain.Bet{}, err
		}
		bet.Odds = *edit.Odds
	}
	if edit.Confidence != nil {
		if *edit.Confidence < 1 || *edit.Confidence > 100 {
			return domain.Bet{}, domain.NewValidationError("confidence", "must be between 1 and 100")
		}
		bet.Confidence = *edit.Confidence
	}
	if edit.Stake != nil {
		if bet.ActualResult != domain.ResultPending {
			return domain.Bet{}, domain.NewValidationError("stake", "cannot change after settlement")
		}
		if !edit.Stake.IsPositive() {
			return domain.Bet{}, domain.NewValidationError("stake", "must be positive")
		}
		bet.Stake = *edit.Stake
	}
	if edit.Prediction != nil {
		bet.Prediction = *edit.Prediction
	}
	if edit.Notes != nil {
		bet.Notes = edit.Notes
	}

	bet.UpdatedAt = time.Now().UTC()
	return s.store.UpdateBet(bet)
}

// UpdateBetResult settles (or re-settles) a bet: it converts the declared
// result into a profit/loss figure, applies it to the bankroll and records
// both on the bet. The bankroll must exist before any state changes.
func (s *Service) UpdateBetResult(id int64, result domain.Result, notes *string) (domain.Bet, error) {
	if !result.Valid() {
		return domain.Bet{}, domain.NewValidationError("result", "must be pending, win or loss")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bet, err := s.store.GetBet(id)
	if err != nil {
		return domain.Bet{}, err
	}

	bankroll, ok := s.store.GetBankroll()
	if !ok {
		return domain.Bet{}, domain.ErrBankrollNotInitialized
	}

	profitLoss, err := ComputeProfitLoss(bet.Odds, bet.Stake, result)
	if err != nil {
		return domain.Bet{}, err
	}

	newAmount := applySettlement(s.mode, bankroll.CurrentAmount, bet, profitLoss)
	if _, err := s.store.SetBankrollAmount(newAmount); err != nil {
		return domain.Bet{}, err
	}

	bet.ActualResult = result
	bet.ProfitLoss = profitLoss
	if result == domain.ResultPending {
		bet.BankrollAfter = decimal.Zero
	} else {
		bet.BankrollAfter = newAmount
	}
	if notes != nil {
		bet.Notes = notes
	}
	bet.UpdatedAt = time.Now().UTC()

	updated, err := s.store.UpdateBet(bet)
	if err != nil {
		return domain.Bet{}, err
	}

	metrics.Settlements.WithLabelValues(string(result)).Inc()
	s.log.Info().
		Int64("bet_id", id).
		Str("result", string(result)).
		Str("profit_loss", profitLoss.String()).
		Str("bankroll", newAmount.String()).
		Msg("Settled bet")
	return updated, nil
}

// DeleteBet removes a bet. The bankroll is deliberately untouched:
// reversing a settled bet's effect is the caller's responsibility.
func (s *Service) DeleteBet(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteBet(id)
}

// GetBankroll returns the bankroll record if set up.
func (s *Service) GetBankroll() (domain.BankrollSettings, bool) {
	return s.store.GetBankroll()
}

// SetBankroll creates or overwrites the single bankroll record. It returns
// created=true when no record existed before.
func (s *Service) SetBankroll(initial, current decimal.Decimal) (domain.BankrollSettings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := s.store.HasBankroll()
	bankroll, err := s.store.SetBankroll(initial, current)
	if err != nil {
		return domain.BankrollSettings{}, false, err
	}
	return bankroll, !existed, nil
}
