// Package domain contains the core entities of the betting ledger.
// The domain layer is pure: no persistence or transport dependencies.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is the declared outcome of a bet.
type Result string

const (
	ResultPending Result = "pending"
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
)

// Valid reports whether r is one of the three known outcomes.
func (r Result) Valid() bool {
	switch r {
	case ResultPending, ResultWin, ResultLoss:
		return true
	}
	return false
}

// Provenance tag values for ingested data. Tags record which upstream
// source supplied a field and are used for trust display only.
const (
	SourceOddsAPI     = "The Odds API"
	SourceUploadedDoc = "Uploaded Document"
	SourceManual      = "Manual Upload"
	SourceAIGenerated = "AI Generated"
)

// Game is a scheduled matchup snapshot taken at ingestion time.
type Game struct {
	ID        int64     `json:"id"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	GameTime  time.Time `json:"gameTime"`
	HomeOdds  string    `json:"homeOdds"`
	AwayOdds  string    `json:"awayOdds"`
	TotalLine string    `json:"totalLine"`
	TotalOdds string    `json:"totalOdds"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// GameInput is the caller-supplied portion of a Game.
type GameInput struct {
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	GameTime  time.Time `json:"gameTime"`
	HomeOdds  string    `json:"homeOdds"`
	AwayOdds  string    `json:"awayOdds"`
	TotalLine string    `json:"totalLine"`
	TotalOdds string    `json:"totalOdds"`
	Source    string    `json:"source"`
}

// Recommendation is a single generated betting pick. It references a Game
// only by matchup text, never by id: the games collection may be replaced
// underneath it at any time.
type Recommendation struct {
	ID               int64     `json:"id"`
	Game             string    `json:"game"`
	BetType          string    `json:"betType"`
	Odds             string    `json:"odds"`
	Confidence       int       `json:"confidence"`
	Prediction       string    `json:"prediction"`
	GameSource       string    `json:"gameSource"`
	BetTypeSource    string    `json:"betTypeSource"`
	OddsSource       string    `json:"oddsSource"`
	ConfidenceSource string    `json:"confidenceSource"`
	PredictionSource string    `json:"predictionSource"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RecommendationInput is the caller-supplied portion of a Recommendation.
// Empty provenance fields default to SourceAIGenerated on creation.
type RecommendationInput struct {
	Game             string `json:"game"`
	BetType          string `json:"betType"`
	Odds             string `json:"odds"`
	Confidence       int    `json:"confidence"`
	Prediction       string `json:"prediction"`
	GameSource       string `json:"gameSource"`
	BetTypeSource    string `json:"betTypeSource"`
	OddsSource       string `json:"oddsSource"`
	ConfidenceSource string `json:"confidenceSource"`
	PredictionSource string `json:"predictionSource"`
}

// Bet is a user-placed wager. RecommendationID is a weak reference: the
// recommendation may be replaced or deleted without invalidating the bet.
//
// ProfitLoss and BankrollAfter are meaningful only once ActualResult is a
// settled outcome; while pending they hold zero.
type Bet struct {
	ID               int64           `json:"id"`
	RecommendationID *int64          `json:"recommendationId,omitempty"`
	Date             string          `json:"date"`
	Game             string          `json:"game"`
	BetType          string          `json:"betType"`
	Odds             string          `json:"odds"`
	Confidence       int             `json:"confidence"`
	Stake            decimal.Decimal `json:"stake"`
	Prediction       string          `json:"prediction"`
	ActualResult     Result          `json:"actualResult"`
	ProfitLoss       decimal.Decimal `json:"profitLoss"`
	BankrollAfter    decimal.Decimal `json:"bankrollAfter"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// BetInput is the caller-supplied portion of a Bet. Stake is fixed at
// creation; result, profit/loss and bankroll fields are owned by settlement.
type BetInput struct {
	RecommendationID *int64          `json:"recommendationId,omitempty"`
	Date             string          `json:"date"`
	Game             string          `json:"game"`
	BetType          string          `json:"betType"`
	Odds             string          `json:"odds"`
	Confidence       int             `json:"confidence"`
	Stake            decimal.Decimal `json:"stake"`
	Prediction       string          `json:"prediction"`
	Notes            *string         `json:"notes,omitempty"`
}

// BankrollSettings is the single running-balance record. At most one
// instance exists; CurrentAmount is mutated only by settlement.
type BankrollSettings struct {
	InitialAmount decimal.Decimal `json:"initialAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
