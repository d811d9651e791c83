package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/ledger"
	"github.com/dugoutapp/dugout/internal/metrics"
)

// GameSource fetches the current slate of games from an upstream odds feed.
type GameSource interface {
	FetchGames(ctx context.Context) ([]domain.GameInput, error)
}

// PickSource generates recommendations for a slate of games.
type PickSource interface {
	GeneratePicks(ctx context.Context, games []domain.Game) ([]domain.RecommendationInput, error)
}

// RefreshJob replaces the games collection from the odds feed and, when a
// pick source is configured, regenerates recommendations over the new slate.
type RefreshJob struct {
	ledger  *ledger.Service
	games   GameSource
	picks   PickSource
	timeout time.Duration
	log     zerolog.Logger
}

func NewRefreshJob(svc *ledger.Service, games GameSource, picks PickSource, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		ledger:  svc,
		games:   games,
		picks:   picks,
		timeout: 5 * time.Minute,
		log:     log.With().Str("job", "refresh").Logger(),
	}
}

func (j *RefreshJob) Name() string {
	return "refresh"
}

func (j *RefreshJob) Run() error {
	runID := uuid.New().String()
	log := j.log.With().Str("run_id", runID).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	inputs, err := j.games.FetchGames(ctx)
	if err != nil {
		metrics.RefreshRuns.WithLabelValues("fetch_failed").Inc()
		return fmt.Errorf("fetching games: %w", err)
	}

	games, err := j.ledger.IngestGames(ledger.IngestReplace, inputs)
	if err != nil {
		metrics.RefreshRuns.WithLabelValues("ingest_failed").Inc()
		return fmt.Errorf("ingesting games: %w", err)
	}
	log.Info().Int("games", len(games)).Msg("Games refreshed")

	if j.picks == nil || len(games) == 0 {
		metrics.RefreshRuns.WithLabelValues("ok").Inc()
		return nil
	}

	recInputs, err := j.picks.GeneratePicks(ctx, games)
	if err != nil {
		// The refreshed slate is already committed; stale picks are
		// better than no games.
		metrics.RefreshRuns.WithLabelValues("picks_failed").Inc()
		return fmt.Errorf("generating picks: %w", err)
	}

	recs, err := j.ledger.IngestRecommendations(recInputs)
	if err != nil {
		metrics.RefreshRuns.WithLabelValues("ingest_failed").Inc()
		return fmt.Errorf("ingesting recommendations: %w", err)
	}
	log.Info().Int("recommendations", len(recs)).Msg("Recommendations refreshed")

	metrics.RefreshRuns.WithLabelValues("ok").Inc()
	return nil
}
