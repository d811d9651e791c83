package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dugoutapp/dugout/internal/domain"
	"github.com/dugoutapp/dugout/internal/metrics"
)

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

// One file per collection plus one for the id counters. Whole-file
// overwrite on every write, last write wins; there is no journal.
const (
	gamesFile           = "games.json"
	recommendationsFile = "recommendations.json"
	betsFile            = "bets.json"
	bankrollFile        = "bankroll.json"
	countersFile        = "counters.json"
)

// DataFiles returns the names of every file the store writes to its data
// directory. Backup tooling archives exactly this set.
func DataFiles() []string {
	return []string{gamesFile, recommendationsFile, betsFile, bankrollFile, countersFile}
}

// loadAll repopulates the in-memory collections from the data directory.
// A file that is missing is skipped; a file that fails to parse is logged
// and its collection starts empty, without blocking the other four.
func (s *Store) loadAll() error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var games []domain.Game
	if s.loadFile(gamesFile, &games) {
		for i := range games {
			g := games[i]
			s.games[g.ID] = &g
		}
	}

	var recs []domain.Recommendation
	if s.loadFile(recommendationsFile, &recs) {
		for i := range recs {
			r := recs[i]
			s.recommendations[r.ID] = &r
		}
	}

	var bets []domain.Bet
	if s.loadFile(betsFile, &bets) {
		for i := range bets {
			b := bets[i]
			s.bets[b.ID] = &b
		}
	}

	var bankroll domain.BankrollSettings
	if s.loadFile(bankrollFile, &bankroll) {
		s.bankroll = &bankroll
	}

	var c counters
	if s.loadFile(countersFile, &c) {
		s.counters = c
	}

	s.clampCounters()

	s.log.Info().
		Int("games", len(s.games)).
		Int("recommendations", len(s.recommendations)).
		Int("bets", len(s.bets)).
		Bool("bankroll", s.bankroll != nil).
		Msg("Loaded ledger state")
	return nil
}

// loadFile reads and parses one data file into v. Returns false when the
// file is absent or unreadable; parse failures are partial-load warnings,
// never fatal.
func (s *Store) loadFile(name string, v interface{}) bool {
	path := filepath.Join(s.dataDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("file", name).Msg("Failed to read data file, starting empty")
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("Failed to parse data file, starting empty")
		return false
	}
	return true
}

// clampCounters repairs counters that lag their collections. A crash
// between the collection write and the counters write can leave the
// counters file behind the data; ids must never collide after recovery.
func (s *Store) clampCounters() {
	clamp := func(next int64, maxID int64) int64 {
		if next <= maxID {
			return maxID + 1
		}
		if next < 1 {
			return 1
		}
		return next
	}

	var maxGame, maxRec, maxBet int64
	for id := range s.games {
		if id > maxGame {
			maxGame = id
		}
	}
	for id := range s.recommendations {
		if id > maxRec {
			maxRec = id
		}
	}
	for id := range s.bets {
		if id > maxBet {
			maxBet = id
		}
	}

	s.counters.Games = clamp(s.counters.Games, maxGame)
	s.counters.Recommendations = clamp(s.counters.Recommendations, maxRec)
	s.counters.Bets = clamp(s.counters.Bets, maxBet)
	if s.counters.Bankroll < 1 {
		s.counters.Bankroll = 1
	}
}

// saveFile serializes v and overwrites the named data file. Failures are
// logged and counted; the in-memory state is already committed, so callers
// are never blocked or rolled back on I/O errors.
func (s *Store) saveFile(name string, v interface{}) {
	path := filepath.Join(s.dataDir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		metrics.PersistenceFailures.Inc()
		s.log.Error().Err(err).Str("file", name).Msg("Failed to serialize collection")
		return
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		metrics.PersistenceFailures.Inc()
		s.log.Error().Err(err).Str("file", name).Msg("Failed to write data file")
	}
}

// The persist helpers assume s.mu is held by the caller. Each serializes
// the entire collection ordered by id so files stay stable across runs.

func (s *Store) persistGames() {
	out := make([]domain.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, *g)
	}
	sortByID(out, func(g domain.Game) int64 { return g.ID })
	s.saveFile(gamesFile, out)
}

func (s *Store) persistRecommendations() {
	out := make([]domain.Recommendation, 0, len(s.recommendations))
	for _, r := range s.recommendations {
		out = append(out, *r)
	}
	sortByID(out, func(r domain.Recommendation) int64 { return r.ID })
	s.saveFile(recommendationsFile, out)
}

func (s *Store) persistBets() {
	out := make([]domain.Bet, 0, len(s.bets))
	for _, b := range s.bets {
		out = append(out, *b)
	}
	sortByID(out, func(b domain.Bet) int64 { return b.ID })
	s.saveFile(betsFile, out)
}

func (s *Store) persistBankroll() {
	if s.bankroll == nil {
		return
	}
	s.saveFile(bankrollFile, s.bankroll)
}

func (s *Store) persistCounters() {
	s.saveFile(countersFile, s.counters)
}
