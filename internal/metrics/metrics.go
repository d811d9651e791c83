// Package metrics exposes Prometheus counters for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BetsPlaced counts bets accepted by the ledger.
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dugout_bets_placed_total",
		Help: "Number of bets placed.",
	})

	// Settlements counts bet result updates by declared outcome.
	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dugout_settlements_total",
		Help: "Number of bet settlements, by declared result.",
	}, []string{"result"})

	// PersistenceFailures counts failed durability writes. Writes are
	// best-effort: the in-memory mutation stands even when the write fails.
	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dugout_persistence_failures_total",
		Help: "Number of failed writes to the data directory.",
	})

	// RefreshRuns counts scheduled odds/picks refresh runs by outcome.
	RefreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dugout_refresh_runs_total",
		Help: "Number of refresh job runs, by outcome.",
	}, []string{"outcome"})

	// JobRuns counts background job executions by job name and outcome.
	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dugout_job_runs_total",
		Help: "Number of background job runs, by job and outcome.",
	}, []string{"job", "outcome"})

	// JobDuration tracks background job wall time.
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dugout_job_duration_seconds",
		Help:    "Background job run duration in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
	}, []string{"job"})
)
