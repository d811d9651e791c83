// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/metrics"
)

// Job is a unit of scheduled work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs. Every execution, scheduled or
// triggered, flows through runJob so the per-job counters and duration
// histogram cover both paths.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job with a six-field cron schedule (seconds first).
// Schedule examples:
//   - "0 0 9 * * *"   - 9 AM daily
//   - "@every 30m"    - every 30 minutes
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.runJob(job)
	})

	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.runJob(job)
}

func (s *Scheduler) runJob(job Job) error {
	name := job.Name()
	s.log.Debug().Str("job", name).Msg("Running job")

	start := time.Now()
	err := job.Run()
	elapsed := time.Since(start)

	metrics.JobDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		metrics.JobRuns.WithLabelValues(name, "error").Inc()
		s.log.Error().
			Err(err).
			Str("job", name).
			Dur("elapsed", elapsed).
			Msg("Job failed")
		return err
	}

	metrics.JobRuns.WithLabelValues(name, "ok").Inc()
	s.log.Debug().
		Str("job", name).
		Dur("elapsed", elapsed).
		Msg("Job completed")
	return nil
}
