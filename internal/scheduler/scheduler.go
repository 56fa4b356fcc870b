// Package scheduler runs a job on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSpec runs every 30 minutes.
const DefaultSpec = "*/30 * * * *"

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler triggers a Job on a standard five-field cron expression.
// A trigger that fires while the previous run is still active is skipped.
type Scheduler struct {
	spec    string
	job     Job
	cron    *cron.Cron
	log     zerolog.Logger
	running atomic.Bool
	wg      sync.WaitGroup

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
	runs    int
	skipped int
}

// New validates spec and returns a Scheduler for job.
func New(spec string, job Job, log zerolog.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return &Scheduler{
		spec: spec,
		job:  job,
		cron: cron.New(),
		log:  log,
	}, nil
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for
// an in-flight run to finish. When immediate is set the job also runs once
// at startup.
func (s *Scheduler) Run(ctx context.Context, immediate bool) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Trigger(ctx) }); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.cron.Start()
	s.log.Info().Str("cron_expr", s.spec).Time("next_run", s.Next()).Msg("scheduler started")

	if immediate {
		s.Trigger(ctx)
	}

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.log.Info().Msg("scheduler stopped")
	return nil
}

// Trigger runs the job now unless a run is already in progress.
// It reports whether the job was started.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.mu.Lock()
		s.skipped++
		s.mu.Unlock()
		s.log.Warn().Msg("previous run still active, skipping")
		return false
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer s.running.Store(false)

	start := time.Now()
	err := s.job(ctx)

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.runs++
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Dur("duration", time.Since(start)).Msg("scheduled run failed")
	} else {
		s.log.Info().Dur("duration", time.Since(start)).Msg("scheduled run finished")
	}
	return true
}

// Next returns the next time the schedule fires after now.
func (s *Scheduler) Next() time.Time {
	sched, err := cron.ParseStandard(s.spec)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(time.Now())
}

// Stats reports completed and skipped runs and the last result.
type Stats struct {
	Runs    int
	Skipped int
	LastRun time.Time
	LastErr error
}

// Stats returns a copy of the run counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Runs: s.runs, Skipped: s.skipped, LastRun: s.lastRun, LastErr: s.lastErr}
}
