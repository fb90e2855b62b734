// Package scheduler runs periodic housekeeping jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = time.Minute

// Job is a named unit of periodic work.
type Job struct {
	Name    string
	Spec    string // cron expression or descriptor such as "@hourly"
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler owns a cron runner and the jobs registered on it.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]Job
}

// New registers the jobs. It fails on a duplicate name or an invalid schedule.
func New(jobs ...Job) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs: make(map[string]Job, len(jobs)),
	}

	for _, job := range jobs {
		if _, exists := s.jobs[job.Name]; exists {
			return nil, fmt.Errorf("duplicate job %q", job.Name)
		}
		if job.Timeout <= 0 {
			job.Timeout = defaultJobTimeout
		}

		if _, err := s.cron.AddFunc(job.Spec, func() {
			s.run(context.Background(), job)
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule job %q: %w", job.Name, err)
		}
		s.jobs[job.Name] = job
	}

	return s, nil
}

// Start runs the schedule until ctx is cancelled, then waits for running jobs.
func (s *Scheduler) Start(ctx context.Context) error {
	slog.Info("Scheduler started", "jobs", len(s.jobs))
	s.cron.Start()

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	slog.Info("Scheduler stopped")
	return nil
}

// RunNow executes a registered job immediately and returns its error.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(ctx, job)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	started := time.Now()
	if err := job.Run(ctx); err != nil {
		slog.Error("Scheduled job failed", "job", job.Name, "error", err)
		return err
	}

	slog.Debug("Scheduled job finished", "job", job.Name, "duration", time.Since(started))
	return nil
}
