package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

// Maintenance job names.
const (
	JobRateLimitCleanup   = "rate-limit-cleanup"
	JobRefreshTokenPurge  = "refresh-token-purge"
	JobSentEmailRetention = "sent-email-retention"
	JobStaleEmailRequeue  = "stale-email-requeue"
)

const (
	// SentEmailRetention is how long delivered emails are kept.
	SentEmailRetention = 30 * 24 * time.Hour
	// StaleProcessingTimeout is how long a job may sit in processing before it is retried.
	StaleProcessingTimeout = 15 * time.Minute
)

// Cleaner drops expired state; the login rate limiter satisfies it.
type Cleaner interface {
	Cleanup(ctx context.Context) error
}

// MaintenanceDeps are the stores the housekeeping jobs prune.
type MaintenanceDeps struct {
	RateLimiter Cleaner
	Tokens      adapter.TokenRepository
	EmailQueue  adapter.EmailQueueRepository
	Now         func() time.Time
}

// MaintenanceJobs builds the housekeeping jobs for the given stores. Nil stores are skipped.
func MaintenanceJobs(deps MaintenanceDeps) []Job {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	var jobs []Job

	if deps.RateLimiter != nil {
		jobs = append(jobs, Job{
			Name: JobRateLimitCleanup,
			Spec: "@every 5m",
			Run:  deps.RateLimiter.Cleanup,
		})
	}

	if deps.Tokens != nil {
		jobs = append(jobs, Job{
			Name: JobRefreshTokenPurge,
			Spec: "@hourly",
			Run: func(ctx context.Context) error {
				n, err := deps.Tokens.PurgeRefreshTokens(ctx, now())
				if err != nil {
					return fmt.Errorf("failed to purge refresh tokens: %w", err)
				}
				slog.Info("Purged refresh tokens", "count", n)
				return nil
			},
		})
	}

	if deps.EmailQueue != nil {
		jobs = append(jobs, Job{
			Name: JobSentEmailRetention,
			Spec: "@daily",
			Run: func(ctx context.Context) error {
				n, err := deps.EmailQueue.DeleteSentBefore(ctx, now().Add(-SentEmailRetention))
				if err != nil {
					return fmt.Errorf("failed to delete sent emails: %w", err)
				}
				slog.Info("Deleted sent emails", "count", n)
				return nil
			},
		}, Job{
			Name: JobStaleEmailRequeue,
			Spec: "@every 10m",
			Run: func(ctx context.Context) error {
				current := now()
				n, err := deps.EmailQueue.RequeueStale(ctx, current.Add(-StaleProcessingTimeout), current)
				if err != nil {
					return fmt.Errorf("failed to requeue stale emails: %w", err)
				}
				if n > 0 {
					slog.Warn("Requeued stale email jobs", "count", n)
				}
				return nil
			},
		})
	}

	return jobs
}
