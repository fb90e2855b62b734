package email

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

type memoryQueue struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]entity.EmailJob
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{jobs: make(map[uuid.UUID]entity.EmailJob)}
}

func (q *memoryQueue) Create(_ context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = *job
	return nil
}

func (q *memoryQueue) GetPendingJobs(_ context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.EmailJob
	for _, j := range q.jobs {
		if j.Status == entity.EmailStatusPending && !j.ScheduledAt.After(now) {
			j := j
			out = append(out, &j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ScheduledAt.Before(out[k].ScheduledAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (q *memoryQueue) Update(_ context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = *job
	return nil
}

func (q *memoryQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return nil, domainerror.ErrEmailJobNotFound
	}
	return &j, nil
}

func (q *memoryQueue) GetByRecipient(_ context.Context, email string) ([]*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.EmailJob
	for _, j := range q.jobs {
		if j.RecipientEmail == email {
			j := j
			out = append(out, &j)
		}
	}
	return out, nil
}

func (q *memoryQueue) DeleteSentBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (q *memoryQueue) RequeueStale(_ context.Context, staleBefore, now time.Time) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var n int64
	for id, j := range q.jobs {
		if j.Status == entity.EmailStatusProcessing && j.UpdatedAt.Before(staleBefore) {
			j.Status = entity.EmailStatusPending
			j.UpdatedAt = now
			q.jobs[id] = j
			n++
		}
	}
	return n, nil
}

// cancelAwareQueue rejects writes made with a cancelled context, like a real driver.
type cancelAwareQueue struct {
	*memoryQueue
}

func (q cancelAwareQueue) Update(ctx context.Context, job *entity.EmailJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return q.memoryQueue.Update(ctx, job)
}
