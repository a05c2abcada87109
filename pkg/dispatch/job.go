package dispatch

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Job is the in-memory record of one bulk-send request. All fields except
// the cancel flag are written exclusively by the job's own run goroutine;
// readers take a consistent view through Snapshot.
type Job struct {
	id         uuid.UUID
	channel    Channel
	recipients []RecipientTask

	mu           sync.RWMutex
	status       JobStatus
	progress     int
	successCount int
	failedCount  int
	errs         []RecipientError
	createdAt    time.Time
	startedAt    time.Time
	updatedAt    time.Time
	completedAt  *time.Time

	// cancelRequested is set once by Cancel and read cooperatively by the
	// batch loop; it is never cleared.
	cancelRequested atomic.Bool
}

func newJob(channel Channel, recipients []RecipientTask) *Job {
	now := time.Now()
	tasks := make([]RecipientTask, len(recipients))
	copy(tasks, recipients)

	return &Job{
		id:         uuid.New(),
		channel:    channel,
		recipients: tasks,
		status:     JobStatusPending,
		createdAt:  now,
		updatedAt:  now,
	}
}

// ID returns the job identifier assigned at creation.
func (j *Job) ID() uuid.UUID { return j.id }

// Channel returns the transport channel the job dispatches over.
func (j *Job) Channel() Channel { return j.channel }

// Total returns the number of recipients in the job.
func (j *Job) Total() int { return len(j.recipients) }

// CancelRequested reports whether cancellation has been requested.
// The batch loop checks this before every batch and every item.
func (j *Job) CancelRequested() bool { return j.cancelRequested.Load() }

// requestCancel sets the cancel flag unless the job is already terminal.
// Cancelling a finished job is a no-op and reports false. The write lock
// keeps the terminal check and the flag set atomic with respect to finish.
func (j *Job) requestCancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status.Terminal() {
		return false
	}
	j.cancelRequested.Store(true)
	return true
}

// markProcessing transitions the job from pending to processing.
// Called once by the run goroutine before the first batch.
func (j *Job) markProcessing() {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	j.status = JobStatusProcessing
	j.startedAt = now
	j.updatedAt = now
}

// recordSuccess counts one delivered recipient and recomputes progress.
func (j *Job) recordSuccess() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.successCount++
	j.refreshProgress()
}

// recordFailure counts one permanently failed recipient, appends its error,
// and recomputes progress.
func (j *Job) recordFailure(label, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.failedCount++
	j.errs = append(j.errs, RecipientError{Label: label, Message: message})
	j.refreshProgress()
}

// refreshProgress recomputes the percentage from completed attempts.
// Item-count based so uneven batches and early cancellation still yield a
// monotonic, accurate value. Caller must hold j.mu.
func (j *Job) refreshProgress() {
	done := j.successCount + j.failedCount
	j.progress = int(math.Round(float64(done) * 100 / float64(len(j.recipients))))
	j.updatedAt = time.Now()
}

// finish moves the job to a terminal state and stamps completedAt.
// Progress and counters are frozen at their item-count values: a run that
// exhausted the recipient list reads 100, a cancelled or failed one keeps
// reporting how far it actually got.
func (j *Job) finish(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status.Terminal() {
		return
	}

	now := time.Now()
	j.status = status
	j.updatedAt = now
	j.completedAt = &now
}

// Snapshot returns a read-only copy of the job's observable state.
func (j *Job) Snapshot() ProgressSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	snap := ProgressSnapshot{
		JobID:        j.id,
		Channel:      j.channel,
		Status:       j.status,
		Progress:     j.progress,
		Total:        len(j.recipients),
		SuccessCount: j.successCount,
		FailedCount:  j.failedCount,
		CreatedAt:    j.createdAt,
		UpdatedAt:    j.updatedAt,
	}

	if len(j.errs) > 0 {
		snap.Errors = make([]RecipientError, len(j.errs))
		copy(snap.Errors, j.errs)
	}

	if j.completedAt != nil {
		completed := *j.completedAt
		snap.CompletedAt = &completed
	}

	if j.status == JobStatusProcessing && j.progress > 0 {
		elapsed := time.Since(j.startedAt)
		fraction := float64(j.progress) / 100
		remaining := int64(math.Ceil(float64(elapsed)/fraction-float64(elapsed)) / float64(time.Second))
		if remaining < 0 {
			remaining = 0
		}
		snap.EstimatedSecondsRemaining = &remaining
	}

	return snap
}

// completedAtBefore reports whether the job is terminal with a completion
// time older than the cutoff. Used by the registry eviction sweep.
func (j *Job) completedAtBefore(cutoff time.Time) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.status.Terminal() && j.completedAt != nil && j.completedAt.Before(cutoff)
}
