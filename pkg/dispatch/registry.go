package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is the in-memory store of all jobs, keyed by job ID.
// The map is the only structure mutated from more than one goroutine,
// so it is the only place that needs locking.
type Registry struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job

	retention   time.Duration
	sweepTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// NewRegistry creates a job registry and starts the background eviction
// sweep. Terminal jobs are removed once their completion time is older
// than the retention window.
func NewRegistry(retention, sweepInterval time.Duration) *Registry {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	if sweepInterval <= 0 {
		sweepInterval = 10 * time.Minute
	}

	r := &Registry{
		jobs:      make(map[uuid.UUID]*Job),
		retention: retention,
		done:      make(chan struct{}),
	}

	r.sweepTicker = time.NewTicker(sweepInterval)
	go r.sweep()

	return r
}

// Close stops the eviction sweep goroutine.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		r.sweepTicker.Stop()
	})
	return nil
}

// Create registers a new pending job for the given channel and recipients.
func (r *Registry) Create(channel Channel, recipients []RecipientTask) *Job {
	job := newJob(channel, recipients)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[job.id] = job
	return job
}

// Get returns the job with the given ID, or ErrJobNotFound if it is
// unknown or already evicted.
func (r *Registry) Get(id uuid.UUID) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// List returns all registered jobs.
func (r *Registry) List() []*Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]*Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// Evict removes every terminal job whose completion time precedes
// now minus the retention window. Returns the number of evicted jobs.
func (r *Registry) Evict(now time.Time) int {
	cutoff := now.Add(-r.retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, job := range r.jobs {
		if job.completedAtBefore(cutoff) {
			delete(r.jobs, id)
			evicted++
		}
	}
	return evicted
}

// sweep runs the periodic eviction until Close is called.
func (r *Registry) sweep() {
	for {
		select {
		case <-r.sweepTicker.C:
			r.Evict(time.Now())
		case <-r.done:
			return
		}
	}
}
