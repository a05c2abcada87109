package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Service is the composition root of the dispatch engine. It accepts
// bulk-send requests, runs one background goroutine per job, and exposes
// progress, cancellation, and listing against the job registry.
//
// Sends within a job are deliberately serialized: most transport back-ends
// impose per-connection or per-second caps, and paced serial sending avoids
// provider-side throttling. Concurrency across jobs is bounded only by how
// many Submit calls the caller issues.
type Service struct {
	registry       *Registry
	transports     map[Channel]Transport
	defaultProfile PacingProfile
	profiles       map[Channel]PacingProfile

	maxRetries      int
	attemptTimeout  time.Duration
	backoff         BackoffStrategy
	rateLimitFactor float64
	logger          *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewService creates a dispatch service with the given channel transports.
func NewService(transports map[Channel]Transport, opts ...Option) (*Service, error) {
	if len(transports) == 0 {
		return nil, ErrNoTransports
	}
	for channel, transport := range transports {
		if transport == nil {
			return nil, errors.Join(ErrNilTransport, errors.New("channel: "+string(channel)))
		}
	}

	options := &serviceOptions{
		defaultProfile: PacingProfile{
			BatchSize:       5,
			InterItemDelay:  200 * time.Millisecond,
			InterBatchDelay: 2 * time.Second,
		},
		profiles: map[Channel]PacingProfile{
			// The messaging API enforces stricter per-second caps than the
			// mail relay, so it gets smaller batches and longer pauses.
			ChannelMessaging: {
				BatchSize:       2,
				InterItemDelay:  500 * time.Millisecond,
				InterBatchDelay: 3 * time.Second,
			},
		},
		maxRetries:      2,
		attemptTimeout:  30 * time.Second,
		backoff:         DefaultBackoffStrategy(),
		rateLimitFactor: 2,
		retention:       24 * time.Hour,
		sweepInterval:   10 * time.Minute,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	ctx, cancel := context.WithCancel(context.Background())

	clonedTransports := make(map[Channel]Transport, len(transports))
	for channel, transport := range transports {
		clonedTransports[channel] = transport
	}

	return &Service{
		registry:        NewRegistry(options.retention, options.sweepInterval),
		transports:      clonedTransports,
		defaultProfile:  options.defaultProfile,
		profiles:        options.profiles,
		maxRetries:      options.maxRetries,
		attemptTimeout:  options.attemptTimeout,
		backoff:         options.backoff,
		rateLimitFactor: options.rateLimitFactor,
		logger:          options.logger,

		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Submit creates a job for the given channel and recipients and starts its
// background execution. It returns the job ID immediately; per-recipient
// outcomes are surfaced only through Progress.
func (s *Service) Submit(channel Channel, recipients []RecipientTask, opts ...SubmitOption) (uuid.UUID, error) {
	if s.closed.Load() {
		return uuid.Nil, ErrServiceClosed
	}
	if len(recipients) == 0 {
		return uuid.Nil, ErrNoRecipients
	}

	transport, ok := s.transports[channel]
	if !ok {
		return uuid.Nil, errors.Join(ErrUnknownChannel, errors.New("channel: "+string(channel)))
	}

	profile := s.profileFor(channel)
	for _, opt := range opts {
		opt(&profile)
	}

	job := s.registry.Create(channel, recipients)

	s.wg.Add(1)
	go s.run(job, transport, profile)

	s.logger.Info("dispatch job submitted",
		slog.String("job_id", job.ID().String()),
		slog.String("channel", string(channel)),
		slog.Int("recipients", job.Total()),
		slog.Int("batch_size", profile.BatchSize))

	return job.ID(), nil
}

// Progress returns a read-only snapshot of the job's state.
func (s *Service) Progress(id uuid.UUID) (ProgressSnapshot, error) {
	job, err := s.registry.Get(id)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	return job.Snapshot(), nil
}

// Cancel requests cooperative cancellation of a running job. It reports
// false for unknown or already-terminal jobs. An attempt already in flight
// is allowed to finish; no further recipient is newly attempted.
func (s *Service) Cancel(id uuid.UUID) bool {
	job, err := s.registry.Get(id)
	if err != nil {
		return false
	}

	if !job.requestCancel() {
		return false
	}

	s.logger.Info("dispatch job cancellation requested",
		slog.String("job_id", id.String()))
	return true
}

// ListJobs returns snapshots of every known job, oldest first.
func (s *Service) ListJobs() []ProgressSnapshot {
	jobs := s.registry.List()

	snapshots := make([]ProgressSnapshot, 0, len(jobs))
	for _, job := range jobs {
		snapshots = append(snapshots, job.Snapshot())
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})
	return snapshots
}

// Close stops accepting new jobs, signals running jobs to wind down at
// their next checkpoint, waits for them, and stops the eviction sweep.
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.cancel()
	s.wg.Wait()
	return s.registry.Close()
}

// profileFor returns the pacing profile for a channel, falling back to the
// service-wide default.
func (s *Service) profileFor(channel Channel) PacingProfile {
	profile, ok := s.profiles[channel]
	if !ok {
		profile = s.defaultProfile
	}
	if profile.BatchSize <= 0 {
		profile.BatchSize = 1
	}
	return profile
}

// run drives one job to a terminal state. It is the only writer of the
// job's counters and status.
func (s *Service) run(job *Job, transport Transport, profile PacingProfile) {
	defer s.wg.Done()

	start := time.Now()

	// An orchestration fault must never leave a job stuck in processing.
	defer func() {
		if r := recover(); r != nil {
			job.finish(JobStatusFailed)
			s.logger.Error("dispatch job panicked",
				slog.String("job_id", job.ID().String()),
				slog.Any("panic", r))
		}
	}()

	job.markProcessing()

	dispatcher := &Dispatcher{
		transport:       transport,
		maxRetries:      s.maxRetries,
		attemptTimeout:  s.attemptTimeout,
		backoff:         s.backoff,
		rateLimitFactor: s.rateLimitFactor,
		logger:          s.logger,
	}

	batcher := Batcher{
		BatchSize:       profile.BatchSize,
		InterItemDelay:  profile.InterItemDelay,
		InterBatchDelay: profile.InterBatchDelay,
	}

	err := batcher.Run(s.ctx, job, func(ctx context.Context, task RecipientTask) error {
		sendErr := dispatcher.Send(ctx, task)
		if sendErr == nil {
			job.recordSuccess()
			return nil
		}

		// Broken transport configuration fails the whole job: no recipient
		// can possibly succeed, so attempting the rest wastes the quota.
		if Classify(sendErr) == ErrClassConfig {
			return sendErr
		}

		job.recordFailure(task.Label, sendErr.Error())
		return nil
	})

	switch {
	case err == nil:
		job.finish(JobStatusCompleted)
	case errors.Is(err, errJobCancelled):
		job.finish(JobStatusCancelled)
	default:
		job.finish(JobStatusFailed)
		s.logger.Error("dispatch job failed",
			slog.String("job_id", job.ID().String()),
			slog.String("error", err.Error()))
	}

	snap := job.Snapshot()
	s.logger.Info("dispatch job finished",
		slog.String("job_id", job.ID().String()),
		slog.String("status", string(snap.Status)),
		slog.Int("success", snap.SuccessCount),
		slog.Int("failed", snap.FailedCount),
		slog.Duration("duration", time.Since(start)))
}
