package dispatch

import (
	"log/slog"
	"time"
)

// PacingProfile bundles the batch size and pacing delays for one channel.
// Defaults are conservative: small batches with short pauses keep the
// engine under typical SMTP relay and messaging API rate caps.
type PacingProfile struct {
	BatchSize       int
	InterItemDelay  time.Duration
	InterBatchDelay time.Duration
}

// Option is a functional option for configuring the dispatch service
type Option func(*serviceOptions)

type serviceOptions struct {
	defaultProfile  PacingProfile
	profiles        map[Channel]PacingProfile
	maxRetries      int
	attemptTimeout  time.Duration
	backoff         BackoffStrategy
	rateLimitFactor float64
	retention       time.Duration
	sweepInterval   time.Duration
	logger          *slog.Logger
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDefaultProfile sets the pacing profile used for channels without an
// explicit per-channel profile
func WithDefaultProfile(p PacingProfile) Option {
	return func(o *serviceOptions) {
		if p.BatchSize > 0 {
			o.defaultProfile.BatchSize = p.BatchSize
		}
		if p.InterItemDelay > 0 {
			o.defaultProfile.InterItemDelay = p.InterItemDelay
		}
		if p.InterBatchDelay > 0 {
			o.defaultProfile.InterBatchDelay = p.InterBatchDelay
		}
	}
}

// WithChannelProfile overrides the pacing profile for a single channel
func WithChannelProfile(channel Channel, p PacingProfile) Option {
	return func(o *serviceOptions) {
		o.profiles[channel] = p
	}
}

// WithMaxRetries sets how many times a transient failure is retried
// before the recipient is recorded as failed
func WithMaxRetries(n int) Option {
	return func(o *serviceOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithAttemptTimeout bounds a single transport call
func WithAttemptTimeout(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d > 0 {
			o.attemptTimeout = d
		}
	}
}

// WithBackoffStrategy sets the delay strategy between retry attempts
func WithBackoffStrategy(b BackoffStrategy) Option {
	return func(o *serviceOptions) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithRateLimitFactor sets the multiplier applied to the backoff delay when
// the provider rejected the send with a throttling error
func WithRateLimitFactor(f float64) Option {
	return func(o *serviceOptions) {
		if f >= 1 {
			o.rateLimitFactor = f
		}
	}
}

// WithRetention sets how long terminal jobs stay visible before eviction
func WithRetention(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d > 0 {
			o.retention = d
		}
	}
}

// WithSweepInterval sets how often the eviction sweep runs
func WithSweepInterval(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d > 0 {
			o.sweepInterval = d
		}
	}
}

// SubmitOption adjusts pacing for a single job
type SubmitOption func(*PacingProfile)

// WithJobBatchSize overrides the batch size for this job only
func WithJobBatchSize(n int) SubmitOption {
	return func(p *PacingProfile) {
		if n > 0 {
			p.BatchSize = n
		}
	}
}

// WithJobPacing overrides the pacing delays for this job only
func WithJobPacing(interItem, interBatch time.Duration) SubmitOption {
	return func(p *PacingProfile) {
		if interItem >= 0 {
			p.InterItemDelay = interItem
		}
		if interBatch >= 0 {
			p.InterBatchDelay = interBatch
		}
	}
}
