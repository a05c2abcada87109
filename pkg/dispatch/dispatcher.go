package dispatch

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher owns the retry and timeout policy for a single recipient send.
// It wraps the transport call with a per-attempt timeout, classifies
// failures, and retries transient ones with backoff. Every recipient ends
// in exactly one of success or failure; nothing is left in limbo.
type Dispatcher struct {
	transport       Transport
	maxRetries      int
	attemptTimeout  time.Duration
	backoff         BackoffStrategy
	rateLimitFactor float64
	logger          *slog.Logger
}

// Send attempts delivery for one recipient. It returns nil on success or
// the last classified error once retries are exhausted. Permanent and
// configuration errors are never retried.
func (d *Dispatcher) Send(ctx context.Context, task RecipientTask) error {
	var lastErr error

	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
		err := d.transport.SendOne(attemptCtx, task)
		cancel()

		if err == nil {
			if attempt > 0 {
				d.logger.Debug("send succeeded after retry",
					slog.String("label", task.Label),
					slog.Int("attempt", attempt+1))
			}
			return nil
		}

		class := Classify(err)
		if class == ErrClassPermanent || class == ErrClassConfig {
			return err
		}

		lastErr = err
		if attempt == d.maxRetries {
			break
		}

		delay := d.backoff.NextDelay(attempt + 1)
		if IsRateLimited(err) && d.rateLimitFactor > 1 {
			// Throttling means the provider is asking us to slow down;
			// waiting longer is more likely to succeed than hammering it.
			delay = time.Duration(float64(delay) * d.rateLimitFactor)
		}

		d.logger.Debug("transient send failure, retrying",
			slog.String("label", task.Label),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", delay),
			slog.String("error", err.Error()))

		if sleepErr := sleepCtx(ctx, delay); sleepErr != nil {
			return lastErr
		}
	}

	return lastErr
}
