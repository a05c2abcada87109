package dispatch

import (
	"context"
	"time"
)

// Batcher partitions a job's recipient list into fixed-size batches and
// paces sends within and between batches. Serial, paced sending keeps the
// engine under provider-side concurrency and rate caps.
type Batcher struct {
	// BatchSize is the number of recipients attempted per batch.
	BatchSize int
	// InterItemDelay is the pause between consecutive sends inside a batch.
	InterItemDelay time.Duration
	// InterBatchDelay is the pause after finishing a batch before the next.
	InterBatchDelay time.Duration
}

// Run walks the recipients in order, invoking send for each one.
// The cancel flag is re-checked before every batch and every item; once
// observed, no further recipient is attempted and errJobCancelled is
// returned. A non-nil error from send aborts the remaining sequence and is
// returned as a job-level fault.
func (b Batcher) Run(ctx context.Context, job *Job, send func(ctx context.Context, task RecipientTask) error) error {
	size := b.BatchSize
	if size <= 0 {
		size = 1
	}

	recipients := job.recipients
	for start := 0; start < len(recipients); start += size {
		if job.CancelRequested() {
			return errJobCancelled
		}
		if err := ctx.Err(); err != nil {
			return errJobCancelled
		}

		end := min(start+size, len(recipients))
		for i := start; i < end; i++ {
			if job.CancelRequested() {
				return errJobCancelled
			}

			if i > start {
				if err := sleepCtx(ctx, b.InterItemDelay); err != nil {
					return errJobCancelled
				}
			}

			if err := send(ctx, recipients[i]); err != nil {
				return err
			}
		}

		if end < len(recipients) {
			if err := sleepCtx(ctx, b.InterBatchDelay); err != nil {
				return errJobCancelled
			}
		}
	}

	return nil
}

// sleepCtx waits for d or until the context is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
