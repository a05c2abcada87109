// Package dispatch provides an in-process, best-effort bulk notification
// engine for slow, rate-limited, failure-prone delivery channels such as
// transactional email providers and third-party messaging APIs.
//
// The package is organised around four components:
//
//   - Service    — accepts bulk-send requests and exposes progress/cancel
//   - Registry   — concurrency-safe in-memory store of jobs with eviction
//   - Batcher    — fixed-size batching with paced, serialized sends
//   - Dispatcher — per-recipient retry with timeout and classified backoff
//
// A Submit call returns a job ID immediately; a background goroutine owned
// by the job walks the recipient list in batches, hands each recipient to
// the Dispatcher, and updates the job's counters after every outcome.
// Callers observe the job only through ProgressSnapshot values and may
// request cooperative cancellation at any time.
//
// # Usage
//
//	transports := map[dispatch.Channel]dispatch.Transport{
//	    dispatch.ChannelEmail: emailTransport,
//	}
//
//	svc, err := dispatch.NewService(transports,
//	    dispatch.WithMaxRetries(2),
//	    dispatch.WithAttemptTimeout(30*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//
//	jobID, err := svc.Submit(dispatch.ChannelEmail, recipients)
//	if err != nil {
//	    return err
//	}
//
//	snap, _ := svc.Progress(jobID)
//
// # Delivery guarantees
//
// The engine is single-process and in-memory: job state does not survive a
// restart, and delivery is best-effort. Individual recipient failures never
// abort a job; they are recorded per recipient and surfaced through
// Progress. Only transport configuration errors and orchestration faults
// mark a job failed.
//
// # Error handling
//
// Transports classify failures with Permanent, Transient, Throttled, and
// ConfigError. Package-level sentinel errors (e.g. ErrNoRecipients,
// ErrJobNotFound) can be checked with errors.Is.
package dispatch
