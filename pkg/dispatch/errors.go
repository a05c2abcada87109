package dispatch

import "errors"

// Common errors
var (
	// ErrNoRecipients is returned when Submit is called with an empty recipient list
	ErrNoRecipients = errors.New("recipient list cannot be empty")

	// ErrUnknownChannel is returned when no transport is registered for the requested channel
	ErrUnknownChannel = errors.New("no transport registered for channel")

	// ErrNilTransport is returned when a nil transport is supplied at construction
	ErrNilTransport = errors.New("transport cannot be nil")

	// ErrNoTransports is returned when the service is built without any transport
	ErrNoTransports = errors.New("at least one transport is required")

	// ErrJobNotFound is returned when a job ID is unknown or already evicted
	ErrJobNotFound = errors.New("job not found")

	// ErrServiceClosed is returned when Submit is called after Close
	ErrServiceClosed = errors.New("dispatch service is closed")

	// errJobCancelled aborts the batch loop when the cancel flag is observed
	errJobCancelled = errors.New("job cancelled")
)
