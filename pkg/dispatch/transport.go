package dispatch

import (
	"context"
	"errors"
	"fmt"
)

// ErrorClass categorizes a transport failure for the retry decision.
type ErrorClass string

const (
	// ErrClassTransient marks failures expected to succeed on retry:
	// connection resets, timeouts, provider-side throttling.
	ErrClassTransient ErrorClass = "transient"
	// ErrClassPermanent marks failures retrying cannot fix:
	// malformed addresses, rejected content.
	ErrClassPermanent ErrorClass = "permanent"
	// ErrClassConfig marks transport misconfiguration (missing or rejected
	// credentials). No recipient can succeed, so the whole job fails.
	ErrClassConfig ErrorClass = "config"
)

// Transport delivers one message to one recipient over one channel.
// Implementations classify failures by returning errors built with
// Permanent, Transient, Throttled, or ConfigError; unclassified errors
// are treated as transient.
type Transport interface {
	SendOne(ctx context.Context, task RecipientTask) error
}

// SendError wraps a transport failure with its retry classification.
type SendError struct {
	Class ErrorClass
	// RateLimited flags provider throttling so the dispatcher can back off
	// longer than for ordinary transient failures.
	RateLimited bool
	Err         error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s send error: %v", e.Class, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Permanent wraps err as a non-retryable recipient failure.
func Permanent(err error) error {
	return &SendError{Class: ErrClassPermanent, Err: err}
}

// Transient wraps err as a retryable failure.
func Transient(err error) error {
	return &SendError{Class: ErrClassTransient, Err: err}
}

// Throttled wraps err as a retryable rate-limit rejection.
func Throttled(err error) error {
	return &SendError{Class: ErrClassTransient, RateLimited: true, Err: err}
}

// ConfigError wraps err as a transport configuration failure.
func ConfigError(err error) error {
	return &SendError{Class: ErrClassConfig, Err: err}
}

// Classify returns the error class of a transport failure.
// Errors without an explicit classification default to transient, which
// costs at most maxRetries extra attempts and never drops a recipient early.
func Classify(err error) ErrorClass {
	var se *SendError
	if errors.As(err, &se) {
		return se.Class
	}
	return ErrClassTransient
}

// IsRateLimited reports whether the failure was a provider throttling rejection.
func IsRateLimited(err error) bool {
	var se *SendError
	return errors.As(err, &se) && se.RateLimited
}
