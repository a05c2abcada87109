package dispatch

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy calculates the delay before a retry attempt.
// Implementations must be safe for concurrent use.
type BackoffStrategy interface {
	// NextDelay returns the backoff duration for the given attempt.
	// Attempt starts at 1 for the first retry.
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff grows the delay by Multiplier each attempt, with
// optional jitter to spread retries from concurrent jobs.
type ExponentialBackoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64
}

// NextDelay returns min(InitialDelay * Multiplier^(attempt-1) * (1 ± jitter), MaxDelay).
func (e ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.InitialDelay
	if initial == 0 {
		initial = time.Second
	}
	maxDelay := e.MaxDelay
	if maxDelay == 0 {
		maxDelay = 30 * time.Second
	}
	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2
	}

	delay := float64(initial) * math.Pow(multiplier, float64(attempt-1))

	if e.JitterFactor > 0 {
		delay *= 1 + (rand.Float64()*2-1)*e.JitterFactor
	}

	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}

	return time.Duration(delay)
}

// LinearBackoff increases the delay by a fixed step each attempt.
type LinearBackoff struct {
	Step     time.Duration
	MaxDelay time.Duration
}

// NextDelay returns min(Step * attempt, MaxDelay).
func (l LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	step := l.Step
	if step == 0 {
		step = time.Second
	}
	maxDelay := l.MaxDelay
	if maxDelay == 0 {
		maxDelay = 30 * time.Second
	}

	delay := step * time.Duration(attempt)
	if delay > maxDelay {
		delay = maxDelay
	}

	return delay
}

// FixedBackoff waits the same delay before every retry.
type FixedBackoff struct {
	Delay time.Duration
}

func (f FixedBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Delay
}

// DefaultBackoffStrategy returns the backoff used when none is configured:
// exponential growth capped at 30s with 10% jitter.
func DefaultBackoffStrategy() BackoffStrategy {
	return ExponentialBackoff{
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
		JitterFactor: 0.1,
	}
}
