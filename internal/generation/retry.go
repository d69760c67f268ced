package generation

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy decides whether and when a prompt is resubmitted after the
// model's reply could not be parsed. Transport failures are never retried
// here; the caller decides whether to retry the whole request.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, the first one included.
	// Values below one are treated as one.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt; each later wait
	// doubles, up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Jitter scales each delay by a random factor in [1-Jitter, 1].
	Jitter float64

	// RetryOnMissingJSON also retries replies with no JSON object at all.
	RetryOnMissingJSON bool
}

// DefaultRetryPolicy returns three attempts with a short exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Jitter:      0.5,
	}
}

// Attempts returns the effective attempt budget.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Retryable reports whether err is a parse failure this policy retries.
func (p RetryPolicy) Retryable(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidJSON):
		return true
	case errors.Is(err, ErrNoJSONFound):
		return p.RetryOnMissingJSON
	default:
		return false
	}
}

// ShouldRetry reports whether another attempt follows the given failed one
// (1-based).
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	return p.Retryable(err) && attempt < p.Attempts()
}

// Delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 || attempt < 1 {
		return 0
	}

	// delay = baseDelay * 2^(attempt-1), capped, then jittered
	delay := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	if j := math.Min(math.Max(p.Jitter, 0), 1); j > 0 {
		delay *= 1 - j*rand.Float64()
	}

	return time.Duration(delay)
}

// Wait blocks for Delay(attempt) or until ctx is done, returning ctx.Err()
// in the latter case.
func (p RetryPolicy) Wait(ctx context.Context, attempt int) error {
	delay := p.Delay(attempt)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
