package llm

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// RetryHandler implements capped exponential backoff with jitter for
// transient LLM failures. Permanent and Unparseable errors are never
// retried.
type RetryHandler struct {
	maxRetries   int
	baseDelay    time.Duration
	maxDelay     time.Duration
	enableJitter bool
	log          zerolog.Logger
}

// NewRetryHandler builds a handler with the stock policy: 3 retries,
// 200ms base, 2s cap, jitter on.
func NewRetryHandler(log zerolog.Logger) *RetryHandler {
	return &RetryHandler{
		maxRetries:   3,
		baseDelay:    200 * time.Millisecond,
		maxDelay:     2 * time.Second,
		enableJitter: true,
		log:          log.With().Str("component", "RetryHandler").Logger(),
	}
}

// WithPolicy overrides the retry counts and delays.
func (r *RetryHandler) WithPolicy(maxRetries int, base, max time.Duration) *RetryHandler {
	r.maxRetries = maxRetries
	r.baseDelay = base
	r.maxDelay = max
	return r
}

// CalculateDelay returns the backoff before the given retry attempt
// (0-based): baseDelay * 2^attempt, capped, plus up to 10% jitter.
func (r *RetryHandler) CalculateDelay(attempt int) time.Duration {
	delay := time.Duration(float64(r.baseDelay) * math.Pow(2, float64(attempt)))
	if delay > r.maxDelay {
		delay = r.maxDelay
	}
	if r.enableJitter && delay > 0 {
		delay += time.Duration(rand.Int63n(int64(delay)/10 + 1))
	}
	return delay
}

// WaitForRetry blocks for the attempt's backoff or until ctx is done.
func (r *RetryHandler) WaitForRetry(ctx context.Context, attempt int) error {
	delay := r.CalculateDelay(attempt)
	r.log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("waiting before retry")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// Do runs op up to maxRetries+1 times. Only errors whose *AnalysisError
// class is Transient are retried; anything else is returned immediately.
func (r *RetryHandler) Do(ctx context.Context, op func(context.Context) error) error {
	var last error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			if err := r.WaitForRetry(ctx, attempt-1); err != nil {
				return &AnalysisError{Class: Permanent, Msg: "scan deadline reached during backoff", Err: err}
			}
		}
		err := op(ctx)
		if err == nil {
			return nil
		}
		last = err
		aerr, ok := err.(*AnalysisError)
		if !ok || !aerr.Retryable() {
			return err
		}
		r.log.Warn().Int("attempt", attempt).Err(err).Msg("transient failure")
	}
	return last
}
