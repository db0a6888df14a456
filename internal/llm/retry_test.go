package llm

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() *RetryHandler {
	return NewRetryHandler(zerolog.Nop()).WithPolicy(3, time.Millisecond, 4*time.Millisecond)
}

func TestRetrySucceedsAfterTransients(t *testing.T) {
	calls := 0
	err := fastRetry().Do(context.Background(), func(context.Context) error {
		calls++
		if calls <= 2 {
			return &AnalysisError{Class: Transient, StatusCode: 503, Msg: "unavailable"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestNoRetryOnPermanent(t *testing.T) {
	calls := 0
	err := fastRetry().Do(context.Background(), func(context.Context) error {
		calls++
		return &AnalysisError{Class: Permanent, StatusCode: 401, Msg: "unauthorized"}
	})
	var aerr *AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, Permanent, aerr.Class)
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestNoRetryOnUnparseable(t *testing.T) {
	calls := 0
	err := fastRetry().Do(context.Background(), func(context.Context) error {
		calls++
		return &AnalysisError{Class: Unparseable, Msg: "no JSON"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetriesExhausted(t *testing.T) {
	calls := 0
	err := fastRetry().Do(context.Background(), func(context.Context) error {
		calls++
		return &AnalysisError{Class: Transient, StatusCode: 500, Msg: "boom"}
	})
	require.Error(t, err)
	assert.Equal(t, 4, calls, "initial attempt plus three retries")
}

func TestBackoffRespectsContext(t *testing.T) {
	h := NewRetryHandler(zerolog.Nop()).WithPolicy(3, time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- h.Do(ctx, func(context.Context) error {
			calls++
			return &AnalysisError{Class: Transient, Msg: "always"}
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestCalculateDelayCapped(t *testing.T) {
	h := NewRetryHandler(zerolog.Nop())
	h.enableJitter = false
	assert.Equal(t, 200*time.Millisecond, h.CalculateDelay(0))
	assert.Equal(t, 400*time.Millisecond, h.CalculateDelay(1))
	assert.Equal(t, 800*time.Millisecond, h.CalculateDelay(2))
	assert.Equal(t, 1600*time.Millisecond, h.CalculateDelay(3))
	assert.Equal(t, 2*time.Second, h.CalculateDelay(4), "delay is capped")
	assert.Equal(t, 2*time.Second, h.CalculateDelay(10))
}

func TestRetryableStatusSet(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.Equal(t, Transient, classifyHTTPStatus(code), code)
	}
	for _, code := range []int{400, 401, 403, 404, 422} {
		assert.Equal(t, Permanent, classifyHTTPStatus(code), code)
	}
}
