package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorClass partitions analysis failures by how the caller must react:
// Transient errors are retried, Permanent and Unparseable are not.
type ErrorClass string

const (
	Transient   ErrorClass = "transient"
	Permanent   ErrorClass = "permanent"
	Unparseable ErrorClass = "unparseable"
)

// AnalysisError is the typed failure for the LLM step.
type AnalysisError struct {
	Class      ErrorClass
	StatusCode int
	Msg        string
	Err        error
}

func (e *AnalysisError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s (status %d): %s", e.Class, e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("llm %s: %s", e.Class, e.Msg)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Retryable reports whether the error may succeed on retry.
func (e *AnalysisError) Retryable() bool { return e.Class == Transient }

// retryableStatus lists HTTP statuses worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// classifyHTTPStatus maps a non-2xx response to an error class.
func classifyHTTPStatus(code int) ErrorClass {
	if retryableStatus(code) {
		return Transient
	}
	return Permanent
}

// classifyTransportError maps request-level failures. Timeouts and
// connection errors are transient; a cancelled scan context is permanent
// for this run.
func classifyTransportError(err error) ErrorClass {
	if errors.Is(err, context.Canceled) {
		return Permanent
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Transient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return Transient
	}
	return Transient
}
