package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel kinds for upstream errors.
var (
	// ErrUpstreamCall wraps every failure of an outbound quote request.
	ErrUpstreamCall = errors.New("upstream call failed")
	// ErrUpstreamStatus marks a response outside the 2xx range.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
)

// StatusError carries a non-2xx upstream response.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrUpstreamStatus, e.Code, truncate(e.Body, maxErrorBody))
}

// Unwrap lets errors.Is match both ErrUpstreamCall and ErrUpstreamStatus.
func (e *StatusError) Unwrap() []error {
	return []error{ErrUpstreamCall, ErrUpstreamStatus}
}

// IsTimeout reports whether err was caused by a deadline or client timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

const maxErrorBody = 256

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
