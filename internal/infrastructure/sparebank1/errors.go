package sparebank1

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthorized is returned for 401/403 responses; the caller must refresh or re-authenticate
	ErrUnauthorized = errors.New("sparebank1: unauthorized")

	// ErrRateLimited matches any *RateLimitError via errors.Is
	ErrRateLimited = errors.New("sparebank1: rate limited")

	// ErrUpstream wraps any other non-2xx response
	ErrUpstream = errors.New("sparebank1: upstream error")
)

// DefaultRetryAfter is used when a 429 carries no usable Retry-After header
const DefaultRetryAfter = 60 * time.Second

// RateLimitError carries the advisory retry window of a 429 response
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("sparebank1: rate limited, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
