// Package ratelimit implements the fixed-window request throttle.
//
// A window opens on the first request for a key and admits Limit requests
// until it closes; the next request after that opens a fresh window.
package ratelimit

import (
	"context"
	"time"
)

type Decision struct {
	Allowed bool
	// RetryAfter is how long until the current window closes. Zero when allowed.
	RetryAfter time.Duration
}

// Policy decides whether one more request for key fits in its window.
type Policy interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
