package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepEvery bounds how often expired buckets are dropped from the map.
const sweepEvery = 1024

type FixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*bucket
	calls   int
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewFixedWindow keeps counters in process memory. Counters are per instance,
// so multiple replicas each admit limit requests per window.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:   limit,
		window:  window,
		clients: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (fw *FixedWindow) Allow(_ context.Context, key string) (Decision, error) {
	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.calls++
	if fw.calls%sweepEvery == 0 {
		fw.sweep(now)
	}

	b, ok := fw.clients[key]

	if !ok || !now.Before(b.windowEnd) {
		fw.clients[key] = &bucket{
			count:     1,
			windowEnd: now.Add(fw.window),
		}

		return Decision{Allowed: true}, nil
	}

	if b.count >= fw.limit {
		return Decision{RetryAfter: b.windowEnd.Sub(now)}, nil
	}

	b.count++

	return Decision{Allowed: true}, nil
}

func (fw *FixedWindow) sweep(now time.Time) {
	for k, b := range fw.clients {
		if !now.Before(b.windowEnd) {
			delete(fw.clients, k)
		}
	}
}
