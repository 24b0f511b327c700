// Package ratelimit implements a fixed-window request-rate limiter keyed by
// client identifier. Counts live in process memory; a multi-instance
// deployment needs a shared atomic counter behind the same Check interface.
package ratelimit

import (
	"sync"
	"time"
)

const sweepInterval = time.Minute

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds until the window resets, set when denied
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client within fixed, non-overlapping windows.
// Bursts of up to twice the nominal rate are possible across a window
// boundary; that tradeoff is accepted for simplicity.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	records map[string]*record
}

func New(maxRequests int, window time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return &Limiter{
		max:     maxRequests,
		window:  window,
		records: make(map[string]*record),
	}
}

// Check records one request for clientID and decides whether it is within
// budget. The increment-and-compare is atomic with respect to concurrent
// checks for the same client.
func (l *Limiter) Check(clientID string) Decision {
	now := time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[clientID]
	if !ok || now.After(rec.resetAt) {
		rec = &record{count: 1, resetAt: now.Add(l.window)}
		l.records[clientID] = rec
	} else {
		rec.count++
	}

	if rec.count > l.max {
		retryAfter := int((time.Until(rec.resetAt) + time.Second - 1) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Decision{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    rec.resetAt,
			RetryAfter: retryAfter,
		}
	}

	return Decision{
		Allowed:   true,
		Remaining: l.max - rec.count,
		ResetAt:   rec.resetAt,
	}
}

// Limit returns the configured per-window request budget.
func (l *Limiter) Limit() int {
	return l.max
}

// StartSweep launches a background loop that drops expired records every
// minute, bounding memory growth. The returned function stops the loop.
func (l *Limiter) StartSweep() (stop func()) {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.sweep(time.Now().UTC())
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for clientID, rec := range l.records {
		if now.After(rec.resetAt) {
			delete(l.records, clientID)
		}
	}
}
