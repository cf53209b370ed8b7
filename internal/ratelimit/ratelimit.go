// Package ratelimit implements the fixed-window quota used for admin mutations
// and for the public submission endpoint. Counters live in process memory; they
// throttle accidental bursts and are not an abuse barrier.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpSubmit Op = "submit"
)

type Limits map[Op]int

// ExceededError reports how long the caller has to wait for the window to reset.
type ExceededError struct {
	Op   Op
	Wait time.Duration
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry in %ds", e.Op, e.WaitSeconds())
}

func (e *ExceededError) WaitSeconds() int {
	return int(math.Ceil(e.Wait.Seconds()))
}

// sweepThreshold is the bucket count above which expired buckets are dropped,
// at most once per window.
const sweepThreshold = 1024

type Limiter struct {
	limits  Limits
	window  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket

	sweepAt   int
	nextSweep time.Time
}

type bucket struct {
	count int
	reset time.Time
}

func New(limits Limits, window time.Duration) *Limiter {
	return &Limiter{
		limits:  limits,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		sweepAt: sweepThreshold,
	}
}

// WithClock swaps the time source; used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Limit is the configured number of attempts per window for op.
func (l *Limiter) Limit(op Op) int {
	return l.limits[op]
}

// Allow counts one attempt of op for key. An op without a configured limit is
// never throttled.
func (l *Limiter) Allow(op Op, key string) error {
	limit, ok := l.limits[op]
	if !ok || limit <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	id := string(op) + ":" + key
	b, ok := l.buckets[id]
	if !ok || !now.Before(b.reset) {
		b = &bucket{count: 0, reset: now.Add(l.window)}
		l.buckets[id] = b
	}

	if b.count >= limit {
		return &ExceededError{Op: op, Wait: b.reset.Sub(now)}
	}

	b.count++
	return nil
}

// Remaining reports the attempts left for op and key in the current window.
func (l *Limiter) Remaining(op Op, key string) int {
	limit := l.limits[op]
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[string(op)+":"+key]
	if !ok || !l.now().Before(b.reset) {
		return limit
	}
	if b.count >= limit {
		return 0
	}
	return limit - b.count
}

// sweep drops expired buckets once the map is large. Keys from the public
// endpoint are client addresses, so the map would otherwise only grow.
func (l *Limiter) sweep(now time.Time) {
	if len(l.buckets) < l.sweepAt || now.Before(l.nextSweep) {
		return
	}
	for id, b := range l.buckets {
		if !now.Before(b.reset) {
			delete(l.buckets, id)
		}
	}
	l.nextSweep = now.Add(l.window)
}
