package ratelimit

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter() (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := New(Limits{OpCreate: 5, OpUpdate: 10, OpDelete: 3}, time.Minute).WithClock(clock.Now)
	return l, clock
}

func TestAllowRejectsAfterLimit(t *testing.T) {
	for op, limit := range map[Op]int{OpCreate: 5, OpUpdate: 10, OpDelete: 3} {
		l, _ := newTestLimiter()
		for i := 0; i < limit; i++ {
			require.NoError(t, l.Allow(op, "session-1"), "%s attempt %d", op, i+1)
		}
		err := l.Allow(op, "session-1")
		var exceeded *ExceededError
		require.True(t, errors.As(err, &exceeded), "%s should be throttled", op)
		assert.Equal(t, op, exceeded.Op)
		assert.Equal(t, 60, exceeded.WaitSeconds())
	}
}

func TestWaitShrinksWithTime(t *testing.T) {
	l, clock := newTestLimiter()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(OpDelete, "s"))
	}
	clock.Advance(45*time.Second + 200*time.Millisecond)

	err := l.Allow(OpDelete, "s")
	var exceeded *ExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 15, exceeded.WaitSeconds())
}

func TestWindowResets(t *testing.T) {
	l, clock := newTestLimiter()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(OpDelete, "s"))
	}
	require.Error(t, l.Allow(OpDelete, "s"))

	clock.Advance(time.Minute)
	assert.Equal(t, 3, l.Remaining(OpDelete, "s"))
	require.NoError(t, l.Allow(OpDelete, "s"))
	assert.Equal(t, 2, l.Remaining(OpDelete, "s"))
}

func TestKeysAndOpsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(OpDelete, "a"))
	}
	assert.Error(t, l.Allow(OpDelete, "a"))
	assert.NoError(t, l.Allow(OpDelete, "b"))
	assert.NoError(t, l.Allow(OpCreate, "a"))
}

func TestUnconfiguredOpIsUnlimited(t *testing.T) {
	l, _ := newTestLimiter()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Allow(OpSubmit, "x"))
	}
}

func TestExpiredBucketsAreSwept(t *testing.T) {
	l, clock := newTestLimiter()
	l.sweepAt = 10
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Allow(OpCreate, fmt.Sprintf("203.0.113.%d", i)))
	}
	assert.Len(t, l.buckets, 10)

	clock.Advance(time.Minute)
	require.NoError(t, l.Allow(OpCreate, "198.51.100.1"))
	assert.Len(t, l.buckets, 1)
	assert.Equal(t, 4, l.Remaining(OpCreate, "198.51.100.1"))

	// Buckets still inside their window survive the next sweep.
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(OpUpdate, fmt.Sprintf("old-%d", i)))
	}
	clock.Advance(40 * time.Second)
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Allow(OpUpdate, fmt.Sprintf("live-%d", i)))
	}
	assert.Len(t, l.buckets, 10)

	clock.Advance(25 * time.Second)
	require.NoError(t, l.Allow(OpDelete, "fresh"))
	assert.Len(t, l.buckets, 5)
	assert.Equal(t, 9, l.Remaining(OpUpdate, "live-0"))
}

func TestLimit(t *testing.T) {
	l, _ := newTestLimiter()
	assert.Equal(t, 10, l.Limit(OpUpdate))
	assert.Equal(t, 0, l.Limit(OpSubmit))
}
