package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(l *Limiter, start time.Time) *time.Time {
	now := start
	l.now = func() time.Time { return now }
	return &now
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(2, 1)
	now := fixedClock(l, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC))

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	assert.True(t, l.Allow("5.6.7.8"))
	assert.Equal(t, 2, l.Len())

	*now = now.Add(time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestLimiter_MinimumBurst(t *testing.T) {
	l := New(0, 1)
	fixedClock(l, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC))

	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}

func TestLimiter_Sweep(t *testing.T) {
	l := New(5, 1)
	now := fixedClock(l, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC))

	l.Allow("a")
	*now = now.Add(2 * time.Second)
	l.Allow("b")

	// a has been idle 6s, b 4s; the bucket refills in 5s
	*now = now.Add(4 * time.Second)
	assert.Equal(t, 1, l.Sweep())
	require.Equal(t, 1, l.Len())
	_, ok := l.m["b"]
	assert.True(t, ok)

	// a swept key starts again with a full bucket
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("a"))
	}
	assert.False(t, l.Allow("a"))
}

func TestLimiter_SweepNoRefill(t *testing.T) {
	l := New(1, 0)
	l.Allow("a")
	assert.Equal(t, 0, l.Sweep())
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_Concurrent(t *testing.T) {
	l := New(50, 0)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}
