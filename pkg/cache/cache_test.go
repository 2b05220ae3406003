package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestMemory(t *testing.T, opts ...MemoryOption) (*MemoryCache, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)}
	mc := NewMemoryCache(append([]MemoryOption{WithMemoryClock(clk.now)}, opts...)...)
	t.Cleanup(func() { _ = mc.Close() })
	return mc, clk
}

func TestMemoryCache_RoundTripStruct(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	require.NoError(t, mc.Set(ctx, StockKey("aapl"), payload{Symbol: "AAPL", Price: 187.5}, time.Minute))

	got, err := GetTyped[payload](ctx, mc, "stock_AAPL")
	require.NoError(t, err)
	assert.Equal(t, payload{Symbol: "AAPL", Price: 187.5}, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestMemory(t)

	require.NoError(t, mc.Set(ctx, "k", "v", 15*time.Minute))

	var s string
	require.NoError(t, mc.Get(ctx, "k", &s))
	assert.Equal(t, "v", s)

	clk.t = clk.t.Add(16 * time.Minute)
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestMemory(t, WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	clk.t = clk.t.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	clk.t = clk.t.Add(time.Second)

	var n int
	require.NoError(t, mc.Get(ctx, "a", &n))
	clk.t = clk.t.Add(time.Second)

	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	ok, err := mc.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = mc.Exists(ctx, "a", "c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCache_Lock(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestMemory(t)
	key := LockKey("forecast", "aapl")
	assert.Equal(t, "lock:forecast:AAPL", key)

	ok, err := mc.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.TryLock(ctx, key, time.Minute)
	assert.False(t, ok)

	clk.t = clk.t.Add(2 * time.Minute)
	ok, _ = mc.TryLock(ctx, key, time.Minute)
	assert.True(t, ok)

	require.NoError(t, mc.Unlock(ctx, key))
	ok, _ = mc.TryLock(ctx, key, time.Minute)
	assert.True(t, ok)
}

func TestLayeredCache_PromotesFromRemote(t *testing.T) {
	ctx := context.Background()
	remote, _ := newTestMemory(t)
	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(time.Minute))
	t.Cleanup(func() { _ = lc.memCache.Close() })

	require.NoError(t, remote.Set(ctx, "k", payload{Symbol: "MSFT"}, time.Hour))

	var got payload
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "MSFT", got.Symbol)

	// served from L1 after the remote entry disappears
	require.NoError(t, remote.Delete(ctx, "k"))
	got = payload{}
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "MSFT", got.Symbol)

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}
