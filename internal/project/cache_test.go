package project

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func countingLoader(calls *int32, value string) Loader[string] {
	return func(ctx context.Context) (string, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestCache_LoadsOncePerTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[string](0)
	c.now = clock.Now
	ctx := context.Background()

	var calls int32
	loader := countingLoader(&calls, "v1")

	v, err := c.Get(ctx, "k", loader)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	clock.Advance(2*time.Minute + 59*time.Second)
	_, err = c.Get(ctx, "k", loader)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "second read within TTL must hit the cache")

	clock.Advance(time.Second)
	_, err = c.Get(ctx, "k", loader)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "read at TTL must reload")
}

func TestCache_ReadsDoNotExtendLifetime(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[string](DefaultTTL)
	c.now = clock.Now

	c.Put("k", "v")
	for i := 0; i < 5; i++ {
		clock.Advance(30 * time.Second)
		_, ok := c.Lookup("k")
		require.True(t, ok)
	}
	clock.Advance(31 * time.Second)
	_, ok := c.Lookup("k")
	assert.False(t, ok, "entry must expire 3 minutes after the write regardless of reads")
}

func TestCache_PutResetsExpiry(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[string](DefaultTTL)
	c.now = clock.Now

	c.Put("k", "old")
	clock.Advance(2 * time.Minute)
	c.Put("k", "new")
	clock.Advance(2 * time.Minute)

	v, ok := c.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestCache_InvalidateForcesReload(t *testing.T) {
	c := NewCache[string](DefaultTTL)
	ctx := context.Background()

	var calls int32
	loader := countingLoader(&calls, "v")
	_, err := c.Get(ctx, "k", loader)
	require.NoError(t, err)

	c.Invalidate("k")
	c.Invalidate("never-stored")

	_, err = c.Get(ctx, "k", loader)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls)
}

func TestCache_LoaderErrorIsNotStored(t *testing.T) {
	c := NewCache[string](DefaultTTL)
	boom := errors.New("boom")

	_, err := c.Get(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCache_CoalescesConcurrentLoads(t *testing.T) {
	c := NewCache[string](DefaultTTL)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(ctx, "k", loader)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "v", v)
	}
}
