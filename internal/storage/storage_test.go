package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/astrocal/internal/models"
)

func snapshotFor(id string) *models.AstroSnapshot {
	return &models.AstroSnapshot{
		ID:   id,
		Date: time.Now(),
		MoonPhase: &models.MoonState{
			Phase:        models.FullMoon,
			Sign:         models.Leo,
			Illumination: 0.99,
		},
		PlanetaryPositions: models.PlanetarySnapshot{
			models.Sun: {Sign: models.Aries, Degree: 10},
		},
		CurrentSign: models.Aries,
	}
}

func keyFor(days int) Key {
	return Key{DaysAhead: days, Phase: models.FullMoon, Sign: models.Aries}
}

func TestCache_PutAndGet(t *testing.T) {
	c := New(10)

	_, ok := c.Get(keyFor(1))
	assert.False(t, ok)

	snap := snapshotFor("snap-1")
	c.Put(keyFor(1), snap)

	got, ok := c.Get(keyFor(1))
	require.True(t, ok)
	assert.Same(t, snap, got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_FIFOBound(t *testing.T) {
	c := New(DefaultMaxEntries)

	for i := 0; i < DefaultMaxEntries+1; i++ {
		c.Put(keyFor(i), snapshotFor("snap"))
	}

	assert.Equal(t, DefaultMaxEntries, c.Len())

	_, ok := c.Get(keyFor(0))
	assert.False(t, ok, "first inserted key should be evicted")

	for i := 1; i <= DefaultMaxEntries; i++ {
		_, ok := c.Get(keyFor(i))
		assert.True(t, ok, "key %d should be retained", i)
	}

	keys := c.Keys()
	require.Len(t, keys, DefaultMaxEntries)
	assert.Equal(t, keyFor(1), keys[0])
	assert.Equal(t, keyFor(DefaultMaxEntries), keys[len(keys)-1])
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestCache_EvictionIgnoresReads(t *testing.T) {
	c := New(2)
	c.Put(keyFor(1), snapshotFor("a"))
	c.Put(keyFor(2), snapshotFor("b"))

	// Reading the oldest entry does not protect it from eviction.
	_, _ = c.Get(keyFor(1))
	c.Put(keyFor(3), snapshotFor("c"))

	_, ok := c.Get(keyFor(1))
	assert.False(t, ok)
	_, ok = c.Get(keyFor(2))
	assert.True(t, ok)
}

func TestCache_ReplaceKeepsPosition(t *testing.T) {
	c := New(2)
	c.Put(keyFor(1), snapshotFor("a"))
	c.Put(keyFor(2), snapshotFor("b"))
	c.Put(keyFor(1), snapshotFor("a2"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []Key{keyFor(1), keyFor(2)}, c.Keys())

	got, _ := c.Get(keyFor(1))
	assert.Equal(t, "a2", got.ID)
}

func TestCache_GetOrComputeMemoizes(t *testing.T) {
	c := New(10)
	var calls int32

	compute := func(ctx context.Context) (*models.AstroSnapshot, error) {
		atomic.AddInt32(&calls, 1)
		return snapshotFor("computed"), nil
	}

	first, err := c.GetOrCompute(context.Background(), keyFor(7), compute)
	require.NoError(t, err)
	second, err := c.GetOrCompute(context.Background(), keyFor(7), compute)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestCache_GetOrComputeDoesNotCacheErrors(t *testing.T) {
	c := New(10)
	errUpstream := errors.New("upstream down")
	var calls int32

	failing := func(ctx context.Context) (*models.AstroSnapshot, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errUpstream
	}

	_, err := c.GetOrCompute(context.Background(), keyFor(3), failing)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, 0, c.Len())

	_, err = c.GetOrCompute(context.Background(), keyFor(3), failing)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_GetOrComputeConcurrentSingleFlight(t *testing.T) {
	c := New(10)
	var calls int32
	release := make(chan struct{})

	compute := func(ctx context.Context) (*models.AstroSnapshot, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return snapshotFor("shared"), nil
	}

	const workers = 8
	results := make([]*models.AstroSnapshot, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := c.GetOrCompute(context.Background(), keyFor(5), compute)
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}

	// Give the workers time to join the in-flight computation.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, c.Len())
	for _, snap := range results {
		assert.Same(t, results[0], snap)
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(10)
	for i := 0; i < 5; i++ {
		c.Put(keyFor(i), snapshotFor("x"))
	}

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
	assert.Equal(t, Stats{}, c.Stats())
}

func TestCache_ClearDuringCompute(t *testing.T) {
	c := New(10)
	started := make(chan struct{})
	release := make(chan struct{})

	compute := func(ctx context.Context) (*models.AstroSnapshot, error) {
		close(started)
		<-release
		return snapshotFor("stale"), nil
	}

	done := make(chan *models.AstroSnapshot)
	go func() {
		snap, err := c.GetOrCompute(context.Background(), keyFor(4), compute)
		assert.NoError(t, err)
		done <- snap
	}()

	<-started
	c.Clear()
	close(release)

	snap := <-done
	require.NotNil(t, snap)
	assert.Equal(t, "stale", snap.ID)
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(keyFor(4))
	assert.False(t, ok)
}

func TestCache_GetOrComputeCallerCancellation(t *testing.T) {
	c := New(10)
	started := make(chan struct{})
	release := make(chan struct{})

	compute := func(ctx context.Context) (*models.AstroSnapshot, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return snapshotFor("shared"), nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error)
	go func() {
		_, err := c.GetOrCompute(firstCtx, keyFor(6), compute)
		firstErr <- err
	}()
	<-started

	second := make(chan *models.AstroSnapshot)
	go func() {
		snap, err := c.GetOrCompute(context.Background(), keyFor(6), compute)
		assert.NoError(t, err)
		second <- snap
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	snap := <-second
	require.NotNil(t, snap)
	assert.Equal(t, "shared", snap.ID)
	assert.Equal(t, 1, c.Len())
}

func TestNew_DefaultBound(t *testing.T) {
	c := New(0)
	for i := 0; i < DefaultMaxEntries+5; i++ {
		c.Put(keyFor(i), snapshotFor("x"))
	}
	assert.Equal(t, DefaultMaxEntries, c.Len())
}

func TestKeyString(t *testing.T) {
	k := Key{DaysAhead: 7, Phase: models.NewMoon, Sign: models.Pisces}
	assert.Equal(t, "7-New Moon-Pisces", k.String())
}
