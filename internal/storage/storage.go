// Package storage provides thread-safe in-memory storage for projected
// snapshots. Entries are bounded and rotated oldest-inserted first so the
// cache never grows without limit.
//
// The cache is process-scoped: nothing is written to disk and entries live
// until they are rotated out or the cache is cleared. Concurrent requests for
// the same missing key share a single computation.
package storage

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/models"
)

// DefaultMaxEntries is the default bound on cached projections.
const DefaultMaxEntries = 100

// Key identifies a cached projection: the day offset plus the phase and sun
// sign of the snapshot the projection started from.
type Key struct {
	DaysAhead int
	Phase     models.Phase
	Sign      models.Sign
}

// String formats the key the same way it appears in logs.
func (k Key) String() string {
	return fmt.Sprintf("%d-%s-%s", k.DaysAhead, k.Phase, k.Sign)
}

// ComputeFunc produces the snapshot for a cache miss.
type ComputeFunc func(ctx context.Context) (*models.AstroSnapshot, error)

// Stats reports cache activity since creation or the last Clear.
type Stats struct {
	Entries   int
	Hits      int
	Misses    int
	Evictions int
}

// Cache is a bounded FIFO cache of projected snapshots.
type Cache struct {
	entries map[Key]*models.AstroSnapshot
	order   []Key // insertion order, oldest first
	mu      sync.RWMutex
	group   singleflight.Group

	// generation changes on every Clear so in-flight computations started
	// before it do not repopulate the cache.
	generation uint64

	maxEntries int
	hits       int
	misses     int
	evictions  int
}

// New creates a cache holding at most maxEntries snapshots.
// A non-positive bound uses DefaultMaxEntries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[Key]*models.AstroSnapshot),
		order:      make([]Key, 0, maxEntries+1),
		maxEntries: maxEntries,
	}
}

// Get returns the cached snapshot for key.
func (c *Cache) Get(key Key) (*models.AstroSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.entries[key]
	return snap, ok
}

// Put stores snap under key, rotating out the oldest entry when the bound is
// exceeded. Replacing an existing key keeps its original insertion position.
func (c *Cache) Put(key Key, snap *models.AstroSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(key, snap)
}

func (c *Cache) put(key Key, snap *models.AstroSnapshot) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = snap
		return
	}

	c.entries[key] = snap
	c.order = append(c.order, key)
	c.rotate()
}

// rotate removes oldest-inserted entries until the bound holds. Callers hold mu.
func (c *Cache) rotate() {
	for len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evictions++
		logger.Debug("Evicted cached projection %s", oldest)
	}
}

// GetOrCompute returns the cached snapshot for key, or runs compute, stores
// the result and returns it. Failed computations are not cached. Concurrent
// callers with the same key wait for one computation, which runs detached from
// any single caller's cancellation; each caller still returns early when its
// own ctx is done. A computation that spans a Clear returns its result but does
// not store it.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute ComputeFunc) (*models.AstroSnapshot, error) {
	c.mu.Lock()
	if snap, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return snap, nil
	}
	generation := c.generation
	c.mu.Unlock()

	flightKey := fmt.Sprintf("%d/%s", generation, key)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		// A concurrent flight may have stored the key between the check above and now.
		c.mu.Lock()
		if snap, ok := c.entries[key]; ok {
			c.hits++
			c.mu.Unlock()
			return snap, nil
		}
		c.misses++
		c.mu.Unlock()

		snap, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == generation {
			c.put(key, snap)
		} else {
			logger.Debug("Discarding projection %s computed before cache clear", key)
		}
		c.mu.Unlock()
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.AstroSnapshot), nil
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Keys returns the cached keys in insertion order, oldest first.
func (c *Cache) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]Key, len(c.order))
	copy(keys, c.order)
	return keys
}

// Stats returns a copy of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Clear removes every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*models.AstroSnapshot)
	c.order = make([]Key, 0, c.maxEntries+1)
	c.generation++
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}
