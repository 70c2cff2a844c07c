package rates

import (
	"sync"
	"time"
)

// Cache holds the latest canonical per-gram rate for each metal.
//
// It is seeded with fallback defaults at construction, written only by the
// normalizer service and read everywhere else. Entries are never removed,
// only overwritten by snapshots with a newer effective date (ties broken by
// fetch time), so a slow stale response cannot regress a fresher one.
type Cache struct {
	mu          sync.RWMutex
	snapshots   map[Metal]RateSnapshot
	loading     bool
	stale       bool
	lastUpdated time.Time
}

// Defaults holds the fallback per-gram rates used before the first
// successful fetch
type Defaults struct {
	Gold24 float64
	Gold22 float64
	Silver float64
}

// NewCache creates a cache seeded with the given default rates
func NewCache(defaults Defaults) *Cache {
	now := time.Now()
	seed := func(m Metal, rate float64) RateSnapshot {
		return RateSnapshot{
			Metal:         m,
			RatePerGram:   rate,
			Source:        "Default",
			EffectiveDate: time.Time{}, // any fetched rate outranks a default
			FetchedAt:     now,
		}
	}

	return &Cache{
		snapshots: map[Metal]RateSnapshot{
			MetalGold24: seed(MetalGold24, defaults.Gold24),
			MetalGold22: seed(MetalGold22, defaults.Gold22),
			MetalSilver: seed(MetalSilver, defaults.Silver),
		},
		loading: true,
	}
}

// Get returns the cached snapshot for a metal
func (c *Cache) Get(m Metal) (RateSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.snapshots[m]
	return snap, ok
}

// Rate returns the cached per-gram rate for a metal, 0 when absent
func (c *Cache) Rate(m Metal) float64 {
	snap, ok := c.Get(m)
	if !ok {
		return 0
	}
	return snap.RatePerGram
}

// Put stores a snapshot if it is at least as recent as the cached one.
// Returns whether the snapshot was applied. Non-positive rates are never
// applied; the prior value is retained instead.
func (c *Cache) Put(snap RateSnapshot) bool {
	if snap.RatePerGram <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.snapshots[snap.Metal]; ok {
		if snap.EffectiveDate.Before(current.EffectiveDate) {
			return false
		}
		if snap.EffectiveDate.Equal(current.EffectiveDate) && snap.FetchedAt.Before(current.FetchedAt) {
			return false
		}
	}

	c.snapshots[snap.Metal] = snap
	c.lastUpdated = snap.FetchedAt
	return true
}

// All returns the cached snapshots in display order
func (c *Cache) All() []RateSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RateSnapshot, 0, len(AllMetals))
	for _, m := range AllMetals {
		if snap, ok := c.snapshots[m]; ok {
			out = append(out, snap)
		}
	}
	return out
}

// SetLoading sets the loading flag (UI feedback only)
func (c *Cache) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// Loading reports whether a refresh is in flight
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// SetStale marks whether the last refresh failed to reach any endpoint
func (c *Cache) SetStale(stale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = stale
}

// Stale reports whether the cache is serving last-known-good values
func (c *Cache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// LastUpdated returns the fetch time of the most recently applied snapshot
func (c *Cache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}
