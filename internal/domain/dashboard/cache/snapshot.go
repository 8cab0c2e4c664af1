package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/entity"
)

// DefaultTTL is the expiry window for cached snapshots and the
// return-once marker.
const DefaultTTL = 10 * time.Minute

// Storage keys for marker and view-state persistence
const (
	markerStoreKey    = "gg:dashboard:return_marker"
	viewStateStoreKey = "gg:dashboard:view_state"
)

// ReturnMarker is the one-shot token signaling that the next dashboard
// mount should hydrate from cache instead of fetching.
type ReturnMarker struct {
	Key   string    `json:"key"`
	SetAt time.Time `json:"set_at"`
}

type snapshotEntry struct {
	snapshot *entity.Snapshot
	savedAt  time.Time
}

// SnapshotCache is the keyed, TTL'd store of dashboard snapshots plus
// the return-once marker and the lightweight view state. A cache entry
// moves absent → fresh → expired; expired entries are evicted on read.
// Constructed once at the composition root rather than held as a
// package-level global, so tests can run isolated instances.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[string]*snapshotEntry
	ttl     time.Duration
	now     func() time.Time
	store   Store
}

// NewSnapshotCache creates a snapshot cache with the given TTL and
// backing store for marker/view-state persistence.
func NewSnapshotCache(ttl time.Duration, store Store) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &SnapshotCache{
		entries: make(map[string]*snapshotEntry),
		ttl:     ttl,
		now:     time.Now,
		store:   store,
	}
}

// WithClock replaces the time source, for tests
func (c *SnapshotCache) WithClock(now func() time.Time) *SnapshotCache {
	c.now = now
	return c
}

// Save stores a snapshot under a key, overwriting any previous entry
// wholesale and restarting its TTL.
func (c *SnapshotCache) Save(key string, snapshot *entity.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &snapshotEntry{snapshot: snapshot, savedAt: c.now()}
}

// GetIfFresh returns the snapshot stored under a key if it is within
// its TTL. An expired entry is evicted and nil is returned; a fresh read
// mutates nothing.
func (c *SnapshotCache) GetIfFresh(key string) *entity.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().Sub(entry.savedAt) > c.ttl {
		delete(c.entries, key)
		return nil
	}
	return entry.snapshot
}

// UpdateScrollTop merges only the scroll offset into a stored snapshot.
// Scroll position changes far more often than data and must not force a
// full rewrite; data fields keep overwrite-wholesale semantics. A
// missing or expired entry is left alone.
func (c *SnapshotCache) UpdateScrollTop(key string, scrollTop int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.savedAt) > c.ttl {
		return
	}
	entry.snapshot.ScrollTop = scrollTop
}

// UpdateDrill applies a drill-state transition to a stored snapshot
// under the cache lock and returns the resulting state. Like the scroll
// offset, the drill position is UI state merged in place; the data
// fields keep overwrite-wholesale semantics. A missing or expired entry
// yields ErrSnapshotExpired.
func (c *SnapshotCache) UpdateDrill(key string, transition func(*entity.ChartDrillState) error) (*entity.ChartDrillState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.savedAt) > c.ttl {
		return nil, ErrSnapshotExpired
	}

	if err := transition(&entry.snapshot.Drill); err != nil {
		return nil, err
	}

	drill := entry.snapshot.Drill
	return &drill, nil
}

// SetReturnMarker writes the one-shot marker recording which cache key
// the next dashboard mount should hydrate from.
func (c *SnapshotCache) SetReturnMarker(key string) {
	marker := ReturnMarker{Key: key, SetAt: c.now()}
	data, err := json.Marshal(marker)
	if err != nil {
		return
	}
	c.store.Set(markerStoreKey, data)
}

// ConsumeReturnMarker reads and deletes the marker: at most one
// hydration per navigation-away event. A marker older than the TTL, or
// malformed persisted content, is treated as absent.
func (c *SnapshotCache) ConsumeReturnMarker() *ReturnMarker {
	marker := c.PeekReturnMarker()
	c.store.Delete(markerStoreKey)
	return marker
}

// PeekReturnMarker reads the marker without deleting it, for
// synchronous pre-render decisions.
func (c *SnapshotCache) PeekReturnMarker() *ReturnMarker {
	data, ok := c.store.Get(markerStoreKey)
	if !ok {
		return nil
	}

	var marker ReturnMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		// Malformed persisted state degrades to a cache miss.
		c.store.Delete(markerStoreKey)
		return nil
	}

	if c.now().Sub(marker.SetAt) > c.ttl {
		return nil
	}
	return &marker
}

// SaveViewState persists the lightweight UI preferences. View state is
// independent of the snapshot TTL and the keyed entries.
func (c *SnapshotCache) SaveViewState(state *entity.ViewState) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	c.store.Set(viewStateStoreKey, data)
}

// LoadViewState returns the persisted UI preferences, or nil when
// absent or malformed.
func (c *SnapshotCache) LoadViewState() *entity.ViewState {
	data, ok := c.store.Get(viewStateStoreKey)
	if !ok {
		return nil
	}

	var state entity.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		c.store.Delete(viewStateStoreKey)
		return nil
	}
	return &state
}

// StartSweeper runs a background loop evicting expired entries so the
// keyed map does not accumulate dead filter combinations between reads.
func (c *SnapshotCache) StartSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := c.sweep(); evicted > 0 {
					logger.Debug("snapshot cache sweep", "evicted", evicted)
				}
			}
		}
	}()
}

// sweep evicts every expired entry and reports how many were removed
func (c *SnapshotCache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for key, entry := range c.entries {
		if now.Sub(entry.savedAt) > c.ttl {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
