package cache

import (
	"sync"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/entity"
)

// MutableCache is the single-slot overview cache with an explicit dirty
// flag. Collaborator actions that change underlying rows (marking a
// post, new annotations landing) call MarkDirty without touching the
// stored data; a dirty slot must not be trusted until re-fetched.
//
// Commits are epoch-guarded: a fetch takes an epoch before starting, and
// a MarkDirty between epoch issue and commit leaves the flag set, so an
// in-flight fetch that resolves after an invalidation cannot clear it
// with a now-outdated payload.
type MutableCache struct {
	mu    sync.Mutex
	state *entity.OverviewState
	dirty bool
	epoch uint64
}

// NewMutableCache creates an empty overview cache
func NewMutableCache() *MutableCache {
	return &MutableCache{}
}

// BeginFetch returns the epoch a subsequent Set must present to clear
// the dirty flag.
func (c *MutableCache) BeginFetch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Set replaces the slot. The dirty flag is cleared only when the commit
// epoch is still current; a stale commit stores its data but stays
// dirty, forcing the next reader to re-fetch.
func (c *MutableCache) Set(state *entity.OverviewState, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = state
	if epoch == c.epoch {
		c.dirty = false
	}
}

// Get returns the cached slot. Callers must check IsDirty before
// trusting the data.
func (c *MutableCache) Get() (*entity.OverviewState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return nil, false
	}
	return c.state, true
}

// MarkDirty flags the slot as stale without touching the stored data
// and invalidates any fetch already in flight.
func (c *MutableCache) MarkDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	c.epoch++
}

// IsDirty reports whether the slot must be re-fetched before use
func (c *MutableCache) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Clear fully resets the slot, used on project switch or explicit
// filter reset so no stale data leaks across contexts.
func (c *MutableCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = nil
	c.dirty = false
	c.epoch++
}

// UpdateScrollTop merges only the scroll offset into the slot, leaving
// all other cached fields and the dirty flag untouched.
func (c *MutableCache) UpdateScrollTop(scrollTop int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != nil {
		c.state.ScrollTop = scrollTop
	}
}
