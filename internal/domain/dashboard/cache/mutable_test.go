package cache

import (
	"testing"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/dashboard/entity"
)

func TestMutableCacheDirtyFlow(t *testing.T) {
	c := NewMutableCache()

	if _, ok := c.Get(); ok {
		t.Fatal("empty cache should report no state")
	}

	c.MarkDirty()
	if !c.IsDirty() {
		t.Fatal("MarkDirty must set the dirty flag")
	}

	epoch := c.BeginFetch()
	c.Set(&entity.OverviewState{ScrollTop: 1}, epoch)
	if c.IsDirty() {
		t.Fatal("a current-epoch commit must clear the dirty flag")
	}

	state, ok := c.Get()
	if !ok || state.ScrollTop != 1 {
		t.Fatalf("Get = %+v, %v", state, ok)
	}
}

func TestMutableCacheStaleCommitKeepsDirty(t *testing.T) {
	c := NewMutableCache()

	// A fetch starts, then rows change underneath it.
	epoch := c.BeginFetch()
	c.MarkDirty()

	// The in-flight fetch resolves with a now-outdated payload.
	c.Set(&entity.OverviewState{}, epoch)

	if !c.IsDirty() {
		t.Fatal("a stale-epoch commit cleared an intervening dirty mark")
	}

	// The next fetch, started after the mark, clears it.
	epoch = c.BeginFetch()
	c.Set(&entity.OverviewState{}, epoch)
	if c.IsDirty() {
		t.Fatal("a post-mark fetch must clear the dirty flag")
	}
}

func TestMutableCacheClear(t *testing.T) {
	c := NewMutableCache()

	epoch := c.BeginFetch()
	c.Set(&entity.OverviewState{ScrollTop: 7}, epoch)
	c.Clear()

	if _, ok := c.Get(); ok {
		t.Fatal("Clear must drop the slot")
	}
	if c.IsDirty() {
		t.Fatal("Clear must reset the dirty flag")
	}
}

func TestMutableCacheScrollMerge(t *testing.T) {
	c := NewMutableCache()

	// Merging into an empty slot is a no-op.
	c.UpdateScrollTop(10)

	epoch := c.BeginFetch()
	c.Set(&entity.OverviewState{ScrollTop: 1}, epoch)
	c.MarkDirty()
	c.UpdateScrollTop(42)

	state, _ := c.Get()
	if state.ScrollTop != 42 {
		t.Fatalf("scroll top = %d, want 42", state.ScrollTop)
	}
	if !c.IsDirty() {
		t.Fatal("scroll merge must leave the dirty flag untouched")
	}
}
