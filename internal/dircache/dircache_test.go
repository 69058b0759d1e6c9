package dircache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-nc/nc/internal/fsadapter"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New(0, 0, true)
	_, ok := c.Get(Key{Path: "/a"})
	assert.False(t, ok)
}

func TestPutThenGetHits(t *testing.T) {
	c := New(0, 0, true)
	listing := &fsadapter.Listing{Path: "/a"}
	key := Key{Path: "/a", ShowHidden: false}
	c.Put(key, listing)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, listing, got)
}

func TestGetDistinguishesShowHidden(t *testing.T) {
	c := New(0, 0, true)
	c.Put(Key{Path: "/a", ShowHidden: false}, &fsadapter.Listing{Path: "/a"})
	_, ok := c.Get(Key{Path: "/a", ShowHidden: true})
	assert.False(t, ok)
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	c := New(0, 0, false)
	key := Key{Path: "/a"}
	c.Put(key, &fsadapter.Listing{Path: "/a"})
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestSetEnabledTogglesLive(t *testing.T) {
	c := New(0, 0, false)
	key := Key{Path: "/a"}
	c.Put(key, &fsadapter.Listing{Path: "/a"})
	_, ok := c.Get(key)
	require.False(t, ok)

	c.SetEnabled(true)
	_, ok = c.Get(key)
	assert.True(t, ok)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	c := New(0, time.Minute, true)
	now := time.Now()
	c.now = func() time.Time { return now }

	key := Key{Path: "/a"}
	c.Put(key, &fsadapter.Listing{Path: "/a"})

	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, 0, true)
	c.Put(Key{Path: "/a"}, &fsadapter.Listing{Path: "/a"})
	c.Put(Key{Path: "/b"}, &fsadapter.Listing{Path: "/b"})
	c.Put(Key{Path: "/c"}, &fsadapter.Listing{Path: "/c"})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(Key{Path: "/a"})
	assert.False(t, ok)
	_, ok = c.Get(Key{Path: "/c"})
	assert.True(t, ok)
}

func TestInvalidateRemovesExactAndNestedPaths(t *testing.T) {
	c := New(0, 0, true)
	c.Put(Key{Path: "/a"}, &fsadapter.Listing{Path: "/a"})
	c.Put(Key{Path: "/a/b"}, &fsadapter.Listing{Path: "/a/b"})
	c.Put(Key{Path: "/a-sibling"}, &fsadapter.Listing{Path: "/a-sibling"})

	c.Invalidate("/a")

	_, ok := c.Get(Key{Path: "/a"})
	assert.False(t, ok)
	_, ok = c.Get(Key{Path: "/a/b"})
	assert.False(t, ok)
	_, ok = c.Get(Key{Path: "/a-sibling"})
	assert.True(t, ok)
}

func TestClearEmptiesCache(t *testing.T) {
	c := New(0, 0, true)
	c.Put(Key{Path: "/a"}, &fsadapter.Listing{Path: "/a"})
	c.Put(Key{Path: "/b"}, &fsadapter.Listing{Path: "/b"})
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestIsSameOrBelow(t *testing.T) {
	assert.True(t, isSameOrBelow("/a", "/a"))
	assert.True(t, isSameOrBelow("/a", "/a/b"))
	assert.False(t, isSameOrBelow("/a", "/a-sibling"))
	assert.False(t, isSameOrBelow("/a/b", "/a"))
}
