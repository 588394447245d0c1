// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache_test

import (
	"sync"
	"testing"
	"time"

	rangecache "cloudeng.io/rangecache"
	"github.com/stretchr/testify/require"
)

func TestEntryCacheCapacityEviction(t *testing.T) {
	var mu sync.Mutex
	var evicted []rangecache.RemotePath

	ec := rangecache.NewEntryCache(1, time.Hour, func(p rangecache.RemotePath) {
		mu.Lock()
		evicted = append(evicted, p)
		mu.Unlock()
	})

	ec.Touch("a")
	require.Equal(t, 1, ec.Len())
	ec.Touch("b")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(evicted) == 1 && evicted[0] == "a"
	}, time.Second, time.Millisecond)
	require.Equal(t, 1, ec.Len())
}

func TestEntryCacheTouchExistingIsNoOpEviction(t *testing.T) {
	evictions := 0
	ec := rangecache.NewEntryCache(2, time.Hour, func(rangecache.RemotePath) {
		evictions++
	})
	ec.Touch("a")
	ec.Touch("a")
	ec.Touch("a")
	require.Equal(t, 0, evictions)
	require.Equal(t, 1, ec.Len())
}

func TestEntryCacheTTLEviction(t *testing.T) {
	var mu sync.Mutex
	var evicted []rangecache.RemotePath

	ec := rangecache.NewEntryCache(10, 20*time.Millisecond, func(p rangecache.RemotePath) {
		mu.Lock()
		evicted = append(evicted, p)
		mu.Unlock()
	})
	ec.Touch("a")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(evicted) == 1 && evicted[0] == "a"
	}, time.Second, time.Millisecond)
}

func TestEntryCacheExplicitRemove(t *testing.T) {
	evictions := 0
	ec := rangecache.NewEntryCache(10, time.Hour, func(rangecache.RemotePath) {
		evictions++
	})
	ec.Touch("a")
	ec.Remove("a")
	require.Equal(t, 1, evictions)
	require.Equal(t, 0, ec.Len())

	// removing an absent key is a no-op.
	ec.Remove("a")
	require.Equal(t, 1, evictions)
}
