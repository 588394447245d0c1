// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache_test

import (
	"testing"

	rangecache "cloudeng.io/rangecache"
	"github.com/stretchr/testify/require"
)

func lf(start uint64, path string) rangecache.LocalCacheFile {
	return rangecache.LocalCacheFile{StartOffset: start, LocalPath: path}
}

func TestCacheRangeReplaceAndQuery(t *testing.T) {
	r := rangecache.NewCacheRange()

	removed := r.Replace(0, 10, lf(0, "a"))
	require.Empty(t, removed)

	removed = r.Replace(10, 20, lf(10, "b"))
	require.Empty(t, removed)

	entries := r.Query(0, 20)
	require.Len(t, entries, 2)
	require.Equal(t, lf(0, "a"), entries[0].File)
	require.Equal(t, lf(10, "b"), entries[1].File)
}

func TestCacheRangeReplaceSupersedesOverlap(t *testing.T) {
	r := rangecache.NewCacheRange()
	r.Replace(0, 10, lf(0, "a"))

	removed := r.Replace(5, 15, lf(5, "b"))
	require.Len(t, removed, 1)
	require.Equal(t, lf(0, "a"), removed[0].File)

	entries := r.Query(0, 15)
	require.Len(t, entries, 1)
	require.Equal(t, lf(5, "b"), entries[0].File)
}

func TestCacheRangePoint(t *testing.T) {
	r := rangecache.NewCacheRange()
	r.Replace(0, 10, lf(0, "a"))

	e, ok := r.Point(0)
	require.True(t, ok)
	require.Equal(t, lf(0, "a"), e.File)

	e, ok = r.Point(9)
	require.True(t, ok)
	require.Equal(t, lf(0, "a"), e.File)

	_, ok = r.Point(10)
	require.False(t, ok, "10 is outside the half-open [0, 10) interval")

	_, ok = r.Point(100)
	require.False(t, ok)
}

func TestCacheRangeQueryGapReturnsNoSingleEntry(t *testing.T) {
	r := rangecache.NewCacheRange()
	r.Replace(0, 10, lf(0, "a"))
	r.Replace(20, 30, lf(20, "b"))

	// a hole between 10 and 20: a query spanning it must see two entries.
	entries := r.Query(5, 25)
	require.Len(t, entries, 2)

	// a query entirely inside the hole sees none.
	require.Empty(t, r.Query(12, 18))
}

func TestCacheRangeAll(t *testing.T) {
	r := rangecache.NewCacheRange()
	r.Replace(0, 10, lf(0, "a"))
	r.Replace(10, 20, lf(10, "b"))
	require.Len(t, r.All(), 2)
}
