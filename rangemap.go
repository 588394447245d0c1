// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import (
	"sync"

	"github.com/google/btree"
)

// btreeDegree follows the default used throughout the google/btree examples;
// the tree is small (one node per cached sub-range of a single remote file)
// so the exact degree has little practical effect.
const btreeDegree = 32

// rangeEntry is a single [Lo, Hi) -> LocalCacheFile mapping, and also the
// btree.Item stored in a CacheRange's tree, ordered by Lo.
type rangeEntry struct {
	Lo, Hi uint64
	File   LocalCacheFile
}

func (e rangeEntry) Less(than btree.Item) bool {
	return e.Lo < than.(rangeEntry).Lo
}

func (e rangeEntry) intersects(lo, hi uint64) bool {
	return e.Lo < hi && e.Hi > lo
}

func (e rangeEntry) contains(p uint64) bool {
	return e.Lo <= p && p < e.Hi
}

// CacheRange is the per-remote-file ordered map of cached byte ranges
// described in the design: intervals are half-open, non-overlapping and
// strictly ordered (I1), kept in a github.com/google/btree tree keyed by
// interval start so that point and sub-range queries are O(log n + k).
//
// The methods do no locking of their own: callers hold RLock around Query,
// Point and All, and the write lock around Replace, and release it before
// any disk I/O.
type CacheRange struct {
	mu   sync.RWMutex
	tree *btree.BTree
}

// NewCacheRange returns an empty CacheRange.
func NewCacheRange() *CacheRange {
	return &CacheRange{tree: btree.New(btreeDegree)}
}

// RLock and RUnlock expose the range's reader lock to callers (the Reader
// path) that need to hold it across more than one CacheRange method call.
func (r *CacheRange) RLock()   { r.mu.RLock() }
func (r *CacheRange) RUnlock() { r.mu.RUnlock() }

// Query returns, in order, every entry whose interval intersects [lo, hi).
// Callers needing a consistent view across Query and a subsequent use of its
// result (e.g. the Reader path) should hold RLock for the duration.
func (r *CacheRange) Query(lo, hi uint64) []rangeEntry {
	var out []rangeEntry
	// At most one entry starting strictly before lo can intersect [lo, hi);
	// find it first, then walk forward from lo.
	r.tree.DescendLessOrEqual(rangeEntry{Lo: lo}, func(i btree.Item) bool {
		e := i.(rangeEntry)
		if e.Lo < lo && e.intersects(lo, hi) {
			out = append(out, e)
		}
		return false
	})
	r.tree.AscendGreaterOrEqual(rangeEntry{Lo: lo}, func(i btree.Item) bool {
		e := i.(rangeEntry)
		if e.Lo >= hi {
			return false
		}
		out = append(out, e)
		return true
	})
	return out
}

// Point returns the entry whose interval contains p, and whether one exists.
func (r *CacheRange) Point(p uint64) (rangeEntry, bool) {
	entries := r.Query(p, p+1)
	if len(entries) != 1 {
		return rangeEntry{}, false
	}
	if !entries[0].contains(p) {
		return rangeEntry{}, false
	}
	return entries[0], true
}

// Replace removes every entry whose interval intersects [lo, hi) and
// inserts [lo, hi) -> file in their place. It returns the removed entries,
// which is exactly the set of LocalCacheFiles the caller must schedule for
// deletion (the replaced span is a superset of prev, the incoming write and
// next, so this single pass produces the same deletion set the spec derives
// in two steps). The caller must hold the write lock.
func (r *CacheRange) Replace(lo, hi uint64, file LocalCacheFile) []rangeEntry {
	removed := r.Query(lo, hi)
	for _, e := range removed {
		r.tree.Delete(e)
	}
	r.tree.ReplaceOrInsert(rangeEntry{Lo: lo, Hi: hi, File: file})
	return removed
}

// All returns every entry currently in the range, used when a CacheRange is
// being torn down (eviction) and every backing file must be deleted.
func (r *CacheRange) All() []rangeEntry {
	var out []rangeEntry
	r.tree.Ascend(func(i btree.Item) bool {
		out = append(out, i.(rangeEntry))
		return true
	})
	return out
}
