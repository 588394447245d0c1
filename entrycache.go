// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// EntryCache is the bounded, TTL-on-access index keyed by RemotePath that
// drives the lifecycle of the CacheRange storage for each path: it is the
// sole decider of when a path's on-disk files go away. It is built on
// github.com/hashicorp/golang-lru/v2's expirable LRU, which already
// implements the capacity-plus-TTL-plus-eviction-callback shape the design
// calls for.
type EntryCache struct {
	lru *lru.LRU[RemotePath, struct{}]
}

// NewEntryCache returns an EntryCache holding at most maxEntries keys, each
// expiring ttl after its last Touch. onEvict is invoked synchronously,
// exactly once, for every key that leaves the cache for any reason
// (capacity, TTL, explicit Remove, or Touch of an existing key, which is a
// no-op and never evicts). onEvict must return quickly; it is expected to
// hand off the actual file deletion to a delete-executor.
func NewEntryCache(maxEntries int, ttl time.Duration, onEvict func(RemotePath)) *EntryCache {
	ec := &EntryCache{}
	ec.lru = lru.NewLRU[RemotePath, struct{}](maxEntries, func(key RemotePath, _ struct{}) {
		onEvict(key)
	}, ttl)
	return ec
}

// Touch ensures path is present and resets its access clock. Used by both
// Get and Put so that reads and writes both count as access for TTL
// purposes.
func (e *EntryCache) Touch(path RemotePath) {
	e.lru.Add(path, struct{}{})
}

// Remove explicitly evicts path, invoking the eviction callback if the key
// was present. It is a no-op if path was not present.
func (e *EntryCache) Remove(path RemotePath) {
	e.lru.Remove(path)
}

// Len returns the number of live keys, mostly useful for tests.
func (e *EntryCache) Len() int {
	return e.lru.Len()
}

// Close stops the expirable LRU's background TTL janitor goroutine. It must
// be called exactly once, when the owning Cache is closed.
func (e *EntryCache) Close() {
	e.lru.Close()
}
