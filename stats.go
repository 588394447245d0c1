// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import "sync/atomic"

// Stats is the externally-supplied counters sink the spec describes: hit and
// miss counters plus a live gauge of bytes currently held in admitted but
// not-yet-flushed write buffers. A concrete Prometheus-backed implementation
// lives in the sibling metrics package; NewMemStats below is the
// zero-dependency default used when none is supplied.
type Stats interface {
	IncrementHit()
	IncrementMiss()
	AddInMemoryRetainedBytes(delta int64)
	InMemoryRetainedBytes() int64
}

// MemStats is an in-process, allocation-free Stats implementation backed by
// atomics; it requires no third-party dependency, matching the spec's own
// minimal contract for the counters.
type MemStats struct {
	hits, misses  atomic.Int64
	retainedBytes atomic.Int64
}

// NewMemStats returns a ready-to-use MemStats.
func NewMemStats() *MemStats {
	return &MemStats{}
}

func (s *MemStats) IncrementHit()  { s.hits.Add(1) }
func (s *MemStats) IncrementMiss() { s.misses.Add(1) }

func (s *MemStats) AddInMemoryRetainedBytes(delta int64) {
	s.retainedBytes.Add(delta)
}

func (s *MemStats) InMemoryRetainedBytes() int64 {
	return s.retainedBytes.Load()
}

// Hits returns the number of Get calls that found and returned cached bytes.
func (s *MemStats) Hits() int64 { return s.hits.Load() }

// Misses returns the number of Get calls that could not be served locally.
func (s *MemStats) Misses() int64 { return s.misses.Load() }
