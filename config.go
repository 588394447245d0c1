// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import "time"

// Config holds the enumerated configuration for a Cache (§6 of the design).
// Loading it from YAML, flags or any other source is the job of the
// sibling config package; the core only consumes the resolved values.
type Config struct {
	// BaseDirectory is the filesystem path under which cache files live.
	BaseDirectory string `yaml:"base_directory"`

	// MaxCachedEntries bounds the number of live remote paths tracked by
	// the EntryCache.
	MaxCachedEntries int `yaml:"max_cached_entries"`

	// CacheTTL is the access-idle expiry applied to entries in the
	// EntryCache.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// MaxInMemoryCacheSize is the admission threshold (max_inflight_bytes)
	// applied to the sum of in-flight Put buffers.
	MaxInMemoryCacheSize uint64 `yaml:"max_in_memory_cache_size"`
}
