// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package rangecache implements a disk-backed cache of byte ranges of
// remote files: a local range cache manager whose Get serves bytes from
// disk when a sufficient cached range exists, and whose Put asynchronously
// persists bytes and merges them with neighboring cached ranges.
//
// The remote-file reader that calls Get on a cache miss, the configuration
// loader and the metrics sink are external collaborators; Cache consumes a
// Stats sink and two fire-and-forget executors (write and delete) as
// opaque task submitters.
package rangecache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/rangecache/internal/taskpool"
)

// Cache is a local range cache manager for byte ranges of remote files.
// It is safe for concurrent use by multiple goroutines.
type Cache struct {
	baseDir string

	persisted  *pathMap
	entries    *EntryCache
	writeExec  *taskpool.Pool
	deleteExec *taskpool.Pool

	stats   Stats
	logger  *slog.Logger
	newPath func(baseDir string) string

	maxInFlightBytes uint64
}

// New creates a Cache rooted at cfg.BaseDirectory. If the directory does not
// exist it is created; if it exists, every regular file in it is purged
// asynchronously on the delete executor (stray files from a previous,
// uncleanly stopped process are not trusted as valid cache state — the spec
// has no cross-process persistence of cache metadata).
func New(ctx context.Context, cfg Config, opts ...Option) (*Cache, error) {
	o := defaultCacheOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.stats == nil {
		o.stats = NewMemStats()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.BaseDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseDirectory, cfg.BaseDirectory, err)
	}

	c := &Cache{
		baseDir:          cfg.BaseDirectory,
		persisted:        newPathMap(),
		writeExec:        taskpool.New(o.writeConcurrency),
		deleteExec:       taskpool.New(o.deleteConcurrency),
		stats:            o.stats,
		logger:           o.logger,
		newPath:          o.newPath,
		maxInFlightBytes: cfg.MaxInMemoryCacheSize,
	}
	c.entries = NewEntryCache(cfg.MaxCachedEntries, cfg.CacheTTL, c.onEvicted)

	c.purgeStaleFiles(ctx)
	return c, nil
}

// purgeStaleFiles asynchronously removes every regular file directly under
// baseDir. It is best effort: errors are logged and otherwise ignored, since
// an orphan left behind will be purged again on the next startup.
func (c *Cache) purgeStaleFiles(ctx context.Context) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		ctxlog.Warn(ctx, "rangecache: startup purge: failed to list base directory", "dir", c.baseDir, "error", err)
		return
	}
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		name := filepath.Join(c.baseDir, de.Name())
		c.deleteExec.Submit(func() {
			if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
				c.logger.Warn("rangecache: startup purge failed", "path", name, "error", err)
			}
		})
	}
}

// onEvicted is the EntryCache removal hook: it unlinks path from persisted
// and schedules deletion of every file the evicted CacheRange owned.
func (c *Cache) onEvicted(path RemotePath) {
	rng := c.persisted.removeAndGet(path)
	if rng == nil {
		return
	}
	c.deleteExec.Submit(func() {
		rng.RLock()
		files := rng.All()
		rng.RUnlock()
		var failed errors.M
		for _, e := range files {
			if err := os.Remove(e.File.LocalPath); err != nil && !os.IsNotExist(err) {
				failed.Append(fmt.Errorf("%s: %w", e.File.LocalPath, err))
			}
		}
		if err := failed.Err(); err != nil {
			c.logger.Warn("rangecache: eviction delete failed", "path", path, "error", err)
		}
	})
}

// Get implements the Reader contract: on true, buf[bufOffset:bufOffset+req.Length]
// holds the requested bytes; on false, buf's contents are undefined and the
// caller must fall back to the remote origin.
func (c *Cache) Get(req ReadRequest, buf []byte, bufOffset int) bool {
	if req.Length == 0 {
		return true
	}
	c.entries.Touch(req.Path)

	end, err := req.end()
	if err != nil {
		c.stats.IncrementMiss()
		return false
	}

	rng, ok := c.persisted.get(req.Path)
	if !ok {
		c.stats.IncrementMiss()
		return false
	}

	rng.RLock()
	matches := rng.Query(req.Offset, end)
	var file LocalCacheFile
	covered := len(matches) == 1
	if covered {
		file = matches[0].File
	}
	rng.RUnlock()

	if !covered {
		c.stats.IncrementMiss()
		return false
	}

	f, err := os.Open(file.LocalPath)
	if err != nil {
		c.stats.IncrementMiss()
		return false
	}
	defer f.Close()

	n, err := f.ReadAt(buf[bufOffset:bufOffset+int(req.Length)], int64(req.Offset-file.StartOffset))
	if err != nil || n != int(req.Length) {
		c.stats.IncrementMiss()
		return false
	}
	c.stats.IncrementHit()
	return true
}

// Put accepts data (exactly req.Length bytes) as a candidate cache entry for
// req's span of req.Path. It admits or silently drops the write; the actual
// flush (merge protocol) runs asynchronously on the write executor.
func (c *Cache) Put(req ReadRequest, data []byte) {
	if _, err := req.end(); err != nil {
		return
	}
	if uint64(len(data)) != uint64(req.Length) {
		return
	}

	size := int64(len(data))
	if c.stats.InMemoryRetainedBytes()+size >= int64(c.maxInFlightBytes) {
		return
	}
	c.stats.AddInMemoryRetainedBytes(size)

	buf := make([]byte, len(data))
	copy(buf, data)
	c.entries.Touch(req.Path)

	c.writeExec.Submit(func() {
		defer c.stats.AddInMemoryRetainedBytes(-size)
		if err := c.flush(req, buf); err != nil {
			c.logger.Warn("rangecache: flush failed", "path", req.Path, "offset", req.Offset, "length", req.Length, "error", err)
		}
	})
}

// Invalidate explicitly evicts path from the cache, deleting its backing
// files once the delete executor drains. It is the programmatic equivalent
// of the EntryCache expiring path on its own.
func (c *Cache) Invalidate(path RemotePath) {
	c.entries.Remove(path)
}

// Close shuts down both executors immediately and stops the EntryCache's
// background TTL janitor goroutine; in-flight flushes and deletions are
// abandoned, matching the spec's best-effort shutdown contract. Files left
// behind by abandoned flushes are purged on the next New.
func (c *Cache) Close() error {
	c.writeExec.Shutdown()
	c.deleteExec.Shutdown()
	c.entries.Close()
	return nil
}

// Drain blocks until every task submitted to both executors so far has
// completed. It exists for tests and graceful-shutdown callers that want to
// observe a quiescent cache; it is not required for correctness.
func (c *Cache) Drain() {
	c.writeExec.Drain()
	c.deleteExec.Drain()
}
