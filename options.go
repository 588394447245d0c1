// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import (
	"log/slog"

	"github.com/google/uuid"
)

type cacheOptions struct {
	stats             Stats
	logger            *slog.Logger
	writeConcurrency  int
	deleteConcurrency int
	newPath           func(baseDir string) string
}

// Option configures a Cache at construction time.
type Option func(*cacheOptions)

// WithStats supplies a Stats sink; if omitted, NewMemStats is used.
func WithStats(s Stats) Option {
	return func(o *cacheOptions) { o.stats = s }
}

// WithLogger supplies the slog.Logger used for warn-level flush/deletion
// failures; if omitted, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *cacheOptions) { o.logger = logger }
}

// WithWriteConcurrency bounds the number of flush tasks (merge protocol
// runs) executing concurrently. Defaults to 4.
func WithWriteConcurrency(n int) Option {
	return func(o *cacheOptions) { o.writeConcurrency = n }
}

// WithDeleteConcurrency bounds the number of concurrent best-effort file
// deletions (eviction, startup purge, abandoned merges). Defaults to 4.
func WithDeleteConcurrency(n int) Option {
	return func(o *cacheOptions) { o.deleteConcurrency = n }
}

// WithNewPathFunc overrides how flush tasks name new local cache files;
// tests use this to get deterministic filenames instead of random UUIDs.
func WithNewPathFunc(fn func(baseDir string) string) Option {
	return func(o *cacheOptions) { o.newPath = fn }
}

func defaultCacheOptions() cacheOptions {
	return cacheOptions{
		writeConcurrency:  4,
		deleteConcurrency: 4,
		newPath:           randomCachePath,
	}
}

func randomCachePath(baseDir string) string {
	return baseDir + "/" + uuid.NewString() + ".cache"
}
