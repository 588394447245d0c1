// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import (
	"context"
	"os"
	"testing"
	"time"

	"cloudeng.io/sync/errgroup"
	"github.com/stretchr/testify/require"
)

// P1/P2: racing, mutually-overlapping puts against one path never leave the
// CacheRange with overlapping intervals; a put that loses the commit race is
// abandoned rather than corrupting the map.
func TestConcurrentOverlappingFlushesNeverOverlap(t *testing.T) {
	dir := t.TempDir()
	c, err := New(context.Background(), Config{
		BaseDirectory:        dir,
		MaxCachedEntries:     10,
		CacheTTL:             time.Hour,
		MaxInMemoryCacheSize: 1 << 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })

	const spans = 8
	const spanLen = 50
	const overlap = 10

	g := errgroup.WithConcurrency(&errgroup.T{}, spans)
	for i := 0; i < spans; i++ {
		offset := uint64(i * (spanLen - overlap))
		data := make([]byte, spanLen)
		for j := range data {
			data[j] = byte('A' + i)
		}
		g.Go(func() error {
			return c.flush(ReadRequest{Path: "P", Offset: offset, Length: spanLen}, data)
		})
	}
	require.NoError(t, g.Wait())
	c.Drain()

	rng, ok := c.persisted.get("P")
	require.True(t, ok)
	rng.RLock()
	entries := rng.All()
	rng.RUnlock()

	for i := 1; i < len(entries); i++ {
		require.LessOrEqual(t, entries[i-1].Hi, entries[i].Lo, "entries %d and %d overlap", i-1, i)
	}
	for _, e := range entries {
		info, err := os.Stat(e.File.LocalPath)
		require.NoError(t, err)
		require.Equal(t, e.Hi-e.Lo, uint64(info.Size()))
	}
}
