// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache_test

import (
	"testing"

	rangecache "cloudeng.io/rangecache"
	"cloudeng.io/sync/errgroup"
	"github.com/stretchr/testify/require"
)

// P4: concurrent puts to disjoint, non-touching spans of the same path never
// lose data to a false race detection — non-overlapping ranges can never
// disagree on their observed neighbors.
func TestConcurrentDisjointPutsAllSucceed(t *testing.T) {
	c, _ := newTestCache(t)

	const spans = 6
	const spanLen = 10
	const gap = 5

	g := errgroup.WithConcurrency(&errgroup.T{}, spans)
	for i := 0; i < spans; i++ {
		offset := uint64(i * (spanLen + gap))
		data := make([]byte, spanLen)
		for j := range data {
			data[j] = byte('0' + i)
		}
		g.Go(func() error {
			c.Put(rangecache.ReadRequest{Path: "P", Offset: offset, Length: spanLen}, data)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	c.Drain()

	for i := 0; i < spans; i++ {
		offset := uint64(i * (spanLen + gap))
		buf := make([]byte, spanLen)
		ok := c.Get(rangecache.ReadRequest{Path: "P", Offset: offset, Length: spanLen}, buf, 0)
		require.True(t, ok, "span %d", i)
		for _, b := range buf {
			require.Equal(t, byte('0'+i), b)
		}
	}
}
