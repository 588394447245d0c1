// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

// LocalCacheFile is an immutable descriptor of a single contiguous chunk of
// a remote file stored on the local filesystem. StartOffset is the offset
// within the remote file at which the local file's first byte corresponds;
// its on-disk length is the length of the interval that maps to it within
// its owning CacheRange (invariant I2 in the design).
//
// Two LocalCacheFile values are equal iff both fields are equal.
type LocalCacheFile struct {
	StartOffset uint64
	LocalPath   string
}

// IsZero reports whether f is the zero LocalCacheFile. The merge protocol
// does not use it; it tracks a missing prev or next neighbor with separate
// found flags.
func (f LocalCacheFile) IsZero() bool {
	return f == LocalCacheFile{}
}
