// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import "fmt"

// RemotePath is an opaque identifier for a remote file; it is used as the
// key for both the entry cache and the per-file range map.
type RemotePath string

// ReadRequest describes a byte range of a remote file: [Offset, Offset+Length).
// Put reuses ReadRequest to describe the span being written, exactly as the
// byte range it then caches.
type ReadRequest struct {
	Path   RemotePath
	Offset uint64
	Length uint32
}

// end returns Offset+Length, validating that the sum does not overflow.
func (r ReadRequest) end() (uint64, error) {
	end := r.Offset + uint64(r.Length)
	if end < r.Offset {
		return 0, fmt.Errorf("%w: offset %d + length %d overflows", ErrInvalidRequest, r.Offset, r.Length)
	}
	return end, nil
}
