// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned, or wrapped, when a ReadRequest's
	// offset and length cannot describe a valid byte range.
	ErrInvalidRequest = errors.New("invalid read request")

	// ErrBaseDirectory is returned by New when the configured base
	// directory cannot be created.
	ErrBaseDirectory = errors.New("base directory unusable")

	// ErrInternalError is the sentinel matched by errors.Is against any
	// internalError, regardless of the wrapped cause.
	ErrInternalError = &internalError{}
)

// internalError wraps I/O and bookkeeping failures encountered on the
// flush path. It is never returned to callers of Get; it is logged and
// folded into a flush failure.
type internalError struct {
	err error
}

func newInternalError(err error) error {
	return &internalError{err: err}
}

func (e *internalError) Error() string {
	return fmt.Sprintf("rangecache: internal error: %v", e.err)
}

func (e *internalError) Unwrap() error {
	return e.err
}

func (e *internalError) Is(target error) bool {
	_, ok := target.(*internalError)
	return ok
}
