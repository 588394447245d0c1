// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecache

import (
	"io"
	"os"
)

// flush runs the merge protocol (§4.5 of the design) for a single Put: it
// produces one new local file that is the union of any touching previous
// and following cached ranges with the incoming data, then atomically swaps
// it into the range map for req.Path. All disk I/O happens with no
// CacheRange lock held; only the snapshot (Phase 1) and the commit
// (Phase 4) touch the lock, and each holds it only for the duration of a
// few map operations.
func (c *Cache) flush(req ReadRequest, data []byte) error {
	O := req.Offset
	L := uint64(req.Length)
	rng := c.persisted.computeIfAbsent(req.Path)

	// Phase 1 — optimistic snapshot.
	rng.RLock()
	prev, havePrev := pointBefore(rng, O)
	next, haveNext := rng.Point(O + L)
	rng.RUnlock()

	// Phase 2 — early exit: already covered by a single existing range.
	if havePrev && haveNext && prev.File == next.File {
		return nil
	}

	// Phase 3 — build the new local file, no locks held.
	newPath := c.newPath(c.baseDir)
	newStart, newLen, err := buildMergedFile(newPath, O, L, data, prev, havePrev, next, haveNext)
	if err != nil {
		_ = os.Remove(newPath)
		return newInternalError(err)
	}
	if newLen == 0 {
		// tail_len (or the entire span) turned out to already be covered
		// by prev; treat as covered and return success (see design notes).
		_ = os.Remove(newPath)
		return nil
	}

	// Phase 4 — commit under the write lock.
	rng.mu.Lock()
	curPrev, curHavePrev := pointBefore(rng, O)
	curNext, curHaveNext := rng.Point(O + L)
	var removed []rangeEntry
	updated := curHavePrev == havePrev && curPrev.File == prev.File &&
		curHaveNext == haveNext && curNext.File == next.File
	if updated {
		removed = rng.Replace(newStart, newStart+newLen, LocalCacheFile{StartOffset: newStart, LocalPath: newPath})
	}
	rng.mu.Unlock()

	// Phase 5 — cleanup, no locks held.
	if !updated {
		c.deleteExec.Submit(func() { _ = os.Remove(newPath) })
		return nil
	}
	for _, e := range removed {
		path := e.File.LocalPath
		c.deleteExec.Submit(func() { _ = os.Remove(path) })
	}
	return nil
}

// pointBefore returns the entry containing the point just before offset, or
// not-found if offset is 0 (there is no point before the start of a file).
func pointBefore(rng *CacheRange, offset uint64) (rangeEntry, bool) {
	if offset == 0 {
		return rangeEntry{}, false
	}
	return rng.Point(offset - 1)
}

// buildMergedFile writes newPath as the contiguous byte image of the union
// of prev (if any), data (the incoming [O, O+L) write) and next (if any). It
// returns the start offset and length of that image. A returned length of 0
// signals that the span is already fully covered by prev and nothing needed
// to be written (see the tail_len <= 0 case in the design notes).
func buildMergedFile(newPath string, O, L uint64, data []byte, prev rangeEntry, havePrev bool, next rangeEntry, haveNext bool) (newStart, newLen uint64, err error) {
	if !havePrev {
		f, err := os.OpenFile(newPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return 0, 0, err
		}
		_, err = f.Write(data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return 0, 0, err
		}
		newStart, newLen = O, L
	} else {
		prevLen := prev.Hi - prev.Lo
		tailEnd := O + L
		tailStart := prev.Lo + prevLen
		if tailEnd <= tailStart {
			// The incoming range is already fully inside prev.
			return 0, 0, nil
		}
		tailLen := tailEnd - tailStart
		if err := copyFile(prev.File.LocalPath, newPath); err != nil {
			return 0, 0, err
		}
		tailDataStart := tailStart - O
		if err := appendToFile(newPath, data[tailDataStart:tailDataStart+tailLen]); err != nil {
			return 0, 0, err
		}
		newStart = prev.Lo
		newLen = prevLen + tailLen
	}

	if haveNext {
		nextFrom := (O + L) - next.Lo
		appended, err := appendFileTail(newPath, next.File.LocalPath, nextFrom)
		if err != nil {
			return 0, 0, err
		}
		newLen += uint64(appended)
	}
	return newStart, newLen, nil
}

// copyFile copies the full contents of src to a newly created dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// appendToFile appends data to the (already-existing) file at path.
func appendToFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// appendFileTail appends everything from srcPath starting at offset from to
// the (already-existing) file at dstPath, returning the number of bytes
// appended.
func appendFileTail(dstPath, srcPath string, from uint64) (int64, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	if _, err := src.Seek(int64(from), io.SeekStart); err != nil {
		return 0, err
	}
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return 0, err
	}
	defer dst.Close()
	return io.Copy(dst, src)
}
