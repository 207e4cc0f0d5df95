// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"sort"

	"github.com/grailbio/base/errors"
)

// This file implements a static interval index for a single chromosome.
//
// The entries are sorted by (Start, End, ID), and the sorted array is viewed
// as an implicit balanced binary search tree: the root of the subrange
// [lo, hi) is element (lo + hi) / 2, its left subtree is [lo, mid) and its
// right subtree is [mid + 1, hi).  maxEnd[mid] holds the largest End in the
// subrange rooted at mid.
//
// For example, given the sorted intervals
//   0: [1, 3)
//   1: [2, 9)
//   2: [4, 5)
//   3: [6, 7)
//   4: [8, 10)
// the root is element 2, its left subtree {0, 1} is rooted at 1, its right
// subtree {3, 4} is rooted at 4, so
//   maxEnd = {3, 9, 10, 7, 10}.
// A query for [5, 6) starts at element 2 (maxEnd 10 > 5) and descends left to
// element 1.  Element 0 is skipped (maxEnd 3 <= 5), [2, 9) is reported, and
// [4, 5) is rejected since it ends at 5.  In the right subtree, the walk
// reaches [6, 7), which starts at the query end, and stops there without
// looking at [8, 10).
//
// A subtree is skipped entirely when its maxEnd is <= the query start, and an
// in-order walk stops as soon as it reaches an entry starting at or after the
// query end, so a query costs O(log n + k) where k is the number of reported
// entries.  Entries are reported in sorted order.

// Builder accumulates the intervals for a single chromosome.  The zero value
// is ready to use.
type Builder struct {
	entries   []Entry
	finalized bool
}

// Insert appends iv with payload id.  No deduplication is performed.  It
// returns an error iff Finalize has already been called.
func (b *Builder) Insert(iv Interval, id uint32) error {
	if b.finalized {
		return errors.E(errors.Precondition, "interval.Builder.Insert: called after Finalize")
	}
	b.entries = append(b.entries, Entry{Interval: iv, ID: id})
	return nil
}

// Len returns the number of intervals inserted so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Finalize sorts the inserted intervals and returns the queryable Index.  It
// must be called exactly once; the Builder cannot be used afterwards.
func (b *Builder) Finalize() (*Index, error) {
	if b.finalized {
		return nil, errors.E(errors.Precondition, "interval.Builder.Finalize: called twice")
	}
	b.finalized = true
	entries := b.entries
	b.entries = nil
	// ID is the final tiebreaker so that the result does not depend on
	// insertion order.
	sort.Slice(entries, func(i, j int) bool {
		ei, ej := &entries[i], &entries[j]
		if ei.Start != ej.Start {
			return ei.Start < ej.Start
		}
		if ei.End != ej.End {
			return ei.End < ej.End
		}
		return ei.ID < ej.ID
	})
	idx := &Index{
		entries: entries,
		maxEnd:  make([]PosType, len(entries)),
	}
	if len(entries) != 0 {
		idx.initMaxEnd(0, len(entries))
	}
	return idx, nil
}

// Index is a read-only, finalized interval index for a single chromosome.
// It is safe for concurrent queries.
type Index struct {
	entries []Entry
	maxEnd  []PosType
}

// initMaxEnd fills maxEnd[] for the subtree covering [lo, hi), and returns
// the largest End in that range.  lo < hi is required.
func (idx *Index) initMaxEnd(lo, hi int) PosType {
	mid := int(uint(lo+hi) >> 1)
	m := idx.entries[mid].End
	if lo < mid {
		if e := idx.initMaxEnd(lo, mid); e > m {
			m = e
		}
	}
	if mid+1 < hi {
		if e := idx.initMaxEnd(mid+1, hi); e > m {
			m = e
		}
	}
	idx.maxEnd[mid] = m
	return m
}

// Len returns the number of stored intervals.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns the stored intervals in sorted order.  The caller must not
// modify the returned slice.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Query appends every stored entry e satisfying
//   e.Start < q.End && e.End > q.Start
// to buf[:0], in sorted order, and returns the resulting slice.  Passing the
// previous return value back in as buf avoids reallocation across queries.
func (idx *Index) Query(q Interval, buf []Entry) []Entry {
	buf = buf[:0]
	if len(idx.entries) == 0 {
		return buf
	}
	return idx.query(q, 0, len(idx.entries), buf)
}

func (idx *Index) query(q Interval, lo, hi int, buf []Entry) []Entry {
	// Recurse on left subtrees, iterate on right subtrees.
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if idx.maxEnd[mid] <= q.Start {
			return buf
		}
		buf = idx.query(q, lo, mid, buf)
		e := &idx.entries[mid]
		if e.Start >= q.End {
			return buf
		}
		if e.End > q.Start {
			buf = append(buf, *e)
		}
		lo = mid + 1
	}
	return buf
}
