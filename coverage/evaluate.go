// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package coverage computes, for each target interval, the number of
  reference intervals overlapping it and the length of the target covered by
  the union of those overlaps.
*/
package coverage

import (
	"sort"

	"github.com/grailbio/bedcov/encoding/bed"
	"github.com/grailbio/bedcov/interval"
)

// Result is the coverage summary for one target record.
type Result struct {
	bed.Record
	// Count is the number of reference intervals intersecting the target.
	Count uint64
	// Covered is the length of the union of those intervals, clipped to the
	// target.
	Covered interval.PosType
}

func spanLen(iv interval.Interval) interval.PosType {
	// Reversed target coordinates can produce End < Start after clipping.
	if iv.End > iv.Start {
		return iv.End - iv.Start
	}
	return 0
}

// Evaluate returns the number of entries in overlaps, and the total length of
// target covered by their union.  overlaps may be in any order.  *clipped is
// used as scratch space; it is reallocated as necessary.
func Evaluate(target interval.Interval, overlaps []interval.Entry, clipped *[]interval.Interval) (count uint64, covered interval.PosType) {
	count = uint64(len(overlaps))
	if count == 0 {
		return
	}
	c := (*clipped)[:0]
	for _, e := range overlaps {
		c = append(c, e.Clip(target))
	}
	*clipped = c
	// Index.Query already returns entries sorted by start, and clipping
	// preserves that, but the merge below must not depend on it.
	if !sort.SliceIsSorted(c, func(i, j int) bool { return c[i].Start < c[j].Start }) {
		sort.Slice(c, func(i, j int) bool { return c[i].Start < c[j].Start })
	}

	span := c[0]
	for _, iv := range c[1:] {
		if iv.Start > span.End {
			covered += spanLen(span)
			span = iv
		} else if iv.End > span.End {
			span.End = iv.End
		}
	}
	covered += spanLen(span)
	return
}

// Evaluator evaluates target records against a reference Set.  It owns the
// scratch buffers reused across calls, so each goroutine needs its own
// Evaluator; the Set may be shared.
type Evaluator struct {
	set      *interval.Set
	overlaps []interval.Entry
	clipped  []interval.Interval
	// nUnknownChrom is the number of evaluated records whose chromosome is
	// absent from set.
	nUnknownChrom int
}

// NewEvaluator returns an Evaluator for set.
func NewEvaluator(set *interval.Set) *Evaluator {
	return &Evaluator{
		set:      set,
		overlaps: make([]interval.Entry, 0, 4096),
	}
}

// Eval computes the Result for rec.  A chromosome absent from the reference
// set has no overlaps, so Count and Covered are both zero.
func (ev *Evaluator) Eval(rec bed.Record) Result {
	var found bool
	ev.overlaps, found = ev.set.Query(rec.Chrom, rec.Interval, ev.overlaps)
	if !found {
		ev.nUnknownChrom++
	}
	count, covered := Evaluate(rec.Interval, ev.overlaps, &ev.clipped)
	return Result{
		Record:  rec,
		Count:   count,
		Covered: covered,
	}
}
