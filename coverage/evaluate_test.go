// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package coverage

import (
	"math/rand"
	"testing"

	"github.com/grailbio/bedcov/encoding/bed"
	"github.com/grailbio/bedcov/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func entries(ivs ...interval.Interval) []interval.Entry {
	es := make([]interval.Entry, len(ivs))
	for i, iv := range ivs {
		es[i] = interval.Entry{Interval: iv, ID: uint32(i)}
	}
	return es
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		target   interval.Interval
		overlaps []interval.Entry
		count    uint64
		covered  interval.PosType
	}{
		{interval.Interval{Start: 10, End: 20}, nil, 0, 0},
		{interval.Interval{Start: 5, End: 30}, entries(interval.Interval{Start: 10, End: 20}, interval.Interval{Start: 15, End: 25}), 2, 15},
		{interval.Interval{Start: 150, End: 160}, entries(interval.Interval{Start: 100, End: 200}), 1, 10},
		{interval.Interval{Start: 0, End: 30}, entries(interval.Interval{Start: 0, End: 10}, interval.Interval{Start: 20, End: 30}), 2, 20},
		// Out of order.
		{interval.Interval{Start: 0, End: 30}, entries(interval.Interval{Start: 20, End: 30}, interval.Interval{Start: 0, End: 10}), 2, 20},
		{interval.Interval{Start: 0, End: 30}, entries(
			interval.Interval{Start: 15, End: 25},
			interval.Interval{Start: 12, End: 13},
			interval.Interval{Start: 10, End: 20}), 3, 15},
		// Touching spans are merged.
		{interval.Interval{Start: 0, End: 20}, entries(interval.Interval{Start: 0, End: 10}, interval.Interval{Start: 10, End: 20}), 2, 20},
		// Nested and duplicated intervals count separately but cover once.
		{interval.Interval{Start: 5, End: 50}, entries(
			interval.Interval{Start: 0, End: 100},
			interval.Interval{Start: 10, End: 20},
			interval.Interval{Start: 10, End: 20}), 3, 45},
		// A single interval starting after zero.
		{interval.Interval{Start: 100, End: 300}, entries(interval.Interval{Start: 150, End: 250}), 1, 100},
		// Reversed target coordinates don't underflow.
		{interval.Interval{Start: 20, End: 10}, entries(interval.Interval{Start: 0, End: 30}), 1, 0},
	}
	var clipped []interval.Interval
	for _, tt := range tests {
		count, covered := Evaluate(tt.target, tt.overlaps, &clipped)
		expect.EQ(t, count, tt.count, "target %v overlaps %v", tt.target, tt.overlaps)
		expect.EQ(t, covered, tt.covered, "target %v overlaps %v", tt.target, tt.overlaps)
	}
}

func TestEvaluateRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var clipped []interval.Interval
	for iter := 0; iter < 2000; iter++ {
		tStart := r.Intn(200)
		target := interval.Interval{Start: interval.PosType(tStart), End: interval.PosType(tStart + r.Intn(100))}
		var overlaps []interval.Entry
		for i := r.Intn(10); i > 0; i-- {
			start := r.Intn(300)
			iv := interval.Interval{Start: interval.PosType(start), End: interval.PosType(start + r.Intn(60))}
			if iv.Intersects(target) {
				overlaps = append(overlaps, interval.Entry{Interval: iv})
			}
		}
		covered := make([]bool, target.End)
		var want interval.PosType
		for _, e := range overlaps {
			for pos := e.Start; pos < e.End; pos++ {
				if pos >= target.Start && pos < target.End && !covered[pos] {
					covered[pos] = true
					want++
				}
			}
		}
		count, got := Evaluate(target, overlaps, &clipped)
		assert.EQ(t, count, uint64(len(overlaps)))
		assert.EQ(t, got, want, "target %v overlaps %v", target, overlaps)
		assert.True(t, got <= target.Len())
	}
}

func TestEvaluatorUnknownChrom(t *testing.T) {
	sb := interval.NewSetBuilder()
	assert.NoError(t, sb.Insert("chr1", interval.Interval{Start: 0, End: 100}, 0))
	set, err := sb.Finalize(1)
	assert.NoError(t, err)

	ev := NewEvaluator(set)
	res := ev.Eval(bed.Record{Chrom: "chr3", Interval: interval.Interval{Start: 1, End: 2}})
	expect.EQ(t, res.Count, uint64(0))
	expect.EQ(t, res.Covered, interval.PosType(0))
	expect.EQ(t, ev.nUnknownChrom, 1)

	res = ev.Eval(bed.Record{Chrom: "chr1", Interval: interval.Interval{Start: 50, End: 150}})
	expect.EQ(t, res.Count, uint64(1))
	expect.EQ(t, res.Covered, interval.PosType(50))
	expect.EQ(t, res.Record, bed.Record{Chrom: "chr1", Interval: interval.Interval{Start: 50, End: 150}})
	expect.EQ(t, ev.nUnknownChrom, 1)
}
