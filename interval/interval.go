// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"math"
)

// PosType is the type used to represent interval coordinates.
type PosType uint64

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxUint64

// Interval is a 0-based half-open range [Start, End).  Start <= End is
// assumed but not checked.
type Interval struct {
	Start PosType
	End   PosType
}

// Len returns End - Start.
func (iv Interval) Len() PosType {
	return iv.End - iv.Start
}

// Intersects returns whether iv and other share at least one position, or in
// the case of empty intervals, whether iv.Start < other.End and
// iv.End > other.Start.
func (iv Interval) Intersects(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// Clip returns iv restricted to window.  The result is only meaningful when
// iv.Intersects(window).
func (iv Interval) Clip(window Interval) Interval {
	if iv.Start < window.Start {
		iv.Start = window.Start
	}
	if iv.End > window.End {
		iv.End = window.End
	}
	return iv
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d)", iv.Start, iv.End)
}

// Entry is an Interval stored in an Index, along with a caller-defined
// payload.  bio-bedcov stores the reference record ordinal there.
type Entry struct {
	Interval
	ID uint32
}
