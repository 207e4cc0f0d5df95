// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"runtime"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// SetBuilder accumulates intervals for any number of chromosomes.
type SetBuilder struct {
	builders  map[string]*Builder
	finalized bool
}

// NewSetBuilder returns an empty SetBuilder.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{builders: make(map[string]*Builder, 24)}
}

// Insert adds iv, with payload id, to chromosome chrom, creating the
// chromosome's Builder on first use.  It returns an error iff Finalize has
// already been called.
func (sb *SetBuilder) Insert(chrom string, iv Interval, id uint32) error {
	if sb.finalized {
		return errors.E(errors.Precondition, "interval.SetBuilder.Insert: called after Finalize")
	}
	b := sb.builders[chrom]
	if b == nil {
		b = &Builder{}
		sb.builders[chrom] = b
	}
	return b.Insert(iv, id)
}

// Finalize finalizes every chromosome's Builder, using up to parallelism
// goroutines (0 = runtime.NumCPU()), and returns the resulting Set.  It must
// be called exactly once.
func (sb *SetBuilder) Finalize(parallelism int) (*Set, error) {
	if sb.finalized {
		return nil, errors.E(errors.Precondition, "interval.SetBuilder.Finalize: called twice")
	}
	sb.finalized = true

	chroms := make([]string, 0, len(sb.builders))
	for chrom := range sb.builders {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	nChrom := len(chroms)

	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > nChrom {
		parallelism = nChrom
	}
	indexes := make([]*Index, nChrom)
	if nChrom != 0 {
		// Each chromosome is owned by exactly one job.
		err := traverse.Each(parallelism, func(jobIdx int) error {
			startIdx := (jobIdx * nChrom) / parallelism
			endIdx := ((jobIdx + 1) * nChrom) / parallelism
			for i := startIdx; i < endIdx; i++ {
				idx, err := sb.builders[chroms[i]].Finalize()
				if err != nil {
					return errors.E(err, "chromosome", chroms[i])
				}
				indexes[i] = idx
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	set := &Set{
		indexes: make(map[string]*Index, nChrom),
		chroms:  chroms,
	}
	for i, chrom := range chroms {
		set.indexes[chrom] = indexes[i]
		set.nEntry += indexes[i].Len()
	}
	sb.builders = nil
	log.Debug.Printf("interval.SetBuilder.Finalize: %d interval(s) on %d chromosome(s)", set.nEntry, nChrom)
	return set, nil
}

// Set is a read-only collection of finalized per-chromosome Indexes.  It is
// safe for concurrent queries.
type Set struct {
	indexes map[string]*Index
	// chroms is sorted.
	chroms []string
	nEntry int
}

// Lookup returns the Index for chrom.  The second return value is false if no
// interval was ever inserted for chrom.
func (s *Set) Lookup(chrom string) (*Index, bool) {
	idx, ok := s.indexes[chrom]
	return idx, ok
}

// Query is equivalent to Lookup(chrom) followed by Index.Query(q, buf).  For
// an unknown chromosome, it returns buf[:0] and false.
func (s *Set) Query(chrom string, q Interval, buf []Entry) ([]Entry, bool) {
	idx, ok := s.indexes[chrom]
	if !ok {
		return buf[:0], false
	}
	return idx.Query(q, buf), true
}

// Chroms returns the chromosome names in sorted order.  The caller must not
// modify the returned slice.
func (s *Set) Chroms() []string {
	return s.chroms
}

// Len returns the total number of stored intervals.
func (s *Set) Len() int {
	return s.nEntry
}
