// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Given a reference BED and a target BED, bio-bedcov reports, for each target
interval, the number of reference intervals overlapping it and the number of
target bases covered by at least one of them.  This is similar to
"bedtools coverage -counts", except that overlapping reference intervals are
not double-counted in the covered-base total.

Only the first three columns of each file are used.  Neither file needs to be
sorted.  Lines that can't be parsed are skipped unless -strict is specified.
Gzipped inputs are decompressed when the path ends in .gz.

Output is one tab-separated line per target record, in input order:
  chrom  start  end  overlap_count  covered_bases
Targets on a chromosome absent from the reference have count and coverage 0.

Sample usage:
bio-bedcov \
    --out coverage.tsv \
    reference.bed \
    targets.bed
*/
package main
