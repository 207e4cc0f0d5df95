// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package interval implements a static per-chromosome interval index for sets
  of genomic coordinates, as found in BED files.

  Unlike a union, overlapping intervals are tracked separately: a query
  reports every stored interval intersecting the query range.

  The index is built in two phases.  A Builder (or a SetBuilder, keyed by
  chromosome name) accumulates intervals in arbitrary order; Finalize() sorts
  them and returns a read-only Index (or Set) which can then be queried
  concurrently.  It is not possible to query a Builder or to insert into an
  Index.

  All intervals are 0-based and half-open, [Start, End).  Positions are
  uint64.
*/
package interval
