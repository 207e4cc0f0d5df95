// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package coverage

import (
	"context"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bedcov/encoding/bed"
	"github.com/grailbio/bedcov/interval"
	"v.io/x/lib/vlog"
)

// Opts controls Run.
type Opts struct {
	// Parallelism is the maximum number of goroutines used to finalize the
	// reference index and to evaluate targets.  0 = runtime.NumCPU().
	Parallelism int
	// BatchSize is the number of target records evaluated between output
	// writes.
	BatchSize int
	// Strict causes malformed input lines to be treated as errors instead of
	// being skipped.
	Strict bool
}

// DefaultOpts are the default values for Opts.
var DefaultOpts = Opts{
	Parallelism: 0,
	BatchSize:   4096,
	Strict:      false,
}

// Stats summarizes a Run.
type Stats struct {
	// RefRecords is the number of reference intervals loaded.
	RefRecords int
	// RefDropped is the number of malformed reference lines skipped.
	RefDropped int
	// Chroms is the number of distinct reference chromosomes.
	Chroms int
	// Targets is the number of target records evaluated.
	Targets int
	// TargetDropped is the number of malformed target lines skipped.
	TargetDropped int
	// UnknownChrom is the number of targets on a chromosome with no reference
	// intervals.
	UnknownChrom int
}

func (o *Opts) parallelism() int {
	if o.Parallelism <= 0 {
		return runtime.NumCPU()
	}
	return o.Parallelism
}

// LoadReference reads every record from r into a finalized interval.Set.
// Each entry's ID is its record ordinal.
func LoadReference(r io.Reader, opts Opts) (*interval.Set, bed.Stats, error) {
	sb := interval.NewSetBuilder()
	sc := bed.NewScanner(r, bed.Opts{Strict: opts.Strict})
	var id uint32
	for sc.Scan() {
		rec := sc.Record()
		if err := sb.Insert(rec.Chrom, rec.Interval, id); err != nil {
			return nil, sc.Stats(), err
		}
		id++
	}
	if err := sc.Err(); err != nil {
		return nil, sc.Stats(), err
	}
	set, err := sb.Finalize(opts.parallelism())
	return set, sc.Stats(), err
}

func writeResult(w *tsv.Writer, res *Result) error {
	w.WriteString(res.Chrom)
	w.WriteString(strconv.FormatUint(uint64(res.Start), 10))
	w.WriteString(strconv.FormatUint(uint64(res.End), 10))
	w.WriteString(strconv.FormatUint(res.Count, 10))
	w.WriteString(strconv.FormatUint(uint64(res.Covered), 10))
	return w.EndLine()
}

// EvaluateAll reads target records from r, evaluates each of them against set,
// and writes one
//   chrom  start  end  count  covered
// line per record to out, in input order.  Output does not depend on
// opts.Parallelism.
func EvaluateAll(set *interval.Set, r io.Reader, out io.Writer, opts Opts, stats *Stats) (err error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultOpts.BatchSize
	}
	parallelism := opts.parallelism()
	evaluators := make([]*Evaluator, parallelism)
	for i := range evaluators {
		evaluators[i] = NewEvaluator(set)
	}
	defer func() {
		for _, ev := range evaluators {
			stats.UnknownChrom += ev.nUnknownChrom
		}
	}()

	tsvw := tsv.NewWriter(out)
	batch := make([]bed.Record, 0, batchSize)
	results := make([]Result, batchSize)
	flush := func() error {
		n := len(batch)
		nJob := parallelism
		if nJob > n {
			nJob = n
		}
		if nJob <= 1 {
			for i := range batch {
				results[i] = evaluators[0].Eval(batch[i])
			}
		} else {
			// Each job owns a contiguous slice of the batch and one Evaluator.
			_ = traverse.Each(nJob, func(jobIdx int) error {
				startIdx := (jobIdx * n) / nJob
				endIdx := ((jobIdx + 1) * n) / nJob
				ev := evaluators[jobIdx]
				for i := startIdx; i < endIdx; i++ {
					results[i] = ev.Eval(batch[i])
				}
				return nil
			})
		}
		for i := 0; i < n; i++ {
			if err := writeResult(tsvw, &results[i]); err != nil {
				return err
			}
		}
		stats.Targets += n
		batch = batch[:0]
		return nil
	}

	sc := bed.NewScanner(r, bed.Opts{Strict: opts.Strict})
	defer func() {
		stats.TargetDropped += sc.Stats().Dropped
	}()
	for sc.Scan() {
		batch = append(batch, sc.Record())
		if len(batch) == batchSize {
			if err = flush(); err != nil {
				return
			}
		}
	}
	if err = sc.Err(); err != nil {
		// Results for records before the bad line have already been written;
		// there is no point in holding back the rest of the batch.
		if e := flush(); e == nil {
			_ = tsvw.Flush()
		}
		return
	}
	if err = flush(); err != nil {
		return
	}
	return tsvw.Flush()
}

// Run computes coverage of each record in targetPath by the intervals in
// refPath, writing results to out.  The reference file is fully loaded, and
// the target file opened, before anything is written.
func Run(ctx context.Context, refPath, targetPath string, out io.Writer, opts Opts) (stats Stats, err error) {
	startTime := time.Now()
	var refIn io.ReadCloser
	if refIn, err = bed.Open(ctx, refPath); err != nil {
		return
	}
	set, refStats, err := LoadReference(refIn, opts)
	if e := refIn.Close(); e != nil && err == nil {
		err = e
	}
	stats.RefRecords = refStats.Records
	stats.RefDropped = refStats.Dropped
	if err != nil {
		err = errors.E(err, "reading", refPath)
		return
	}
	stats.Chroms = len(set.Chroms())
	vlog.VI(1).Infof("coverage.Run: loaded %d interval(s) on %d chromosome(s) from %s in %v",
		stats.RefRecords, stats.Chroms, refPath, time.Since(startTime))

	var targetIn io.ReadCloser
	if targetIn, err = bed.Open(ctx, targetPath); err != nil {
		return
	}
	defer func() {
		if e := targetIn.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if err = EvaluateAll(set, targetIn, out, opts, &stats); err != nil {
		err = errors.E(err, "evaluating", targetPath)
		return
	}
	log.Debug.Printf("coverage.Run: %d target(s) evaluated, %d on unknown chromosomes; dropped %d reference and %d target line(s)",
		stats.Targets, stats.UnknownChrom, stats.RefDropped, stats.TargetDropped)
	vlog.VI(1).Infof("coverage.Run: done in %v", time.Since(startTime))
	return
}
