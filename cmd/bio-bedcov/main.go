// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

// See doc.go for documentation
import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bedcov/coverage"
)

var (
	outPath     = flag.String("out", "", "Output TSV path; stdout if empty")
	parallelism = flag.Int("parallelism", coverage.DefaultOpts.Parallelism, "Maximum number of goroutines; 0 = runtime.NumCPU()")
	batchSize   = flag.Int("batch-size", coverage.DefaultOpts.BatchSize, "Number of target records evaluated per output batch")
	strict      = flag.Bool("strict", coverage.DefaultOpts.Strict, "Fail on malformed input lines instead of skipping them")
)

func bioBedcovUsage() {
	fmt.Printf("Usage: %s [OPTIONS] refpath targetpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func run(ctx context.Context, refPath, targetPath, outPath string, opts coverage.Opts) (err error) {
	w := io.Writer(os.Stdout)
	if outPath != "" {
		var out file.File
		if out, err = file.Create(ctx, outPath); err != nil {
			return
		}
		defer file.CloseAndReport(ctx, out, &err)
		w = out.Writer(ctx)
	}
	_, err = coverage.Run(ctx, refPath, targetPath, w, opts)
	return
}

func main() {
	flag.Usage = bioBedcovUsage
	shutdown := grail.Init()
	defer shutdown()

	positionalArgs := flag.Args()
	if nPositionalArgs := len(positionalArgs); nPositionalArgs != 2 {
		if nPositionalArgs < 2 {
			log.Fatalf("Missing positional arguments (refpath and targetpath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		} else {
			log.Fatalf("Too many positional arguments (only refpath and targetpath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
	}
	ctx := vcontext.Background()
	opts := coverage.Opts{
		Parallelism: *parallelism,
		BatchSize:   *batchSize,
		Strict:      *strict,
	}
	if err := run(ctx, positionalArgs[0], positionalArgs[1], *outPath, opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
