// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bedcov/coverage"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestBedcov(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	refPath := filepath.Join(tmpdir, "ref.bed")
	targetPath := filepath.Join(tmpdir, "target.bed")
	assert.NoError(t, ioutil.WriteFile(refPath, []byte(
		"chr1\t10\t20\n"+
			"chr1\t15\t25\n"+
			"chr1\t40\t50\n"+
			"chr1\t60\t70\n"+
			"chr2\t100\t200\n"), 0644))
	assert.NoError(t, ioutil.WriteFile(targetPath, []byte(
		"chr1\t5\t30\n"+
			"chr1\t0\t5\n"+
			"chr1\t40\t70\n"+
			"chr2\t150\t160\n"+
			"chr3\t1\t2\n"), 0644))
	const want = "chr1\t5\t30\t2\t15\n" +
		"chr1\t0\t5\t0\t0\n" +
		"chr1\t40\t70\t2\t20\n" +
		"chr2\t150\t160\t1\t10\n" +
		"chr3\t1\t2\t0\t0\n"

	ctx := vcontext.Background()
	outPath := filepath.Join(tmpdir, "out.tsv")
	assert.NoError(t, run(ctx, refPath, targetPath, outPath, coverage.DefaultOpts))
	got, err := ioutil.ReadFile(outPath)
	assert.NoError(t, err)
	expect.EQ(t, string(got), want)

	// Rerunning, even with a different degree of parallelism, produces
	// identical output.
	outPath2 := filepath.Join(tmpdir, "out2.tsv")
	opts := coverage.DefaultOpts
	opts.Parallelism = 3
	opts.BatchSize = 2
	assert.NoError(t, run(ctx, refPath, targetPath, outPath2, opts))
	got2, err := ioutil.ReadFile(outPath2)
	assert.NoError(t, err)
	expect.EQ(t, string(got2), string(got))

	expect.NotNil(t, run(ctx, filepath.Join(tmpdir, "missing.bed"), targetPath, filepath.Join(tmpdir, "out3.tsv"), coverage.DefaultOpts))
}
