// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bed

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

type reader struct {
	ctx    context.Context
	infile file.File
	gz     *gzip.Reader
	r      io.Reader
}

func (r *reader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

func (r *reader) Close() (err error) {
	if r.gz != nil {
		err = r.gz.Close()
	}
	if e := r.infile.Close(r.ctx); e != nil && err == nil {
		err = e
	}
	return
}

// Open opens path for reading.  Any path supported by grailbio/base/file is
// accepted; gzip-compressed files (as determined by the path extension) are
// decompressed transparently.  The caller must close the returned reader.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	r := &reader{
		ctx:    ctx,
		infile: infile,
		r:      infile.Reader(ctx),
	}
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if r.gz, err = gzip.NewReader(r.r); err != nil {
			_ = infile.Close(ctx)
			return nil, errors.E(err, "gzip", path)
		}
		r.r = r.gz
	}
	return r, nil
}
