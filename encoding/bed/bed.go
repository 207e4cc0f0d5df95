// Copyright 2020 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bed reads the first three columns (chrom, start, end) of BED-like
// tab-delimited files.
package bed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/bedcov/interval"
)

// Record is a single 0-based half-open interval on a named chromosome.
type Record struct {
	Chrom string
	interval.Interval
}

// Opts controls Scanner behavior.
type Opts struct {
	// Strict causes malformed lines to be reported as errors instead of being
	// silently skipped.  Lines starting with "#", "track" or "browser" are
	// still skipped when they can't be parsed.
	Strict bool
}

// Stats summarizes what a Scanner has seen so far.
type Stats struct {
	// Lines is the number of lines read, including blank ones.
	Lines int
	// Records is the number of records returned.
	Records int
	// Dropped is the number of nonblank lines that could not be parsed.
	Dropped int
}

// maxLineLen bounds the length of a single input line.
const maxLineLen = 16 << 20

// Scanner iterates over the records of a BED-like file.  Typical usage:
//   sc := bed.NewScanner(r, bed.Opts{})
//   for sc.Scan() {
//     rec := sc.Record()
//     ...
//   }
//   if err := sc.Err(); err != nil {
//     ...
//   }
type Scanner struct {
	scanner *bufio.Scanner
	opts    Opts
	tokens  [3][]byte
	rec     Record
	stats   Stats
	err     error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader, opts Opts) *Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineLen)
	return &Scanner{
		scanner: scanner,
		opts:    opts,
	}
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

func isHeaderLine(firstToken []byte) bool {
	return firstToken[0] == '#' || bytes.Equal(firstToken, []byte("track")) || bytes.Equal(firstToken, []byte("browser"))
}

// parse fills s.rec from s.tokens.  The returned error message does not
// include the line number.
func (s *Scanner) parse(nToken int) error {
	if nToken != 3 {
		return fmt.Errorf("expected at least 3 columns, found %d", nToken)
	}
	start, err := strconv.ParseUint(gunsafe.BytesToString(s.tokens[1]), 10, 64)
	if err != nil {
		return err
	}
	end, err := strconv.ParseUint(gunsafe.BytesToString(s.tokens[2]), 10, 64)
	if err != nil {
		return err
	}
	if s.opts.Strict && end < start {
		return fmt.Errorf("invalid coordinate pair [%d, %d)", start, end)
	}
	// Input is usually grouped by chromosome, so this rarely allocates.
	if chrom := s.tokens[0]; gunsafe.BytesToString(chrom) != s.rec.Chrom {
		s.rec.Chrom = string(chrom)
	}
	s.rec.Start = interval.PosType(start)
	s.rec.End = interval.PosType(end)
	return nil
}

// Scan advances to the next record.  It returns false at end of input, or on
// error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.scanner.Scan() {
		s.stats.Lines++
		nToken := getTokens(s.tokens[:], s.scanner.Bytes())
		if nToken == 0 {
			continue
		}
		if err := s.parse(nToken); err != nil {
			if s.opts.Strict && !isHeaderLine(s.tokens[0]) {
				s.err = errors.E(errors.Invalid, fmt.Sprintf("bed: line %d: %v", s.stats.Lines, err))
				return false
			}
			s.stats.Dropped++
			continue
		}
		s.stats.Records++
		return true
	}
	s.err = s.scanner.Err()
	return false
}

// Record returns the record read by the last successful Scan call.
func (s *Scanner) Record() Record {
	return s.rec
}

// Err returns the first error encountered, if any.  Skipped lines are not
// errors.
func (s *Scanner) Err() error {
	return s.err
}

// Stats returns the line and record counts so far.
func (s *Scanner) Stats() Stats {
	return s.stats
}
