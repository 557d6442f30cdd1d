// Package index implements the single-pass streaming build of a
// .vocab/.if index from sorted termid\tdocid\tscore input, and the
// read-side vocab lookup used by the querier.
package index

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/format"
	"github.com/satirehq/satire/internal/quant"
)

// Stats summarizes a completed build, for the final log line and for
// tests asserting on invariants.
type Stats struct {
	LinesRead        int64
	PostingsAccepted int64
	PostingsDropped  int64
	TermsEmitted     int64
	TermsSkippedZero int64
	IfBytesWritten   int64
}

// BuildWriters bundles the two output streams the builder writes to.
// Callers (pkg/indexer) own buffering and atomic-rename semantics;
// this package only ever appends.
type BuildWriters struct {
	Vocab io.Writer
	If    io.Writer
}

// ProgressFunc is invoked each time a term is flushed with at least one
// posting, with the number of vocab entries written so far. Terms whose
// every posting was cutoff-dropped do not trigger it. Used to narrate
// progress every 10,000th term; pass nil to disable.
type ProgressFunc func(termsEmitted int64)

// run accumulates one contiguous block of docids sharing a quantized
// score, within the current term.
type run struct {
	qscore int
	docids []uint32
}

// Build performs the single streaming pass described by the build
// algorithm: read sorted (termid, docid, score) triples, quantize and
// cutoff-filter each score, group postings into runs by equal QSCORE,
// and flush a vocab entry plus its runs at each term boundary.
//
// input must be sorted ascending by termid, then descending by score,
// then ascending by docid; violating this is not detected here and
// produces a structurally valid but semantically wrong index.
func Build(w BuildWriters, input io.Reader, numDocs, lowScoreCutoff, maxQuantisedValue int, onProgress ProgressFunc) (Stats, error) {
	var stats Stats

	var (
		curTerm      int64 = -1
		curTermValid       = false
		runs         []run
		ifOffset     int64
	)

	flush := func() error {
		if !curTermValid {
			return nil
		}
		n, err := flushTerm(w, uint32(curTerm), runs, ifOffset)
		if err != nil {
			return err
		}
		if n == 0 {
			stats.TermsSkippedZero++
		} else {
			stats.TermsEmitted++
			if onProgress != nil {
				onProgress(stats.TermsEmitted)
			}
		}
		ifOffset += int64(runBytesWritten(runs))
		runs = runs[:0]
		return nil
	}

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := int64(0)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		stats.LinesRead++

		termID, docID, score, err := parseLine(line)
		if err != nil {
			return stats, satireerrors.InvalidInput(satireerrors.ErrCodeMalformedLine,
				fmt.Sprintf("line %d: %v", lineNo, err), err)
		}
		if docID < 0 || docID >= numDocs {
			return stats, satireerrors.OutOfRange(satireerrors.ErrCodeDocIDRange,
				fmt.Sprintf("line %d: docid %d outside [0, %d)", lineNo, docID, numDocs), nil)
		}

		q, err := quant.Quantize(score, maxQuantisedValue)
		if err != nil {
			return stats, satireerrors.OutOfRange(satireerrors.ErrCodeScoreRange,
				fmt.Sprintf("line %d: %v", lineNo, err), err)
		}

		if int64(termID) != curTerm {
			if err := flush(); err != nil {
				return stats, err
			}
			curTerm = int64(termID)
			curTermValid = true
		}

		if quant.BelowCutoff(q, lowScoreCutoff) {
			stats.PostingsDropped++
			continue
		}
		stats.PostingsAccepted++

		if len(runs) == 0 || runs[len(runs)-1].qscore != q {
			runs = append(runs, run{qscore: q})
		}
		last := &runs[len(runs)-1]
		last.docids = append(last.docids, uint32(docID))
	}
	if err := scanner.Err(); err != nil {
		return stats, satireerrors.IO(satireerrors.ErrCodeOpen, "failed reading input stream", err)
	}

	if err := flush(); err != nil {
		return stats, err
	}

	stats.IfBytesWritten = ifOffset
	return stats, nil
}

// flushTerm writes a term's runs to the .if stream and its vocab
// entry to the .vocab stream. Returns the postings count written; a
// term whose every posting was cutoff-dropped writes nothing (a
// zero-postings vocab entry is index corruption, not a valid empty
// term — see the querier's IndexCorrupt check).
func flushTerm(w BuildWriters, termID uint32, runs []run, ifOffset int64) (uint32, error) {
	var postingsCount uint32
	for _, r := range runs {
		postingsCount += uint32(len(r.docids))
	}
	if postingsCount == 0 {
		return 0, nil
	}

	for _, r := range runs {
		header := format.RunHeader{QScore: uint16(r.qscore), RunLen: uint32(len(r.docids))}
		if _, err := w.If.Write(header.Pack()); err != nil {
			return 0, satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing run header", err)
		}
		for _, d := range r.docids {
			if _, err := w.If.Write(format.PackDocID(d)); err != nil {
				return 0, satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing docid", err)
			}
		}
	}

	entry := format.VocabEntry{
		TermID:        termID,
		PostingsCount: postingsCount,
		IndexOffset:   uint64(ifOffset),
	}
	if _, err := w.Vocab.Write(entry.Pack()); err != nil {
		return 0, satireerrors.IO(satireerrors.ErrCodeWrite, "failed writing vocab entry", err)
	}

	return postingsCount, nil
}

func runBytesWritten(runs []run) int {
	total := 0
	for _, r := range runs {
		total += format.RunByteLen(len(r.docids))
	}
	return total
}

// parseLine parses one "termid\tdocid\tscore" line. Strict: any
// deviation (missing tab, non-numeric field) is an error — there is
// no skip-bad-line path.
func parseLine(line string) (termID, docID int, score float64, err error) {
	first := strings.IndexByte(line, '\t')
	if first < 0 {
		return 0, 0, 0, fmt.Errorf("missing tab separator")
	}
	rest := line[first+1:]
	second := strings.IndexByte(rest, '\t')
	if second < 0 {
		return 0, 0, 0, fmt.Errorf("missing second tab separator")
	}

	termID, err = strconv.Atoi(line[:first])
	if err != nil || termID < 0 {
		return 0, 0, 0, fmt.Errorf("invalid termid %q", line[:first])
	}
	docID, err = strconv.Atoi(rest[:second])
	if err != nil || docID < 0 {
		return 0, 0, 0, fmt.Errorf("invalid docid %q", rest[:second])
	}
	score, err = strconv.ParseFloat(rest[second+1:], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid score %q", rest[second+1:])
	}
	return termID, docID, score, nil
}
