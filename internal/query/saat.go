// Package query implements Score-At-A-Time query processing: the
// per-term control blocks, the lazily-zeroed accumulator array, the
// fake heap, and the ten named diagnostic counters that together
// drive a single ranked query against an open vocabulary and inverted
// file.
package query

import (
	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/index"
)

// MaxTermsPerQuery bounds the number of termids accepted for a single
// query; the caller is responsible for truncating and warning.
const MaxTermsPerQuery = 100

// Result is one ranked entry of a query's fake heap, in descending
// score order.
type Result struct {
	DocID uint32
	Rank  int
	Score int64
}

// Engine holds the read-only index handles and accumulator array
// shared across every query processed in a run. It is not safe for
// concurrent use by multiple goroutines; queries are processed one at
// a time.
type Engine struct {
	vocab *index.Vocab
	ifile *index.InvertedFile
	acc   *Accumulators

	k                   int
	lowScoreCutoff      int
	postingsCountCutoff int
}

// NewEngine creates a query engine over an open vocab and inverted
// file, sized for numDocs documents.
func NewEngine(vocab *index.Vocab, ifile *index.InvertedFile, numDocs, k, lowScoreCutoff, postingsCountCutoff int) *Engine {
	if k < 1 {
		k = 1
	}
	return &Engine{
		vocab:               vocab,
		ifile:               ifile,
		acc:                 NewAccumulators(numDocs),
		k:                   k,
		lowScoreCutoff:      lowScoreCutoff,
		postingsCountCutoff: postingsCountCutoff,
	}
}

// Query runs one SAAT query for termIDs and returns its ranked
// results (at most k, in descending score order with ranks starting
// at 1), that query's counters, and any termIDs not found in the
// vocabulary (per spec.md Scenario F, the query still completes using
// the remaining terms; the caller is responsible for warning).
func (e *Engine) Query(termIDs []uint32) ([]Result, Counters, []uint32, error) {
	var counters Counters
	var missing []uint32
	e.acc.Reset()

	blocks := make([]*TermControlBlock, len(termIDs))
	for i, tid := range termIDs {
		entry, ok := e.vocab.Lookup(tid)
		if !ok {
			blocks[i] = &TermControlBlock{TermID: tid}
			missing = append(missing, tid)
			continue
		}
		if entry.PostingsCount == 0 {
			return nil, counters, missing, satireerrors.IndexCorrupt(
				satireerrors.ErrCodeZeroPostings,
				"vocab entry has zero postings count",
				nil,
			)
		}
		cb := NewTermControlBlock(tid, entry)
		if err := cb.PeekNextRun(e.ifile); err != nil {
			return nil, counters, missing, err
		}
		blocks[i] = cb
	}

	heap := NewFakeHeap(e.k, &counters)
	postingsProcessed := 0

	for {
		sel := selectMaxScoreTerm(blocks)
		if sel < 0 {
			break
		}
		cb := blocks[sel]

		if cb.HighestUnprocessedScore < e.lowScoreCutoff {
			break
		}

		runLen := cb.CurrentRunLen()
		score := cb.HighestUnprocessedScore
		for j := 0; j < runLen; j++ {
			docID, err := cb.NextDocID(e.ifile)
			if err != nil {
				return nil, counters, missing, err
			}
			counters[PostingsProcessed]++
			blockTouched, accTouched := e.acc.Add(docID, score)
			if blockTouched {
				counters[AccBlocksUsed]++
			}
			if accTouched {
				counters[AccumulatorsUsed]++
			}
			heap.Insert(docID, e.acc.Get(docID))
		}
		postingsProcessed += runLen

		if e.postingsCountCutoff > 0 && postingsProcessed > e.postingsCountCutoff {
			break
		}

		if !cb.Exhausted() {
			if err := cb.PeekNextRun(e.ifile); err != nil {
				return nil, counters, missing, err
			}
		}
	}

	counters[AccBlocksTotal] = int64(e.acc.NumBlocks())

	results := make([]Result, len(heap.Results()))
	for i, r := range heap.Results() {
		results[i] = Result{DocID: r.docID, Rank: i + 1, Score: r.score}
	}
	return results, counters, missing, nil
}

// selectMaxScoreTerm returns the index of the active (non-exhausted)
// control block with the highest HighestUnprocessedScore, breaking
// ties by lowest index. Returns -1 if every block is exhausted.
func selectMaxScoreTerm(blocks []*TermControlBlock) int {
	sel := -1
	for i, cb := range blocks {
		if cb.Exhausted() {
			continue
		}
		if sel == -1 || cb.HighestUnprocessedScore > blocks[sel].HighestUnprocessedScore {
			sel = i
		}
	}
	return sel
}
