package query

import (
	"fmt"
	"io"
)

// Counter identifies one of the ten named query-processing counters,
// mirroring the original engine's NUM_COUNTERS enum.
type Counter int

const (
	PostingsProcessed Counter = iota
	AlreadyInHeapComparisons
	OtherHeapComparisons
	HeapItemsMoved
	InsertIntoEmptyHeap
	InsertIntoFullHeap
	InsertIntoPartialHeap
	AccBlocksUsed
	AccBlocksTotal
	AccumulatorsUsed
	numCounters
)

var counterNames = [numCounters]string{
	"POSTINGS_PROCESSED",
	"ALREADY_IN_HEAP_COMPARISONS",
	"OTHER_HEAP_COMPARISONS",
	"HEAP_ITEMS_MOVED",
	"INSERT_INTO_EMPTY_HEAP",
	"INSERT_INTO_FULL_HEAP",
	"INSERT_INTO_PARTIAL_HEAP",
	"ACC_BLOCKS_USED",
	"ACC_BLOCKS",
	"ACCUMULATORS_USED",
}

// Counters holds one query's worth (or the run's cumulative total) of
// the ten named counters.
type Counters [numCounters]int64

// Add accumulates other into c, for rolling per-query counters into
// the global total.
func (c *Counters) Add(other Counters) {
	for i := range c {
		c[i] += other[i]
	}
}

// WritePerQuery writes a COUNTERS-PQ### line for queryID to w.
func WritePerQuery(w io.Writer, queryID int64, c Counters) error {
	return writeLine(w, fmt.Sprintf("COUNTERS-PQ%03d", queryID%1000), c)
}

// WriteGlobal writes a COUNTERS-GB line summarizing the whole run.
func WriteGlobal(w io.Writer, c Counters) error {
	return writeLine(w, "COUNTERS-GB", c)
}

// WriteLegend writes a one-paragraph explanation of the ten counters
// to w. Callers emit this once, typically after the final COUNTERS-GB
// line, when the operator has asked for the counters explained.
func WriteLegend(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Lines starting with COUNTERS- report a counter type code (PQ<qnum> "+
		"for per-query, GB for the run total) followed by %d name=value counters:\n"+
		" %s - postings read off the inverted file and folded into an accumulator.\n"+
		" %s - comparisons made to check whether a candidate is already in the heap.\n"+
		" %s - other comparisons made against heap entries.\n"+
		" %s - times a heap entry was shifted one slot to make room.\n"+
		" %s - inserts attempted into an empty heap.\n"+
		" %s - inserts attempted into a full heap.\n"+
		" %s - inserts attempted into a partially filled heap.\n"+
		" %s - accumulator blocks touched for the first time this query.\n"+
		" %s - accumulator blocks the array is divided into.\n"+
		" %s - individual accumulators touched for the first time this query.\n",
		numCounters,
		counterNames[PostingsProcessed], counterNames[AlreadyInHeapComparisons],
		counterNames[OtherHeapComparisons], counterNames[HeapItemsMoved],
		counterNames[InsertIntoEmptyHeap], counterNames[InsertIntoFullHeap],
		counterNames[InsertIntoPartialHeap], counterNames[AccBlocksUsed],
		counterNames[AccBlocksTotal], counterNames[AccumulatorsUsed])
	return err
}

func writeLine(w io.Writer, label string, c Counters) error {
	_, err := fmt.Fprintf(w, "%s", label)
	if err != nil {
		return err
	}
	for i, name := range counterNames {
		if _, err := fmt.Fprintf(w, "\t%s=%d", name, c[i]); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}
