package query

import "github.com/bits-and-blooms/bitset"

// BlockSize is the number of accumulators per dirty-tracked block.
const BlockSize = 1024

// Accumulators is the per-query score accumulator array, partitioned
// into fixed BlockSize blocks with lazy zeroing: Reset only clears the
// blocks a query actually touched, tracked via a dirty bitset, so
// per-query reset cost is proportional to the sparsity of touched
// blocks rather than to numDocs.
type Accumulators struct {
	values    []int64
	dirty     *bitset.BitSet
	numBlocks uint
}

// NewAccumulators allocates an accumulator array sized to
// ceil(numDocs/BlockSize)*BlockSize, with every block initially
// marked dirty so the first Reset zeroes the whole array.
func NewAccumulators(numDocs int) *Accumulators {
	numBlocks := uint((numDocs + BlockSize - 1) / BlockSize)
	if numBlocks == 0 {
		numBlocks = 1
	}
	a := &Accumulators{
		values:    make([]int64, numBlocks*BlockSize),
		dirty:     bitset.New(numBlocks),
		numBlocks: numBlocks,
	}
	a.dirty.FlipRange(0, numBlocks)
	return a
}

// Reset zeroes every block whose dirty bit is set (i.e. every block
// touched by the previous query) and clears those bits, leaving every
// block either already zero or newly zeroed. Returns the number of
// blocks it zeroed, for informational/debug narration; the
// ACC_BLOCKS_USED counter is driven separately by Add's blockTouched
// return, since it counts blocks touched during the current query.
func (a *Accumulators) Reset() int {
	zeroed := 0
	for i, e := a.dirty.NextSet(0); e; i, e = a.dirty.NextSet(i + 1) {
		start := i * BlockSize
		end := start + BlockSize
		if end > uint(len(a.values)) {
			end = uint(len(a.values))
		}
		clear(a.values[start:end])
		zeroed++
	}
	a.dirty.ClearAll()
	return zeroed
}

// NumBlocks returns the total number of accumulator blocks (ACC_BLOCKS).
func (a *Accumulators) NumBlocks() int {
	return int(a.numBlocks)
}

// Add adds q to the accumulator for docID. It reports two independent
// first-touch events for the caller's counters: blockTouched is true
// the first time this query writes into docID's block (the dirty flag
// was clear and is now set), and accTouched is true if the
// accumulator's value was 0 before this add.
func (a *Accumulators) Add(docID uint32, q int) (blockTouched, accTouched bool) {
	block := uint(docID) / BlockSize
	if !a.dirty.Test(block) {
		a.dirty.Set(block)
		blockTouched = true
	}
	accTouched = a.values[docID] == 0
	a.values[docID] += int64(q)
	return blockTouched, accTouched
}

// Get returns the current accumulated score for docID.
func (a *Accumulators) Get(docID uint32) int64 {
	return a.values[docID]
}
