package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func docIDs(results []result) []uint32 {
	ids := make([]uint32, len(results))
	for i, r := range results {
		ids[i] = r.docID
	}
	return ids
}

func TestFakeHeap_InsertIntoEmptyHeap(t *testing.T) {
	var c Counters
	h := NewFakeHeap(3, &c)

	h.Insert(1, 100)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, int64(1), c[InsertIntoEmptyHeap])
	assert.Equal(t, []uint32{1}, docIDs(h.Results()))
}

func TestFakeHeap_InsertIntoPartialHeap_DescendingOrder(t *testing.T) {
	var c Counters
	h := NewFakeHeap(3, &c)

	h.Insert(1, 50)
	h.Insert(2, 80)
	h.Insert(3, 60)

	assert.Equal(t, []uint32{2, 3, 1}, docIDs(h.Results()))
	assert.Equal(t, int64(1), c[InsertIntoEmptyHeap])
	assert.Equal(t, int64(2), c[InsertIntoPartialHeap])
}

func TestFakeHeap_TieBreak_NewEntryPlacedAheadOfEqualScore(t *testing.T) {
	var c Counters
	h := NewFakeHeap(3, &c)

	h.Insert(1, 50)
	h.Insert(2, 50)

	assert.Equal(t, []uint32{2, 1}, docIDs(h.Results()))
}

func TestFakeHeap_FullHeap_RejectsLowerScore(t *testing.T) {
	var c Counters
	h := NewFakeHeap(2, &c)

	h.Insert(1, 90)
	h.Insert(2, 80)
	h.Insert(3, 10)

	assert.Equal(t, []uint32{1, 2}, docIDs(h.Results()))
	// Only the insert of docid 2 scanned the heap (one entry); the
	// rejected insert of docid 3 returns before the scan.
	assert.Equal(t, int64(1), c[AlreadyInHeapComparisons])
	assert.Equal(t, int64(0), c[InsertIntoFullHeap])
}

func TestFakeHeap_UpdateExistingDocID_DoesNotDuplicateSlot(t *testing.T) {
	var c Counters
	h := NewFakeHeap(3, &c)

	// docid 1 matches two query terms: term A's run contributes a
	// partial score of 100, then term B's run later contributes an
	// updated accumulated score of 180 for the same document.
	h.Insert(1, 100)
	h.Insert(1, 180)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []uint32{1}, docIDs(h.Results()))
	assert.Equal(t, int64(180), h.Results()[0].score)
}

func TestFakeHeap_UpdateExistingDocID_ReordersOnHigherScore(t *testing.T) {
	var c Counters
	h := NewFakeHeap(3, &c)

	h.Insert(1, 10)
	h.Insert(2, 50)
	h.Insert(1, 90)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []uint32{1, 2}, docIDs(h.Results()))
	assert.Equal(t, int64(90), h.Results()[0].score)
}

func TestFakeHeap_UpdateExistingDocID_InFullHeap(t *testing.T) {
	var c Counters
	h := NewFakeHeap(2, &c)

	h.Insert(1, 90)
	h.Insert(2, 80)
	// docid 1 gets a further contribution from a later, lower-scoring
	// run; its accumulated score rises to 95 and stays above docid 2's.
	h.Insert(1, 95)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []uint32{1, 2}, docIDs(h.Results()))
	assert.Equal(t, int64(95), h.Results()[0].score)
}

func TestFakeHeap_UpdateExistingDocID_FullHeap_OccupiesOnlyOneSlot(t *testing.T) {
	var c Counters
	h := NewFakeHeap(2, &c)

	h.Insert(1, 90)
	h.Insert(2, 80)
	h.Insert(2, 100)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []uint32{2, 1}, docIDs(h.Results()))
}

func TestFakeHeap_FullHeap_AcceptsAndShiftsHigherScore(t *testing.T) {
	var c Counters
	h := NewFakeHeap(2, &c)

	h.Insert(1, 90)
	h.Insert(2, 80)
	h.Insert(3, 85)

	assert.Equal(t, []uint32{1, 3}, docIDs(h.Results()))
	assert.Equal(t, int64(1), c[InsertIntoFullHeap])
	// docid 3 takes the last slot, replacing docid 2 without shifting
	// any entry.
	assert.Equal(t, int64(0), c[HeapItemsMoved])
}

func TestFakeHeap_FullHeap_NewHighestGoesToFront(t *testing.T) {
	var c Counters
	h := NewFakeHeap(2, &c)

	h.Insert(1, 90)
	h.Insert(2, 80)
	h.Insert(3, 95)

	assert.Equal(t, []uint32{3, 1}, docIDs(h.Results()))
}

func TestFakeHeap_Min(t *testing.T) {
	var c Counters
	h := NewFakeHeap(2, &c)

	assert.Equal(t, int64(-1), h.Min())

	h.Insert(1, 90)
	assert.Equal(t, int64(-1), h.Min())

	h.Insert(2, 80)
	assert.Equal(t, int64(80), h.Min())
}

func TestFakeHeap_CountersAccumulateAcrossInserts(t *testing.T) {
	var c Counters
	h := NewFakeHeap(4, &c)

	h.Insert(1, 10)
	h.Insert(2, 20)
	h.Insert(3, 30)
	h.Insert(4, 40)

	assert.Equal(t, int64(1), c[InsertIntoEmptyHeap])
	assert.Equal(t, int64(3), c[InsertIntoPartialHeap])
	assert.Equal(t, []uint32{4, 3, 2, 1}, docIDs(h.Results()))
}
