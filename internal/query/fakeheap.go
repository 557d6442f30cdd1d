package query

// result is one candidate document and its accumulated score, held in
// the fake heap.
type result struct {
	docID uint32
	score int64
}

// FakeHeap is an insertion-sorted top-k buffer, not a real heap: it
// keeps its k slots in descending score order at all times by
// shifting elements on insert. This mirrors the original engine's
// "fake heap" exactly, including its tie-break rule (a new entry with
// a score equal to an existing entry is placed ahead of it — LIFO
// among ties), its de-duplication of a docid that already holds a
// slot from an earlier run, and its three insertion paths (empty,
// full, partial).
type FakeHeap struct {
	k       int
	items   []result
	counted *Counters
}

// NewFakeHeap creates a fake heap holding at most k results.
func NewFakeHeap(k int, c *Counters) *FakeHeap {
	return &FakeHeap{k: k, items: make([]result, 0, k), counted: c}
}

// Len returns the number of results currently held (<= k).
func (h *FakeHeap) Len() int {
	return len(h.items)
}

// Min returns the lowest score currently held, or -1 if the heap is
// not yet full (i.e. any score would still be admitted).
func (h *FakeHeap) Min() int64 {
	if len(h.items) < h.k {
		return -1
	}
	return h.items[len(h.items)-1].score
}

// Insert offers (docID, score) to the heap. If docID already holds a
// slot (from an earlier run contributing to the same document), that
// slot is removed first so the update doesn't consume two slots for
// one document. If the heap is not full, or score exceeds the
// current minimum, the (possibly updated) entry is placed in
// descending order; otherwise it is discarded.
func (h *FakeHeap) Insert(docID uint32, score int64) {
	if len(h.items) == h.k && score <= h.items[h.k-1].score {
		return
	}

	for i := 0; i < len(h.items); i++ {
		h.counted[AlreadyInHeapComparisons]++
		if h.items[i].docID == docID {
			copy(h.items[i:], h.items[i+1:])
			h.items = h.items[:len(h.items)-1]
			h.counted[HeapItemsMoved] += int64(len(h.items) - i)
			break
		}
	}

	switch {
	case len(h.items) == 0:
		h.counted[InsertIntoEmptyHeap]++
		h.items = append(h.items, result{docID: docID, score: score})

	case len(h.items) == h.k:
		h.counted[InsertIntoFullHeap]++
		pos := -1
		for i := 0; i < len(h.items); i++ {
			h.counted[OtherHeapComparisons]++
			if score >= h.items[i].score {
				pos = i
				break
			}
		}
		if pos < 0 {
			return
		}
		copy(h.items[pos+1:h.k], h.items[pos:h.k-1])
		h.counted[HeapItemsMoved] += int64(h.k - 1 - pos)
		h.items[pos] = result{docID: docID, score: score}

	default:
		h.counted[InsertIntoPartialHeap]++
		pos := len(h.items)
		for i := 0; i < len(h.items); i++ {
			h.counted[OtherHeapComparisons]++
			if score >= h.items[i].score {
				pos = i
				break
			}
		}
		h.items = append(h.items, result{})
		copy(h.items[pos+1:], h.items[pos:len(h.items)-1])
		h.counted[HeapItemsMoved] += int64(len(h.items) - 1 - pos)
		h.items[pos] = result{docID: docID, score: score}
	}
}

// Results returns the held results in descending score order, rank 0
// first.
func (h *FakeHeap) Results() []result {
	return h.items
}
