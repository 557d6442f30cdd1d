package query

import (
	"github.com/satirehq/satire/internal/format"
	"github.com/satirehq/satire/internal/index"
)

// TermControlBlock tracks one query term's position in its postings
// list during SAAT traversal: the qscore of the next unread run (used
// for the ETM-1 low-score cutoff), how many docIDs remain in the run
// currently being read, how many postings remain for the term overall
// (used to detect that the term is exhausted), and the byte offset of
// the next unread byte in the .if file.
type TermControlBlock struct {
	TermID                uint32
	HighestUnprocessedScore int
	currentRunLen         int
	postingsRemaining     int
	ifPointer             int64
}

// NewTermControlBlock initializes a control block from a term's vocab
// entry, positioned at the start of its first run. The run header has
// not yet been read, so HighestUnprocessedScore is unset until the
// first call to PeekNextRun.
func NewTermControlBlock(termID uint32, entry format.VocabEntry) *TermControlBlock {
	return &TermControlBlock{
		TermID:            termID,
		postingsRemaining: int(entry.PostingsCount),
		ifPointer:         int64(entry.IndexOffset),
	}
}

// Exhausted reports whether every posting for this term has been
// consumed.
func (c *TermControlBlock) Exhausted() bool {
	return c.postingsRemaining <= 0
}

// PeekNextRun reads the header of the next unread run, if one has not
// already been read, and records its qscore in
// HighestUnprocessedScore so the caller can apply ETM-1 before paying
// for the run's docIDs. It is a no-op once a run's header has been
// read until that run is fully consumed via NextDocID.
func (c *TermControlBlock) PeekNextRun(ifile *index.InvertedFile) error {
	if c.currentRunLen > 0 || c.Exhausted() {
		return nil
	}
	header, err := ifile.ReadRunHeader(c.ifPointer)
	if err != nil {
		return err
	}
	c.HighestUnprocessedScore = int(header.QScore)
	c.currentRunLen = int(header.RunLen)
	c.ifPointer += format.HeaderBytes
	return nil
}

// NextDocID reads and consumes the next docID in the current run.
func (c *TermControlBlock) NextDocID(ifile *index.InvertedFile) (uint32, error) {
	docID, err := ifile.ReadDocID(c.ifPointer)
	if err != nil {
		return 0, err
	}
	c.ifPointer += format.BytesForDocID
	c.currentRunLen--
	c.postingsRemaining--
	return docID, nil
}

// CurrentRunLen returns the number of docIDs left unread in the run
// currently positioned at HighestUnprocessedScore.
func (c *TermControlBlock) CurrentRunLen() int {
	return c.currentRunLen
}

// PostingsRemaining returns the total postings left for this term,
// including the current run.
func (c *TermControlBlock) PostingsRemaining() int {
	return c.postingsRemaining
}
