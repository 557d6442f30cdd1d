// Package format defines the on-disk byte widths and record layouts
// shared by the indexer and querier: the .vocab binary-searchable term
// directory and the .if (inverted file) run-encoded postings stream.
package format

import "github.com/satirehq/satire/internal/codec"

// Byte widths for every fixed-width field in the on-disk formats.
// These match the original SATIRE engine's definitions.h exactly;
// changing any of them changes the wire format.
const (
	BytesForTermID        = 4
	BytesForIndexOffset   = 8
	BytesForQScore        = 2
	BytesForDocID         = 3
	BytesForRunLen        = BytesForDocID
	BytesForPostingsCount = BytesForDocID

	// BytesInVocabEntry is the fixed size of one .vocab record:
	// TERMID(4) || POSTINGS_COUNT(3) || INDEX_OFFSET(8).
	BytesInVocabEntry = BytesForTermID + BytesForPostingsCount + BytesForIndexOffset
)

// MaxDocID is the largest docid representable in BytesForDocID bytes.
const MaxDocID = 1<<(8*BytesForDocID) - 1

// MaxQScore is the largest quantized score representable in
// BytesForQScore bytes.
const MaxQScore = 1<<(8*BytesForQScore) - 1

// VocabEntry is one decoded record from a .vocab file.
type VocabEntry struct {
	TermID        uint32
	PostingsCount uint32
	IndexOffset   uint64
}

// Pack encodes a VocabEntry into a BytesInVocabEntry-length buffer.
func (e VocabEntry) Pack() []byte {
	buf := make([]byte, 0, BytesInVocabEntry)
	buf = codec.AppendStore(buf, uint64(e.TermID), BytesForTermID)
	buf = codec.AppendStore(buf, uint64(e.PostingsCount), BytesForPostingsCount)
	buf = codec.AppendStore(buf, e.IndexOffset, BytesForIndexOffset)
	return buf
}

// UnpackVocabEntry decodes one record from a BytesInVocabEntry-length
// slice (callers slicing from an mmap'd file pass a sub-slice).
func UnpackVocabEntry(b []byte) VocabEntry {
	termID := codec.Load(b[0:BytesForTermID], BytesForTermID)
	postingsCount := codec.Load(b[BytesForTermID:BytesForTermID+BytesForPostingsCount], BytesForPostingsCount)
	offset := codec.Load(b[BytesForTermID+BytesForPostingsCount:BytesInVocabEntry], BytesForIndexOffset)
	return VocabEntry{
		TermID:        uint32(termID),
		PostingsCount: uint32(postingsCount),
		IndexOffset:   offset,
	}
}

// RunHeader is the fixed-width prefix of one posting run in a .if
// file: QSCORE(2) || RUN_LEN(3), immediately followed by RUN_LEN
// DOCID(3) entries.
type RunHeader struct {
	QScore uint16
	RunLen uint32
}

// HeaderBytes is the byte length of a RunHeader on disk.
const HeaderBytes = BytesForQScore + BytesForRunLen

// Pack encodes a RunHeader into a HeaderBytes-length buffer.
func (h RunHeader) Pack() []byte {
	buf := make([]byte, 0, HeaderBytes)
	buf = codec.AppendStore(buf, uint64(h.QScore), BytesForQScore)
	buf = codec.AppendStore(buf, uint64(h.RunLen), BytesForRunLen)
	return buf
}

// UnpackRunHeader decodes a RunHeader from a HeaderBytes-length slice.
func UnpackRunHeader(b []byte) RunHeader {
	qscore := codec.Load(b[0:BytesForQScore], BytesForQScore)
	runLen := codec.Load(b[BytesForQScore:HeaderBytes], BytesForRunLen)
	return RunHeader{QScore: uint16(qscore), RunLen: uint32(runLen)}
}

// PackDocID encodes a single docid in BytesForDocID bytes.
func PackDocID(docID uint32) []byte {
	return codec.AppendStore(nil, uint64(docID), BytesForDocID)
}

// UnpackDocID decodes a single docid from a BytesForDocID-length slice.
func UnpackDocID(b []byte) uint32 {
	return uint32(codec.Load(b[0:BytesForDocID], BytesForDocID))
}

// RunByteLen returns the total on-disk size of a run with runLen
// postings: the header plus one DOCID per posting.
func RunByteLen(runLen int) int {
	return HeaderBytes + runLen*BytesForDocID
}
