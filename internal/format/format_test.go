package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satirehq/satire/internal/format"
)

func TestVocabEntry_PackUnpack(t *testing.T) {
	e := format.VocabEntry{TermID: 5, PostingsCount: 3, IndexOffset: 128}
	packed := e.Pack()
	require.Len(t, packed, format.BytesInVocabEntry)

	got := format.UnpackVocabEntry(packed)
	assert.Equal(t, e, got)
}

func TestVocabEntry_PackUnpack_MaxValues(t *testing.T) {
	e := format.VocabEntry{
		TermID:        1<<32 - 1,
		PostingsCount: format.MaxDocID,
		IndexOffset:   1<<63 - 1,
	}
	packed := e.Pack()
	got := format.UnpackVocabEntry(packed)
	assert.Equal(t, e, got)
}

func TestRunHeader_PackUnpack(t *testing.T) {
	h := format.RunHeader{QScore: 5000, RunLen: 3}
	packed := h.Pack()
	require.Len(t, packed, format.HeaderBytes)

	got := format.UnpackRunHeader(packed)
	assert.Equal(t, h, got)
}

func TestDocID_PackUnpack(t *testing.T) {
	packed := format.PackDocID(42)
	require.Len(t, packed, format.BytesForDocID)
	assert.Equal(t, uint32(42), format.UnpackDocID(packed))
}

func TestRunByteLen(t *testing.T) {
	// Scenario A from the spec: a single run of 3 postings is
	// 2 (qscore) + 3 (run_len) + 3*3 (docids) = 14 bytes.
	assert.Equal(t, 14, format.RunByteLen(3))
}

func TestMaxDocIDAndMaxQScore(t *testing.T) {
	assert.Equal(t, uint32(16777215), uint32(format.MaxDocID))
	assert.Equal(t, uint16(65535), uint16(format.MaxQScore))
}
