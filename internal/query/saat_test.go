package query

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satirehq/satire/internal/index"
)

func buildTestIndex(t *testing.T, tsv string, numDocs, lowScoreCutoff, maxQuantisedValue int) (*index.Vocab, *index.InvertedFile) {
	t.Helper()
	var vocabBuf, ifBuf bytes.Buffer
	_, err := index.Build(index.BuildWriters{Vocab: &vocabBuf, If: &ifBuf},
		strings.NewReader(tsv), numDocs, lowScoreCutoff, maxQuantisedValue, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	vocabPath := filepath.Join(dir, "test.vocab")
	ifPath := filepath.Join(dir, "test.if")
	require.NoError(t, os.WriteFile(vocabPath, vocabBuf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(ifPath, ifBuf.Bytes(), 0o644))

	v, err := index.OpenVocab(vocabPath, 0)
	require.NoError(t, err)
	ifile, err := index.OpenInvertedFile(ifPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		v.Close()
		ifile.Close()
	})
	return v, ifile
}

func resultDocIDs(results []Result) []uint32 {
	ids := make([]uint32, len(results))
	for i, r := range results {
		ids[i] = r.DocID
	}
	return ids
}

// Scenario B — single term, two runs.
func TestEngine_ScenarioB_SingleTermTwoRuns(t *testing.T) {
	v, ifile := buildTestIndex(t, "7\t9\t0.9\n7\t2\t0.3\n7\t4\t0.3\n", 10, 1, 10000)

	e := NewEngine(v, ifile, 10, 2, 0, 0)
	results, counters, missing, err := e.Query([]uint32{7})
	require.NoError(t, err)

	assert.Equal(t, []uint32{9, 2}, resultDocIDs(results))
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, int64(9000), results[0].Score)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, int64(3000), results[1].Score)
	assert.Equal(t, int64(3), counters[PostingsProcessed])
	assert.Empty(t, missing)
}

// Scenario C — two terms, ETM-1 terminates before the lower-scored
// term's run is ever touched.
func TestEngine_ScenarioC_ETM1Termination(t *testing.T) {
	tsv := "1\t0\t0.8\n1\t1\t0.8\n2\t0\t0.05\n2\t3\t0.05\n"
	v, ifile := buildTestIndex(t, tsv, 10, 1, 10000)

	e := NewEngine(v, ifile, 10, 10, 1000, 0)
	results, counters, missing, err := e.Query([]uint32{1, 2})
	require.NoError(t, err)

	// Both docids tie at 8000; the tie-break rule places the later
	// arrival (docid 1, second in the ascending-docid run) above the
	// earlier one.
	assert.Equal(t, []uint32{1, 0}, resultDocIDs(results))
	assert.Equal(t, int64(8000), results[0].Score)
	assert.Equal(t, int64(8000), results[1].Score)
	assert.Equal(t, int64(2), counters[PostingsProcessed])
	assert.Empty(t, missing)
}

// Scenario D — ETM-2 postings-count cutoff is checked only after a
// full run completes: a single run larger than the cutoff is still
// processed in its entirety.
func TestEngine_ScenarioD_ETM2BoundaryWholeRunProcessed(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("1\t")
		sb.WriteString([]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}[i])
		sb.WriteString("\t0.0001\n")
	}
	v, ifile := buildTestIndex(t, sb.String(), 10, 1, 10000)

	e := NewEngine(v, ifile, 10, 10, 0, 3)
	results, counters, missing, err := e.Query([]uint32{1})
	require.NoError(t, err)

	assert.Len(t, results, 10)
	assert.Equal(t, int64(10), counters[PostingsProcessed])
	assert.Empty(t, missing)
}

// ETM-2 is checked only with a strict "exceeds" comparison: a run that
// lands exactly on the cutoff must not terminate the query early.
func TestEngine_ETM2BoundaryExactMatchDoesNotTerminate(t *testing.T) {
	tsv := "1\t0\t0.9\n1\t1\t0.9\n1\t2\t0.9\n2\t3\t0.5\n"
	v, ifile := buildTestIndex(t, tsv, 10, 1, 10000)

	e := NewEngine(v, ifile, 10, 10, 0, 3)
	results, counters, missing, err := e.Query([]uint32{1, 2})
	require.NoError(t, err)

	// Term 1's run lands exactly on the cutoff (3 == 3); since ETM-2
	// only fires once the count strictly exceeds the cutoff, term 2's
	// run still gets processed. Docids 0,1,2 tie at 9000 and stack in
	// reverse arrival order ahead of docid 3 at 5000.
	assert.Equal(t, []uint32{2, 1, 0, 3}, resultDocIDs(results))
	assert.Equal(t, int64(4), counters[PostingsProcessed])
	assert.Empty(t, missing)
}

func TestEngine_ETM2StopsAfterRunOnceThresholdCrossed(t *testing.T) {
	tsv := "1\t0\t0.9\n1\t1\t0.9\n1\t2\t0.9\n2\t3\t0.5\n2\t4\t0.5\n"
	v, ifile := buildTestIndex(t, tsv, 10, 1, 10000)

	e := NewEngine(v, ifile, 10, 10, 0, 2)
	results, counters, missing, err := e.Query([]uint32{1, 2})
	require.NoError(t, err)

	// Term 2's run is never touched: ETM-2 fires once the 2-posting
	// threshold is crossed by term 1's 3-entry run, but only after
	// that run completes in full.
	assert.Equal(t, []uint32{2, 1, 0}, resultDocIDs(results))
	assert.Equal(t, int64(3), counters[PostingsProcessed])
	assert.Empty(t, missing)
}

func TestEngine_TopKCorrectnessWithoutETMs(t *testing.T) {
	tsv := "1\t0\t0.1\n1\t1\t0.9\n1\t2\t0.5\n1\t3\t0.7\n"
	v, ifile := buildTestIndex(t, tsv, 4, 1, 10000)

	e := NewEngine(v, ifile, 4, 2, 0, 0)
	results, _, missing, err := e.Query([]uint32{1})
	require.NoError(t, err)

	assert.Equal(t, []uint32{1, 3}, resultDocIDs(results))
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
	assert.Empty(t, missing)
}

func TestEngine_UnknownTermIsExhaustedImmediately(t *testing.T) {
	v, ifile := buildTestIndex(t, "1\t0\t0.5\n", 5, 1, 10000)

	e := NewEngine(v, ifile, 5, 5, 0, 0)
	results, _, missing, err := e.Query([]uint32{999})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, []uint32{999}, missing)
}

func TestEngine_RanksAreContiguousFromOne(t *testing.T) {
	tsv := "1\t0\t0.9\n1\t1\t0.8\n1\t2\t0.7\n1\t3\t0.6\n"
	v, ifile := buildTestIndex(t, tsv, 4, 1, 10000)

	e := NewEngine(v, ifile, 4, 3, 0, 0)
	results, _, missing, err := e.Query([]uint32{1})
	require.NoError(t, err)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Empty(t, missing)
}
