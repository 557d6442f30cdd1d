package index_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satirehq/satire/internal/format"
	"github.com/satirehq/satire/internal/index"
)

func writeVocabFile(t *testing.T, entries ...format.VocabEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.vocab")
	var data []byte
	for _, e := range entries {
		data = append(data, e.Pack()...)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestVocab_LookupFound(t *testing.T) {
	path := writeVocabFile(t,
		format.VocabEntry{TermID: 1, PostingsCount: 3, IndexOffset: 0},
		format.VocabEntry{TermID: 5, PostingsCount: 2, IndexOffset: 14},
		format.VocabEntry{TermID: 9, PostingsCount: 1, IndexOffset: 24},
	)

	v, err := index.OpenVocab(path, 0)
	require.NoError(t, err)
	defer v.Close()

	assert.Equal(t, 3, v.Count())

	e, ok := v.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, uint32(2), e.PostingsCount)
	assert.Equal(t, uint64(14), e.IndexOffset)
}

func TestVocab_LookupNotFound(t *testing.T) {
	path := writeVocabFile(t, format.VocabEntry{TermID: 1, PostingsCount: 1, IndexOffset: 0})

	v, err := index.OpenVocab(path, 0)
	require.NoError(t, err)
	defer v.Close()

	_, ok := v.Lookup(42)
	assert.False(t, ok)
}

func TestVocab_LookupWithCache(t *testing.T) {
	path := writeVocabFile(t,
		format.VocabEntry{TermID: 1, PostingsCount: 1, IndexOffset: 0},
		format.VocabEntry{TermID: 2, PostingsCount: 1, IndexOffset: 14},
	)

	v, err := index.OpenVocab(path, 16)
	require.NoError(t, err)
	defer v.Close()

	e1, ok := v.Lookup(2)
	require.True(t, ok)
	e2, ok := v.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, e1, e2)
}

func TestVocab_CorruptLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.vocab")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	_, err := index.OpenVocab(path, 0)
	assert.Error(t, err)
}

func TestVocab_MissingFile(t *testing.T) {
	_, err := index.OpenVocab(filepath.Join(t.TempDir(), "missing.vocab"), 0)
	assert.Error(t, err)
}
