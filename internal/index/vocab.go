package index

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/blevesearch/mmap-go"

	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/format"
)

// Vocab is a read-only, binary-searchable view of a .vocab file,
// memory-mapped for query-time access. Entries are assumed sorted
// ascending by TermID (not re-verified on every lookup — an
// out-of-order .vocab file produces wrong binary-search results, not
// a detected error, matching the original engine's contract).
type Vocab struct {
	file  *os.File
	mm    mmap.MMap
	count int
	cache *lru.Cache[uint32, format.VocabEntry]
}

// OpenVocab memory-maps path and validates its length is a multiple
// of the vocab entry size. cacheSize of 0 disables the lookup cache.
func OpenVocab(path string, cacheSize int) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, satireerrors.IO(satireerrors.ErrCodeOpen, fmt.Sprintf("failed to open vocab file %s", path), err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, satireerrors.IO(satireerrors.ErrCodeOpen, "failed to stat vocab file", err)
	}
	if info.Size()%format.BytesInVocabEntry != 0 {
		_ = f.Close()
		return nil, satireerrors.IndexCorrupt(satireerrors.ErrCodeLengthMismatch,
			fmt.Sprintf("vocab file length %d is not a multiple of %d", info.Size(), format.BytesInVocabEntry), nil)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, satireerrors.IO(satireerrors.ErrCodeMmap, "failed to mmap vocab file", err)
	}

	v := &Vocab{
		file:  f,
		mm:    m,
		count: int(info.Size() / format.BytesInVocabEntry),
	}
	if cacheSize > 0 {
		c, err := lru.New[uint32, format.VocabEntry](cacheSize)
		if err != nil {
			_ = m.Unmap()
			_ = f.Close()
			return nil, fmt.Errorf("failed to create vocab cache: %w", err)
		}
		v.cache = c
	}
	return v, nil
}

// Close unmaps and closes the underlying file.
func (v *Vocab) Close() error {
	if err := v.mm.Unmap(); err != nil {
		_ = v.file.Close()
		return satireerrors.IO(satireerrors.ErrCodeOpen, "failed to unmap vocab file", err)
	}
	return v.file.Close()
}

// Count returns the number of vocab entries.
func (v *Vocab) Count() int {
	return v.count
}

// entryAt decodes the i'th vocab entry directly from the mapped file.
func (v *Vocab) entryAt(i int) format.VocabEntry {
	start := i * format.BytesInVocabEntry
	return format.UnpackVocabEntry(v.mm[start : start+format.BytesInVocabEntry])
}

// Lookup performs a binary search for termID, mirroring the original
// engine's vcmp: byte-order-independent comparison over a sorted,
// fixed-width record array. Returns ok=false if termID is absent.
func (v *Vocab) Lookup(termID uint32) (format.VocabEntry, bool) {
	if v.cache != nil {
		if e, ok := v.cache.Get(termID); ok {
			return e, true
		}
	}

	lo, hi := 0, v.count-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		e := v.entryAt(mid)
		switch {
		case e.TermID == termID:
			if v.cache != nil {
				v.cache.Add(termID, e)
			}
			return e, true
		case e.TermID < termID:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return format.VocabEntry{}, false
}

// Touch reads one byte from every mmap page to warm the page cache
// before the query-serving loop starts, mirroring the original
// engine's touch_all_pages startup behavior.
func (v *Vocab) Touch() {
	touchPages(v.mm)
}

const pageSize = 4096

func touchPages(b []byte) {
	var sink byte
	for i := 0; i < len(b); i += pageSize {
		sink += b[i]
	}
	_ = sink
}
