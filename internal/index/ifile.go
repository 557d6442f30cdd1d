package index

import (
	"fmt"
	"os"

	"github.com/blevesearch/mmap-go"

	satireerrors "github.com/satirehq/satire/internal/errors"
	"github.com/satirehq/satire/internal/format"
)

// InvertedFile is a read-only, memory-mapped view of a .if file: a
// concatenation of runs, each a RunHeader followed by RunLen DOCIDs.
type InvertedFile struct {
	file *os.File
	mm   mmap.MMap
}

// OpenInvertedFile memory-maps path for query-time reading.
func OpenInvertedFile(path string) (*InvertedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, satireerrors.IO(satireerrors.ErrCodeOpen, fmt.Sprintf("failed to open inverted file %s", path), err)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, satireerrors.IO(satireerrors.ErrCodeMmap, "failed to mmap inverted file", err)
	}
	return &InvertedFile{file: f, mm: m}, nil
}

// Close unmaps and closes the underlying file.
func (ifile *InvertedFile) Close() error {
	if err := ifile.mm.Unmap(); err != nil {
		_ = ifile.file.Close()
		return satireerrors.IO(satireerrors.ErrCodeOpen, "failed to unmap inverted file", err)
	}
	return ifile.file.Close()
}

// Touch warms the page cache for the mapped region.
func (ifile *InvertedFile) Touch() {
	touchPages(ifile.mm)
}

// Len returns the total mapped length in bytes.
func (ifile *InvertedFile) Len() int {
	return len(ifile.mm)
}

// ReadRunHeader decodes the RunHeader at byte offset off.
func (ifile *InvertedFile) ReadRunHeader(off int64) (format.RunHeader, error) {
	end := off + format.HeaderBytes
	if off < 0 || end > int64(len(ifile.mm)) {
		return format.RunHeader{}, satireerrors.IndexCorrupt(satireerrors.ErrCodeLengthMismatch,
			fmt.Sprintf("run header at offset %d exceeds inverted file length %d", off, len(ifile.mm)), nil)
	}
	return format.UnpackRunHeader(ifile.mm[off:end]), nil
}

// ReadDocID decodes the DOCID at byte offset off.
func (ifile *InvertedFile) ReadDocID(off int64) (uint32, error) {
	end := off + format.BytesForDocID
	if off < 0 || end > int64(len(ifile.mm)) {
		return 0, satireerrors.IndexCorrupt(satireerrors.ErrCodeLengthMismatch,
			fmt.Sprintf("docid at offset %d exceeds inverted file length %d", off, len(ifile.mm)), nil)
	}
	return format.UnpackDocID(ifile.mm[off:end]), nil
}
