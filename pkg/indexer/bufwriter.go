package indexer

import (
	"bufio"
	"os"
)

// newBufferedFile wraps f in a bufferSize buffered writer, mirroring
// the documented 2 MiB buffered-writes contract for .vocab/.if output.
func newBufferedFile(f *os.File) *bufio.Writer {
	return bufio.NewWriterSize(f, bufferSize)
}
