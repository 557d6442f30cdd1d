// Package codec implements the fixed-width, byte-order-independent
// integer encoding used throughout the on-disk index formats. Every
// multi-byte field in a .vocab or .if file is stored least-significant
// byte first, at a width fixed by the field (see internal/format),
// so the files are portable across architectures without a byte-order
// flag.
package codec

import "fmt"

// MaxWidth is the largest width this package encodes/decodes (used
// for callers sizing scratch buffers; format.BytesForIndexOffset is 8).
const MaxWidth = 8

// Store writes the least-significant n bytes of v into dst[:n],
// starting with the least-significant byte at dst[0]. It panics if
// dst is shorter than n or if v does not fit in n bytes.
func Store(dst []byte, v uint64, n int) {
	if len(dst) < n {
		panic(fmt.Sprintf("codec: dst too short: have %d, need %d", len(dst), n))
	}
	if n < 8 && v>>(uint(n)*8) != 0 {
		panic(fmt.Sprintf("codec: value %d does not fit in %d bytes", v, n))
	}
	for i := 0; i < n; i++ {
		dst[i] = byte(v >> (uint(i) * 8))
	}
}

// Load reads n bytes from src[:n] as a little-endian-ordered unsigned
// integer (least-significant byte first, matching Store). It panics
// if src is shorter than n.
func Load(src []byte, n int) uint64 {
	if len(src) < n {
		panic(fmt.Sprintf("codec: src too short: have %d, need %d", len(src), n))
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = (v << 8) | uint64(src[i])
	}
	return v
}

// AppendStore is like Store but appends to dst and returns the
// extended slice, for streaming writers that build up a buffer.
func AppendStore(dst []byte, v uint64, n int) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	Store(dst[start:start+n], v, n)
	return dst
}

// Fits reports whether v can be represented in n bytes.
func Fits(v uint64, n int) bool {
	if n >= 8 {
		return true
	}
	return v>>(uint(n)*8) == 0
}
