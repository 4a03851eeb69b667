// Package block provides block-aligned binary I/O for FITS files.
//
// Every structure in a FITS file (headers and data payloads alike) occupies a
// whole number of 2880-byte blocks. This package enforces that granularity:
// all reads and writes move whole-block multiples, and any request that is
// not block-aligned fails before touching the underlying stream.
package block

import "errors"

// Size is the fixed FITS block size in bytes.
const Size = 2880

// ErrUnaligned is returned when a read or write request is not a whole
// multiple of the block size.
var ErrUnaligned = errors.New("buffer length is not a multiple of the block size")

// Align rounds n up to the next multiple of the block size.
// A value already on a block boundary is returned unchanged.
func Align(n int) int {
	if r := n % Size; r != 0 {
		return n + Size - r
	}
	return n
}

// Count returns the number of blocks needed to hold n bytes.
func Count(n int) int {
	return Align(n) / Size
}
