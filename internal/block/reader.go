package block

import (
	"fmt"
	"io"
)

// Reader reads whole blocks from an underlying byte stream.
//
// The reader tracks a cursor so sequential calls (a header read followed by a
// payload read) compose without any explicit seeking. A short read is fatal:
// FITS defines every unit to occupy full blocks, so fewer bytes than
// requested means the file is truncated.
type Reader struct {
	r   io.Reader
	pos int64
}

// NewReader creates a block reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBlocks fills buf with file content. The buffer length must be a whole
// multiple of the block size. Returns io.EOF only when no bytes were read at
// all; a partial block is reported as an unexpected EOF.
func (r *Reader) ReadBlocks(buf []byte) error {
	if len(buf)%Size != 0 {
		return fmt.Errorf("reading %d bytes: %w", len(buf), ErrUnaligned)
	}
	n, err := io.ReadFull(r.r, buf)
	r.pos += int64(n)
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("reading %d blocks at offset %d: %w", len(buf)/Size, r.pos-int64(n), err)
	}
	return nil
}
