package block

import (
	"fmt"
	"io"
)

// Writer writes whole blocks to an underlying byte stream.
//
// Like Reader, it tracks a cursor so sequential writes (header, then payload)
// compose. There is no seeking or rewinding: FITS files are written front to
// back.
type Writer struct {
	w   io.Writer
	pos int64
}

// NewWriter creates a block writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WriteBlocks writes buf to the stream. The buffer length must be a whole
// multiple of the block size.
func (w *Writer) WriteBlocks(buf []byte) error {
	if len(buf)%Size != 0 {
		return fmt.Errorf("writing %d bytes: %w", len(buf), ErrUnaligned)
	}
	n, err := w.w.Write(buf)
	w.pos += int64(n)
	if err != nil {
		return fmt.Errorf("writing %d blocks at offset %d: %w", len(buf)/Size, w.pos-int64(n), err)
	}
	return nil
}

// WritePadded writes data followed by enough fill bytes to reach the next
// block boundary. Headers pad with ASCII spaces, data payloads with zeros.
func (w *Writer) WritePadded(data []byte, fill byte) error {
	padded := make([]byte, Align(len(data)))
	copy(padded, data)
	if fill != 0 {
		for i := len(data); i < len(padded); i++ {
			padded[i] = fill
		}
	}
	return w.WriteBlocks(padded)
}
