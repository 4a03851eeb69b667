package fits

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-fits/internal/block"
)

// decodeAsciiTable reads an ASCII table payload from r.
//
// Tables are small compared to images, so the whole block-aligned region is
// read in one go. The header-declared geometry is validated first: row width
// and count must be non-negative and the fields must fit inside one row, so
// no row window ever reaches past the buffer. Field format codes are parsed
// up front; any invalid code aborts setup before a single row is touched.
// Rows are then decoded in parallel (no row depends on another) with results
// collected by original index, and appended to the columns sequentially
// afterwards: column storage is only ever mutated from the calling goroutine.
func decodeAsciiTable(r *block.Reader, rowWidth, rowCount int, formatCodes, labels []string) (*AsciiTable, error) {
	if rowWidth < 0 || rowCount < 0 {
		return nil, fmt.Errorf("table of %d rows, %d bytes each: %w", rowCount, rowWidth, ErrGeometry)
	}
	if rowCount > 0 && rowWidth > math.MaxInt/rowCount {
		return nil, fmt.Errorf("table of %d rows, %d bytes each: %w", rowCount, rowWidth, ErrGeometry)
	}

	formats := make([]TableEntryFormat, len(formatCodes))
	for i, code := range formatCodes {
		formats[i] = ParseEntryFormat(code)
	}

	offsets, span, err := fieldOffsets(formats)
	if err != nil {
		return nil, err
	}
	if span > rowWidth {
		return nil, fmt.Errorf("fields span %d bytes but rows are %d: %w", span, rowWidth, ErrGeometry)
	}
	tbl, err := setupTable(formats, labels, rowCount)
	if err != nil {
		return nil, err
	}

	byteSize := rowWidth * rowCount
	raw := make([]byte, block.Align(byteSize))
	if err := r.ReadBlocks(raw); err != nil {
		return nil, err
	}

	// The block-aligned read may include zero-filled padding rows past the
	// declared count; drop them before any row is processed.
	rows := raw[:byteSize]

	results := make([][]TableEntry, rowCount)
	errs := make([]error, rowCount)
	decodeRows(rows, rowWidth, offsets, formats, results, errs)

	// Sequential commit, in original row order. The first error in row
	// order is the one surfaced.
	for i := 0; i < rowCount; i++ {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if err := tbl.addRow(results[i]); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// fieldOffsets accumulates field widths in declaration order to give each
// field's starting byte offset within a row, plus the total span the fields
// cover.
func fieldOffsets(formats []TableEntryFormat) ([]int, int, error) {
	offsets := make([]int, len(formats))
	off := 0
	for i, f := range formats {
		if f.Kind == FormatInvalid {
			return nil, 0, &SetupError{Field: i, Code: f.Raw}
		}
		offsets[i] = off
		off += f.FieldWidth()
	}
	return offsets, off, nil
}

// setupTable instantiates one typed column per field and pre-sizes the table
// to the declared row count.
func setupTable(formats []TableEntryFormat, labels []string, rows int) (*AsciiTable, error) {
	cols := make([]AsciiColumn, len(formats))
	for i, f := range formats {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		switch f.Kind {
		case FormatChar:
			cols[i] = NewColumn[string](label, f, rows)
		case FormatInt:
			cols[i] = NewColumn[int64](label, f, rows)
		case FormatFloat:
			cols[i] = NewColumn[float64](label, f, rows)
		default:
			return nil, &SetupError{Field: i, Code: f.Raw}
		}
	}
	return NewAsciiTable(cols, rows), nil
}

// decodeRows fans the rows out across the available execution units. Each
// worker owns a contiguous row range and writes only its own slots of the
// index-addressed result slices, so the output order always equals the
// on-disk order. Errors are recorded per row, never returned from a worker:
// the caller unpacks them sequentially.
func decodeRows(rows []byte, rowWidth int, offsets []int, formats []TableEntryFormat, results [][]TableEntry, errs []error) {
	rowCount := len(results)
	if rowCount == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > rowCount {
		workers = rowCount
	}
	chunk := (rowCount + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < rowCount; start += chunk {
		lo, hi := start, start+chunk
		if hi > rowCount {
			hi = rowCount
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				results[i], errs[i] = decodeRow(rows[i*rowWidth:(i+1)*rowWidth], i, offsets, formats)
			}
			return nil
		})
	}
	// Workers never return errors; per-row failures live in errs.
	_ = g.Wait()
}

// decodeRow slices one row into per-field text windows and converts each to
// a typed entry.
func decodeRow(raw []byte, row int, offsets []int, formats []TableEntryFormat) ([]TableEntry, error) {
	entries := make([]TableEntry, len(formats))
	for j, f := range formats {
		window := raw[offsets[j] : offsets[j]+f.FieldWidth()]
		if !utf8.Valid(window) {
			return nil, fmt.Errorf("row %d, field %d: %w", row, j, ErrNotText)
		}
		e, err := entryFromText(string(window), f)
		if err != nil {
			return nil, &ParseError{Row: row, Field: j, Text: string(window), Err: err}
		}
		entries[j] = e
	}
	return entries, nil
}

// asciiTablePlan is a fully rendered table layout, ready to write. Planning
// is separate from writing because the header blocks carrying the layout
// keywords (row width, row count, per-field formats) are written before the
// payload.
type asciiTablePlan struct {
	formats  []TableEntryFormat // widths unified per column
	labels   []string
	offsets  []int
	rowWidth int
	rows     int
	cells    [][]string // [column][row], rendered and padded
}

// planAsciiTable consumes tbl and computes the encoded layout.
//
// The on-disk field formats only fix a minimum layout, so encode has to emit
// one self-consistent fixed width per column: every column shorter than the
// longest is padded with empty text entries, then each column's width is
// unified to fit its widest rendered entry (and at least its declared
// width). Consuming the table makes concurrent mutation during encode
// impossible.
func planAsciiTable(tbl *AsciiTable) (*asciiTablePlan, error) {
	if tbl.cols == nil {
		return nil, ErrConsumed
	}
	cols := tbl.cols
	tbl.cols = nil

	rows := 0
	for _, c := range cols {
		if c.Len() > rows {
			rows = c.Len()
		}
	}

	plan := &asciiTablePlan{
		formats: make([]TableEntryFormat, len(cols)),
		labels:  make([]string, len(cols)),
		offsets: make([]int, len(cols)),
		rows:    rows,
		cells:   make([][]string, len(cols)),
	}

	for i, c := range cols {
		f := c.Format()
		if f.Kind == FormatInvalid {
			return nil, &SetupError{Field: i, Code: f.Raw}
		}

		// Render every cell, padding short columns with empty entries so
		// all columns share one uniform row count.
		rendered := make([]string, rows)
		width := f.FieldWidth()
		for j := 0; j < rows; j++ {
			if j < c.Len() {
				rendered[j] = c.Text(j)
			}
			if len(rendered[j]) > width {
				width = len(rendered[j])
			}
		}
		// Re-render to the unified width: text left-justified, numbers
		// right-justified.
		for j, text := range rendered {
			rendered[j] = justify(text, width, f.Kind)
		}

		f.Width = width
		plan.formats[i] = f
		plan.labels[i] = c.Label()
		plan.offsets[i] = plan.rowWidth
		plan.rowWidth += width
		plan.cells[i] = rendered
	}
	return plan, nil
}

func justify(text string, width int, kind FormatKind) string {
	pad := strings.Repeat(" ", width-len(text))
	if kind == FormatChar {
		return text + pad
	}
	return pad + text
}

// write emits the planned rows, concatenating each column's fixed-width
// rendering in column order, and pads the payload to the block boundary
// with spaces.
func (p *asciiTablePlan) write(w *block.Writer) error {
	buf := make([]byte, 0, p.rows*p.rowWidth)
	for j := 0; j < p.rows; j++ {
		for i := range p.cells {
			buf = append(buf, p.cells[i][j]...)
		}
	}
	return w.WritePadded(buf, ' ')
}
