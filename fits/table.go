package fits

import (
	"fmt"
	"strconv"
)

// Cell constrains the element types an ASCII table column can hold.
type Cell interface {
	string | int64 | float64
}

// AsciiColumn is the uniform capability every column exposes regardless of
// its element type: render a cell as text, report length, report label and
// format. This is the one place the package needs dynamic dispatch, since
// column element types vary per table.
type AsciiColumn interface {
	// Label returns the column label, or "" if unlabeled.
	Label() string
	// Len returns the number of cells.
	Len() int
	// Format returns the column's declared field format.
	Format() TableEntryFormat
	// Text renders cell i as its on-disk text form.
	Text(i int) string

	appendEntry(e TableEntry) error
}

// Column is an ordered sequence of cells of one element type, in insertion
// (= row) order, plus an optional label. A column is owned exclusively by
// its table until the table is consumed for encoding.
type Column[T Cell] struct {
	label  string
	format TableEntryFormat
	cells  []T
}

// NewColumn creates an empty column with the given label and format,
// pre-sized to hold capacity cells.
func NewColumn[T Cell](label string, format TableEntryFormat, capacity int) *Column[T] {
	return &Column[T]{label: label, format: format, cells: make([]T, 0, capacity)}
}

// Label returns the column label.
func (c *Column[T]) Label() string { return c.label }

// Len returns the number of cells.
func (c *Column[T]) Len() int { return len(c.cells) }

// Format returns the column's declared field format.
func (c *Column[T]) Format() TableEntryFormat { return c.format }

// Cells returns the backing slice.
func (c *Column[T]) Cells() []T { return c.cells }

// Push appends a cell.
func (c *Column[T]) Push(v T) { c.cells = append(c.cells, v) }

// Text renders cell i as text. Numeric cells render the way the encoder
// writes them: integers in base 10, floats with the format's declared
// precision.
func (c *Column[T]) Text(i int) string {
	switch v := any(c.cells[i]).(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', c.format.Precision, 64)
	}
	return ""
}

func (c *Column[T]) appendEntry(e TableEntry) error {
	switch cells := any(&c.cells).(type) {
	case *[]string:
		if e.Kind != FormatChar {
			return fmt.Errorf("cannot store %s entry in a char column", e.Kind)
		}
		*cells = append(*cells, e.Str)
	case *[]int64:
		if e.Kind != FormatInt {
			return fmt.Errorf("cannot store %s entry in an int column", e.Kind)
		}
		*cells = append(*cells, e.Int)
	case *[]float64:
		if e.Kind != FormatFloat {
			return fmt.Errorf("cannot store %s entry in a float column", e.Kind)
		}
		*cells = append(*cells, e.Float)
	}
	return nil
}

// AsciiTable is column-oriented, heterogeneously-typed table storage. It is
// created empty and pre-sized to a target row count, mutated row by row
// during decode, and consumed whole by encoding.
type AsciiTable struct {
	cols []AsciiColumn
	rows int // target row count, fixed at construction
}

// NewAsciiTable creates a table over the given columns with a target row
// count.
func NewAsciiTable(cols []AsciiColumn, rows int) *AsciiTable {
	return &AsciiTable{cols: cols, rows: rows}
}

// NumCols returns the number of columns.
func (t *AsciiTable) NumCols() int {
	return len(t.cols)
}

// TargetRows returns the row count the table was sized for.
func (t *AsciiTable) TargetRows() int {
	return t.rows
}

// Column returns column i.
func (t *AsciiTable) Column(i int) AsciiColumn {
	return t.cols[i]
}

// Formats returns every column's declared format, in column order.
func (t *AsciiTable) Formats() []TableEntryFormat {
	fmts := make([]TableEntryFormat, len(t.cols))
	for i, c := range t.cols {
		fmts[i] = c.Format()
	}
	return fmts
}

// Labels returns every column's label, in column order.
func (t *AsciiTable) Labels() []string {
	labels := make([]string, len(t.cols))
	for i, c := range t.cols {
		labels[i] = c.Label()
	}
	return labels
}

// MaxColLen returns the length of the longest column.
func (t *AsciiTable) MaxColLen() int {
	max := 0
	for _, c := range t.cols {
		if c.Len() > max {
			max = c.Len()
		}
	}
	return max
}

// addRow appends one entry to each column, in column order.
func (t *AsciiTable) addRow(row []TableEntry) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("row has %d entries, table has %d columns", len(row), len(t.cols))
	}
	for i, e := range row {
		if err := t.cols[i].appendEntry(e); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}
