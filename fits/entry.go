package fits

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatKind selects the semantic type of an ASCII table field.
type FormatKind int

const (
	FormatChar FormatKind = iota
	FormatInt
	FormatFloat
	FormatInvalid
)

func (k FormatKind) String() string {
	switch k {
	case FormatChar:
		return "char"
	case FormatInt:
		return "int"
	case FormatFloat:
		return "float"
	}
	return "invalid"
}

// TableEntryFormat is a parsed Fortran-style field format code: A<w> for
// text, I<w> for integers, F<w>.<p> for fixed-point numbers. Width and
// precision are derived once from the code text and never recomputed.
//
// Parsing is total: a code that does not match the grammar yields an Invalid
// format preserving the original text, so a caller scanning many fields can
// report one coherent setup error instead of aborting on the first bad code.
type TableEntryFormat struct {
	Kind      FormatKind
	Width     int
	Precision int    // fixed-point only
	Raw       string // original code text, kept for error reporting
}

// ParseEntryFormat parses a field format code. It never fails; unparseable
// codes come back as Kind FormatInvalid.
func ParseEntryFormat(code string) TableEntryFormat {
	invalid := TableEntryFormat{Kind: FormatInvalid, Raw: code}
	trimmed := strings.TrimSpace(code)
	if len(trimmed) < 2 {
		return invalid
	}

	kind := FormatInvalid
	switch trimmed[0] {
	case 'A':
		kind = FormatChar
	case 'I':
		kind = FormatInt
	case 'F':
		kind = FormatFloat
	default:
		return invalid
	}

	widthText, precText, hasPrec := strings.Cut(trimmed[1:], ".")
	if hasPrec && kind != FormatFloat {
		return invalid
	}

	width, err := strconv.ParseUint(widthText, 10, 32)
	if err != nil {
		return invalid
	}
	prec := uint64(0)
	if hasPrec {
		if prec, err = strconv.ParseUint(precText, 10, 32); err != nil {
			return invalid
		}
	}
	return TableEntryFormat{Kind: kind, Width: int(width), Precision: int(prec), Raw: code}
}

// FieldWidth returns the character count this field occupies in a row.
// Accumulated in declaration order, field widths give each field's starting
// byte offset.
func (f TableEntryFormat) FieldWidth() int {
	if f.Kind == FormatInvalid {
		return 0
	}
	return f.Width
}

// String renders the format back to its code form.
func (f TableEntryFormat) String() string {
	switch f.Kind {
	case FormatChar:
		return fmt.Sprintf("A%d", f.Width)
	case FormatInt:
		return fmt.Sprintf("I%d", f.Width)
	case FormatFloat:
		return fmt.Sprintf("F%d.%d", f.Width, f.Precision)
	}
	return f.Raw
}

// TableEntry is one decoded table cell, tagged with the same shape as its
// format. Entries are produced only by combining raw field text with the
// field's declared format.
type TableEntry struct {
	Kind  FormatKind
	Str   string
	Int   int64
	Float float64
}

// entryFromText converts one field's text into a typed entry according to
// the declared format. Numeric fields are blank-padded on disk, so the text
// is trimmed before conversion.
func entryFromText(text string, format TableEntryFormat) (TableEntry, error) {
	switch format.Kind {
	case FormatChar:
		return TableEntry{Kind: FormatChar, Str: strings.TrimRight(text, " ")}, nil
	case FormatInt:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return TableEntry{}, err
		}
		return TableEntry{Kind: FormatInt, Int: v}, nil
	case FormatFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return TableEntry{}, err
		}
		return TableEntry{Kind: FormatFloat, Float: v}, nil
	}
	return TableEntry{}, fmt.Errorf("invalid format code %q", format.Raw)
}
