// Package fits provides a pure Go implementation for reading and writing
// FITS (Flexible Image Transport System) files.
package fits

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFITS     = errors.New("not a FITS file")
	ErrUnsupported = errors.New("unsupported extension type")
	ErrConsumed    = errors.New("table has already been consumed by encoding")
	ErrNotText     = errors.New("field bytes are not valid text")
	ErrGeometry    = errors.New("header declares invalid data geometry")
)

// UnknownBitpixError is returned when a BITPIX code falls outside the six
// values the format defines.
type UnknownBitpixError struct {
	Code int64
}

func (e *UnknownBitpixError) Error() string {
	return fmt.Sprintf("unknown BITPIX code %d", e.Code)
}

// TypeMismatchError is returned when a TypedImage is accessed as the wrong
// element type. It is recoverable: callers may branch on it and retry with
// the stored type.
type TypeMismatchError struct {
	Stored    Bitpix
	Requested Bitpix
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("image holds %s data, requested %s", e.Stored, e.Requested)
}

// SetupError is returned when an ASCII table cannot be constructed because a
// field's format code is unparseable. It surfaces before any row is read.
type SetupError struct {
	Field int    // zero-based field index
	Code  string // the offending format code, verbatim
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("field %d: invalid format code %q", e.Field, e.Code)
}

// ParseError is returned when a field's text cannot be converted to the type
// its format declares.
type ParseError struct {
	Row   int
	Field int
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, field %d: cannot parse %q: %v", e.Row, e.Field, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
