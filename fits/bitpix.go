package fits

// Bitpix identifies the element type of a FITS data array. The underlying
// value is the format's BITPIX code, so the set is closed: exactly six codes
// exist and every other value is invalid.
type Bitpix int

const (
	Byte   Bitpix = 8   // 8-bit unsigned integer
	Short  Bitpix = 16  // 16-bit signed integer
	Int    Bitpix = 32  // 32-bit signed integer
	Long   Bitpix = 64  // 64-bit signed integer
	Float  Bitpix = -32 // IEEE 754 single precision
	Double Bitpix = -64 // IEEE 754 double precision
)

// BitpixFromCode maps a BITPIX code to its Bitpix value. Codes outside the
// closed set fail with an UnknownBitpixError.
func BitpixFromCode(code int64) (Bitpix, error) {
	switch Bitpix(code) {
	case Byte, Short, Int, Long, Float, Double:
		return Bitpix(code), nil
	}
	return 0, &UnknownBitpixError{Code: code}
}

// Code returns the BITPIX code for the element type.
func (b Bitpix) Code() int64 {
	return int64(b)
}

// ByteWidth returns the size of one element in bytes. This is the single
// source of truth for element sizes; block counts for image payloads are
// derived from it.
func (b Bitpix) ByteWidth() int {
	switch b {
	case Byte:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	case Long, Double:
		return 8
	}
	return 0
}

func (b Bitpix) String() string {
	switch b {
	case Byte:
		return "uint8"
	case Short:
		return "int16"
	case Int:
		return "int32"
	case Long:
		return "int64"
	case Float:
		return "float32"
	case Double:
		return "float64"
	}
	return "invalid"
}
