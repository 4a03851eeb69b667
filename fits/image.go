package fits

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-fits/internal/block"
)

// TypedImage wraps an owned N-dimensional array of exactly one element type.
// The variant tag and the array's element type always agree; there is no
// conversion between variants, and a TypedImage never reinterprets its
// elements as another type.
type TypedImage struct {
	bitpix Bitpix
	data   any // one of *Array[uint8] ... *Array[float64]
}

// NewImage wraps an array in a TypedImage. The Bitpix tag is derived from
// the array's element type.
func NewImage[T Element](a *Array[T]) TypedImage {
	var bpx Bitpix
	switch any(a).(type) {
	case *Array[uint8]:
		bpx = Byte
	case *Array[int16]:
		bpx = Short
	case *Array[int32]:
		bpx = Int
	case *Array[int64]:
		bpx = Long
	case *Array[float32]:
		bpx = Float
	case *Array[float64]:
		bpx = Double
	}
	return TypedImage{bitpix: bpx, data: a}
}

// Bitpix returns the element type of the stored array.
func (img *TypedImage) Bitpix() Bitpix {
	return img.bitpix
}

// Shape returns the dimensions of the stored array.
func (img *TypedImage) Shape() []int {
	switch a := img.data.(type) {
	case *Array[uint8]:
		return a.Shape()
	case *Array[int16]:
		return a.Shape()
	case *Array[int32]:
		return a.Shape()
	case *Array[int64]:
		return a.Shape()
	case *Array[float32]:
		return a.Shape()
	case *Array[float64]:
		return a.Shape()
	}
	return nil
}

// BlockLength returns the payload size in bytes: element count times element
// width. Rounding up to the block boundary is the writer's job, not ours.
func (img *TypedImage) BlockLength() int {
	return img.numElements() * img.bitpix.ByteWidth()
}

func (img *TypedImage) numElements() int {
	switch a := img.data.(type) {
	case *Array[uint8]:
		return a.Len()
	case *Array[int16]:
		return a.Len()
	case *Array[int32]:
		return a.Len()
	case *Array[int64]:
		return a.Len()
	case *Array[float32]:
		return a.Len()
	case *Array[float64]:
		return a.Len()
	}
	return 0
}

// imageArray returns the stored array if the variant matches want.
func imageArray[T Element](img *TypedImage, want Bitpix) (*Array[T], error) {
	if a, ok := img.data.(*Array[T]); ok {
		return a, nil
	}
	return nil, &TypeMismatchError{Stored: img.bitpix, Requested: want}
}

// Uint8 returns a read-only view of the array if the image holds uint8
// elements, and a TypeMismatchError otherwise.
func (img *TypedImage) Uint8() (*Array[uint8], error) {
	return imageArray[uint8](img, Byte)
}

// Int16 returns a read-only view of the array if the image holds int16
// elements.
func (img *TypedImage) Int16() (*Array[int16], error) {
	return imageArray[int16](img, Short)
}

// Int32 returns a read-only view of the array if the image holds int32
// elements.
func (img *TypedImage) Int32() (*Array[int32], error) {
	return imageArray[int32](img, Int)
}

// Int64 returns a read-only view of the array if the image holds int64
// elements.
func (img *TypedImage) Int64() (*Array[int64], error) {
	return imageArray[int64](img, Long)
}

// Float32 returns a read-only view of the array if the image holds float32
// elements.
func (img *TypedImage) Float32() (*Array[float32], error) {
	return imageArray[float32](img, Float)
}

// Float64 returns a read-only view of the array if the image holds float64
// elements.
func (img *TypedImage) Float64() (*Array[float64], error) {
	return imageArray[float64](img, Double)
}

// intoArray transfers ownership of the stored array, leaving the image
// empty. The image is unusable afterwards whether or not the types matched.
func intoArray[T Element](img *TypedImage, want Bitpix) (*Array[T], error) {
	a, err := imageArray[T](img, want)
	img.data = nil
	if err != nil {
		return nil, err
	}
	return a, nil
}

// IntoUint8 consumes the image and returns the owned array, or a
// TypeMismatchError. Either way the image no longer holds data.
func (img *TypedImage) IntoUint8() (*Array[uint8], error) {
	return intoArray[uint8](img, Byte)
}

// IntoInt16 consumes the image and returns the owned array.
func (img *TypedImage) IntoInt16() (*Array[int16], error) {
	return intoArray[int16](img, Short)
}

// IntoInt32 consumes the image and returns the owned array.
func (img *TypedImage) IntoInt32() (*Array[int32], error) {
	return intoArray[int32](img, Int)
}

// IntoInt64 consumes the image and returns the owned array.
func (img *TypedImage) IntoInt64() (*Array[int64], error) {
	return intoArray[int64](img, Long)
}

// IntoFloat32 consumes the image and returns the owned array.
func (img *TypedImage) IntoFloat32() (*Array[float32], error) {
	return intoArray[float32](img, Float)
}

// IntoFloat64 consumes the image and returns the owned array.
func (img *TypedImage) IntoFloat64() (*Array[float64], error) {
	return intoArray[float64](img, Double)
}

// decodeImage reads an image payload from r. FITS stores all numeric data
// big-endian; the shape is preserved in column-major order, not transposed.
// The header-declared axis lengths are validated before anything is
// allocated: each must be non-negative and the payload size must fit in an
// int.
func decodeImage(r *block.Reader, bpx Bitpix, shape []int) (TypedImage, error) {
	n := 1
	limit := math.MaxInt / bpx.ByteWidth()
	for _, d := range shape {
		if d < 0 {
			return TypedImage{}, fmt.Errorf("axis length %d: %w", d, ErrGeometry)
		}
		if d > 0 && n > limit/d {
			return TypedImage{}, fmt.Errorf("image dimensions %v overflow: %w", shape, ErrGeometry)
		}
		n *= d
	}
	raw := make([]byte, block.Align(n*bpx.ByteWidth()))
	if err := r.ReadBlocks(raw); err != nil {
		return TypedImage{}, err
	}

	switch bpx {
	case Byte:
		data := make([]uint8, n)
		copy(data, raw[:n])
		return newImageFromData(shape, data)
	case Short:
		data := make([]int16, n)
		for i := range data {
			data[i] = int16(binary.BigEndian.Uint16(raw[i*2:]))
		}
		return newImageFromData(shape, data)
	case Int:
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(binary.BigEndian.Uint32(raw[i*4:]))
		}
		return newImageFromData(shape, data)
	case Long:
		data := make([]int64, n)
		for i := range data {
			data[i] = int64(binary.BigEndian.Uint64(raw[i*8:]))
		}
		return newImageFromData(shape, data)
	case Float:
		data := make([]float32, n)
		for i := range data {
			data[i] = math.Float32frombits(binary.BigEndian.Uint32(raw[i*4:]))
		}
		return newImageFromData(shape, data)
	case Double:
		data := make([]float64, n)
		for i := range data {
			data[i] = math.Float64frombits(binary.BigEndian.Uint64(raw[i*8:]))
		}
		return newImageFromData(shape, data)
	}
	return TypedImage{}, &UnknownBitpixError{Code: bpx.Code()}
}

func newImageFromData[T Element](shape []int, data []T) (TypedImage, error) {
	a, err := NewArray(shape, data)
	if err != nil {
		return TypedImage{}, err
	}
	return NewImage(a), nil
}

// encodePayload writes the image's elements big-endian, zero-padded to the
// next block boundary.
func (img *TypedImage) encodePayload(w *block.Writer) error {
	raw := make([]byte, img.BlockLength())
	switch a := img.data.(type) {
	case *Array[uint8]:
		copy(raw, a.Data())
	case *Array[int16]:
		for i, v := range a.Data() {
			binary.BigEndian.PutUint16(raw[i*2:], uint16(v))
		}
	case *Array[int32]:
		for i, v := range a.Data() {
			binary.BigEndian.PutUint32(raw[i*4:], uint32(v))
		}
	case *Array[int64]:
		for i, v := range a.Data() {
			binary.BigEndian.PutUint64(raw[i*8:], uint64(v))
		}
	case *Array[float32]:
		for i, v := range a.Data() {
			binary.BigEndian.PutUint32(raw[i*4:], math.Float32bits(v))
		}
	case *Array[float64]:
		for i, v := range a.Data() {
			binary.BigEndian.PutUint64(raw[i*8:], math.Float64bits(v))
		}
	}
	return w.WritePadded(raw, 0)
}
