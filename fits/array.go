package fits

import "fmt"

// Element constrains the six numeric element types a FITS array can hold,
// one per Bitpix value.
type Element interface {
	uint8 | int16 | int32 | int64 | float32 | float64
}

// Array is an N-dimensional array in FITS column-major order: the first
// index varies fastest in memory, exactly as the elements appear on disk.
// The shape is fixed at construction.
type Array[T Element] struct {
	shape []int
	data  []T
}

// NewArray wraps data in an array of the given shape. The data length must
// equal the product of the dimensions.
func NewArray[T Element](shape []int, data []T) (*Array[T], error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension %d", d)
		}
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return &Array[T]{shape: append([]int(nil), shape...), data: data}, nil
}

// Shape returns the array dimensions.
func (a *Array[T]) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int {
	return len(a.shape)
}

// Len returns the total number of elements.
func (a *Array[T]) Len() int {
	return len(a.data)
}

// Data returns the backing slice in column-major order.
func (a *Array[T]) Data() []T {
	return a.data
}

// At returns the element at the given index, column-major: the offset of
// index (i0, i1, ...) is i0 + shape[0]*(i1 + shape[1]*(...)).
func (a *Array[T]) At(idx ...int) T {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("index rank %d does not match array rank %d", len(idx), len(a.shape)))
	}
	off := 0
	stride := 1
	for k, i := range idx {
		if i < 0 || i >= a.shape[k] {
			panic(fmt.Sprintf("index %d out of range for dimension %d (size %d)", i, k, a.shape[k]))
		}
		off += i * stride
		stride *= a.shape[k]
	}
	return a.data[off]
}
