package array

import (
	"fmt"
	"unsafe"
)

// Array is the n-dimensional numeric container shared by every engine.
//
// The element buffer is stored as raw bytes and reinterpreted through the
// typed accessors. Public operations treat arrays as immutable values: an
// engine never writes into its operands, only into freshly allocated
// results.
type Array struct {
	data  []byte
	shape Shape
	dtype DataType
}

// New allocates a zero-initialized array with the given shape and type.
func New(shape Shape, dtype DataType) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Array{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// MustNew is New for shapes already known to be valid. It panics on error.
func MustNew(shape Shape, dtype DataType) *Array {
	a, err := New(shape, dtype)
	if err != nil {
		panic(fmt.Sprintf("array: %v", err))
	}
	return a
}

// IsArray reports whether v is a *Array. It is false for plain scalars,
// slices and every other host type.
func IsArray(v any) bool {
	_, ok := v.(*Array)
	return ok
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the array's element type.
func (a *Array) DType() DataType {
	return a.dtype
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// Data returns the raw byte buffer. Direct access to underlying memory;
// use the typed accessors instead where possible.
func (a *Array) Data() []byte {
	return a.data
}

// AsFloat64 interprets the buffer as []float64.
// Panics if the array's dtype is not Float64.
func (a *Array) AsFloat64() []float64 {
	if a.dtype != Float64 {
		panic(fmt.Sprintf("array dtype is %s, not float64", a.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsFloat32 interprets the buffer as []float32.
// Panics if the array's dtype is not Float32.
func (a *Array) AsFloat32() []float32 {
	if a.dtype != Float32 {
		panic(fmt.Sprintf("array dtype is %s, not float32", a.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// FloatAt returns the element at flat index i as float64, regardless of the
// stored element type.
func (a *Array) FloatAt(i int) float64 {
	switch a.dtype {
	case Float64:
		return a.AsFloat64()[i]
	case Float32:
		return float64(a.AsFloat32()[i])
	default:
		panic(fmt.Sprintf("array: unsupported dtype %s", a.dtype))
	}
}

// SetFloat stores v at flat index i, converting to the stored element type.
func (a *Array) SetFloat(i int, v float64) {
	switch a.dtype {
	case Float64:
		a.AsFloat64()[i] = v
	case Float32:
		a.AsFloat32()[i] = float32(v)
	default:
		panic(fmt.Sprintf("array: unsupported dtype %s", a.dtype))
	}
}

// Float returns the value of a scalar (or single-element) array.
func (a *Array) Float() float64 {
	if a.NumElements() != 1 {
		panic(fmt.Sprintf("array: Float on non-scalar shape %v", a.shape))
	}
	return a.FloatAt(0)
}

// Floats returns a fresh []float64 copy of the elements.
func (a *Array) Floats() []float64 {
	out := make([]float64, a.NumElements())
	for i := range out {
		out[i] = a.FloatAt(i)
	}
	return out
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	clone := &Array{
		data:  make([]byte, len(a.data)),
		shape: a.shape.Clone(),
		dtype: a.dtype,
	}
	copy(clone.data, a.data)
	return clone
}

// WithShape returns a view-free copy of the array carrying a new shape with
// the same number of elements.
func (a *Array) WithShape(shape Shape) *Array {
	if shape.NumElements() != a.NumElements() {
		panic(fmt.Sprintf("array: cannot view shape %v as %v (different number of elements)", a.shape, shape))
	}
	clone := a.Clone()
	clone.shape = shape.Clone()
	return clone
}

// String renders a compact description, useful in test failures.
func (a *Array) String() string {
	return fmt.Sprintf("Array(shape=%v, dtype=%s)", a.shape, a.dtype)
}
