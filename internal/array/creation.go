package array

import "fmt"

// Zeros creates a float64 array filled with zeros.
func Zeros(shape Shape) *Array {
	return MustNew(shape, Float64)
}

// Ones creates a float64 array filled with ones.
func Ones(shape Shape) *Array {
	return Full(shape, 1)
}

// Full creates a float64 array filled with value.
func Full(shape Shape, value float64) *Array {
	a := MustNew(shape, Float64)
	data := a.AsFloat64()
	for i := range data {
		data[i] = value
	}
	return a
}

// Eye creates an n-by-n float64 identity matrix.
func Eye(n int) *Array {
	a := MustNew(Shape{n, n}, Float64)
	data := a.AsFloat64()
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	return a
}

// FromSlice creates a float64 array from a host slice.
func FromSlice(data []float64, shape Shape) (*Array, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	a, err := New(shape, Float64)
	if err != nil {
		return nil, err
	}
	copy(a.AsFloat64(), data)
	return a, nil
}

// MustFromSlice is FromSlice for literals known to match the shape.
func MustFromSlice(data []float64, shape Shape) *Array {
	a, err := FromSlice(data, shape)
	if err != nil {
		panic(fmt.Sprintf("array: %v", err))
	}
	return a
}

// FromValue creates a scalar array holding a single value.
func FromValue(v float64) *Array {
	a := MustNew(Shape{}, Float64)
	a.AsFloat64()[0] = v
	return a
}

// Linspace creates a 1-D array of n evenly spaced values on [start, stop].
func Linspace(start, stop float64, n int) *Array {
	a := MustNew(Shape{n}, Float64)
	data := a.AsFloat64()
	if n == 1 {
		data[0] = start
		return a
	}
	step := (stop - start) / float64(n-1)
	for i := range data {
		data[i] = start + float64(i)*step
	}
	return a
}
