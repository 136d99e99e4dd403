// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package array provides the n-dimensional numeric container shared by
// every compute engine, together with shape arithmetic and array creation.
//
// Arrays are host-resident float32/float64 buffers with value semantics
// at the package boundary. All computation goes through a Backend; see
// backend/cpu for the pure-Go engine and backend/blas for the
// gonum-accelerated one.
//
// Example:
//
//	import (
//	    "github.com/manifold-ml/manifold/array"
//	    "github.com/manifold-ml/manifold/backend/cpu"
//	)
//
//	b := cpu.New()
//	x := array.MustFromSlice([]float64{1, 2, 3}, array.Shape{3})
//	y := b.MulScalar(x, 2)
package array

import "github.com/manifold-ml/manifold/internal/array"

// Array is an n-dimensional numeric container.
type Array = array.Array

// Shape is the ordered list of dimension sizes.
type Shape = array.Shape

// DataType identifies the element type of an array.
type DataType = array.DataType

// Supported element types.
const (
	Float32 = array.Float32
	Float64 = array.Float64
)

// New creates a zero-filled array.
func New(shape Shape, dtype DataType) (*Array, error) {
	return array.New(shape, dtype)
}

// MustNew is New for shapes known to be valid.
func MustNew(shape Shape, dtype DataType) *Array {
	return array.MustNew(shape, dtype)
}

// IsArray reports whether v is an *Array.
func IsArray(v any) bool {
	return array.IsArray(v)
}

// BroadcastShapes computes the broadcast result shape of a and b.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return array.BroadcastShapes(a, b)
}

// Promote returns the wider of two data types.
func Promote(a, b DataType) DataType {
	return array.Promote(a, b)
}

// Zeros creates a float64 array filled with zeros.
func Zeros(shape Shape) *Array {
	return array.Zeros(shape)
}

// Ones creates a float64 array filled with ones.
func Ones(shape Shape) *Array {
	return array.Ones(shape)
}

// Full creates a float64 array filled with value.
func Full(shape Shape, value float64) *Array {
	return array.Full(shape, value)
}

// Eye creates an n-by-n identity matrix.
func Eye(n int) *Array {
	return array.Eye(n)
}

// FromSlice creates a float64 array from a host slice.
func FromSlice(data []float64, shape Shape) (*Array, error) {
	return array.FromSlice(data, shape)
}

// MustFromSlice is FromSlice for literals known to match the shape.
func MustFromSlice(data []float64, shape Shape) *Array {
	return array.MustFromSlice(data, shape)
}

// FromValue creates a scalar array holding a single value.
func FromValue(v float64) *Array {
	return array.FromValue(v)
}

// Linspace creates a 1-D array of n evenly spaced values on [start, stop].
func Linspace(start, stop float64, n int) *Array {
	return array.Linspace(start, stop, n)
}
