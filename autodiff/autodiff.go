// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// The decorator wraps any backend and records the operations executed
// through it on a gradient tape; ValueAndGrad turns a scalar-valued
// function of an array parameter into one that also returns the gradient.
//
// Example:
//
//	import (
//	    "github.com/manifold-ml/manifold/array"
//	    "github.com/manifold-ml/manifold/autodiff"
//	    "github.com/manifold-ml/manifold/backend/cpu"
//	)
//
//	f := func(b array.Backend, x *array.Array) *array.Array {
//	    return b.Sum(b.Mul(x, x))
//	}
//	vg := autodiff.ValueAndGrad(cpu.New(), f)
//	value, grad := vg(array.MustFromSlice([]float64{1, 2, 3}, array.Shape{3}))
package autodiff

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/autodiff"
)

// Backend is the gradient-recording decorator around another backend.
type Backend[B array.Backend] = autodiff.Backend[B]

// New creates an autodiff decorator wrapping the given backend.
func New[B array.Backend](inner B) *Backend[B] {
	return autodiff.New(inner)
}

// GradientTape records operations for reverse-mode differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Func is a scalar-valued function of one array parameter.
type Func = autodiff.Func

// ValueAndGrad returns a function computing f's value and gradient.
func ValueAndGrad(base array.Backend, f Func) func(param *array.Array) (*array.Array, *array.Array) {
	return autodiff.ValueAndGrad(base, f)
}

// ValueAndGradHost is ValueAndGrad with flat host-slice inputs and
// outputs, the form numerical optimizers consume.
func ValueAndGradHost(base array.Backend, f Func, shape array.Shape) func(x []float64) (float64, []float64) {
	return autodiff.ValueAndGradHost(base, f, shape)
}
