// Package cpu implements the reference pure-Go engine. Every operation is
// written as an explicit loop over the element buffer, with NumPy-style
// broadcasting resolved through shape strides.
package cpu

import (
	"fmt"
	"math"

	"github.com/manifold-ml/manifold/internal/array"
)

// Backend is the pure-Go engine.
type Backend struct{}

// Compile-time check that the engine implements the full interface.
var _ array.Backend = (*Backend)(nil)

// New creates a new cpu engine.
func New() *Backend {
	return &Backend{}
}

// Name returns the engine name.
func (be *Backend) Name() string {
	return "cpu"
}

// Add performs element-wise addition with broadcasting.
func (be *Backend) Add(a, b *array.Array) *array.Array {
	return binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (be *Backend) Sub(a, b *array.Array) *array.Array {
	return binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (be *Backend) Mul(a, b *array.Array) *array.Array {
	return binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (be *Backend) Div(a, b *array.Array) *array.Array {
	return binary("div", a, b, func(x, y float64) float64 { return x / y })
}

// AddScalar adds a host scalar to every element.
func (be *Backend) AddScalar(x *array.Array, s float64) *array.Array {
	return unary(x, func(v float64) float64 { return v + s })
}

// SubScalar subtracts a host scalar from every element.
func (be *Backend) SubScalar(x *array.Array, s float64) *array.Array {
	return unary(x, func(v float64) float64 { return v - s })
}

// MulScalar multiplies every element by a host scalar.
func (be *Backend) MulScalar(x *array.Array, s float64) *array.Array {
	return unary(x, func(v float64) float64 { return v * s })
}

// DivScalar divides every element by a host scalar.
func (be *Backend) DivScalar(x *array.Array, s float64) *array.Array {
	return unary(x, func(v float64) float64 { return v / s })
}

// Exp computes the element-wise exponential.
func (be *Backend) Exp(x *array.Array) *array.Array {
	return unary(x, math.Exp)
}

// Log computes the element-wise natural logarithm.
func (be *Backend) Log(x *array.Array) *array.Array {
	return unary(x, math.Log)
}

// Sqrt computes the element-wise square root.
func (be *Backend) Sqrt(x *array.Array) *array.Array {
	return unary(x, math.Sqrt)
}

// Sin computes the element-wise sine.
func (be *Backend) Sin(x *array.Array) *array.Array {
	return unary(x, math.Sin)
}

// Cos computes the element-wise cosine.
func (be *Backend) Cos(x *array.Array) *array.Array {
	return unary(x, math.Cos)
}

// Acos computes the element-wise arccosine.
func (be *Backend) Acos(x *array.Array) *array.Array {
	return unary(x, math.Acos)
}

// Abs computes the element-wise absolute value.
func (be *Backend) Abs(x *array.Array) *array.Array {
	return unary(x, math.Abs)
}

// Neg negates every element.
func (be *Backend) Neg(x *array.Array) *array.Array {
	return unary(x, func(v float64) float64 { return -v })
}

// Clip limits every element to [lo, hi].
func (be *Backend) Clip(x *array.Array, lo, hi float64) *array.Array {
	if lo > hi {
		panic(fmt.Sprintf("clip: invalid bounds [%g, %g]", lo, hi))
	}
	return unary(x, func(v float64) float64 {
		return math.Min(math.Max(v, lo), hi)
	})
}
