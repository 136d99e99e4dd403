package cpu

import (
	"fmt"

	"github.com/manifold-ml/manifold/internal/array"
)

// unary applies f element-wise, preserving shape and dtype.
func unary(x *array.Array, f func(float64) float64) *array.Array {
	result := array.MustNew(x.Shape(), x.DType())
	n := x.NumElements()
	for i := 0; i < n; i++ {
		result.SetFloat(i, f(x.FloatAt(i)))
	}
	return result
}

// binary applies f element-wise over broadcast operands. Panics with a
// shape-mismatch message when the operand shapes are incompatible.
func binary(name string, a, b *array.Array, f func(x, y float64) float64) *array.Array {
	outShape, _, err := array.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	result := array.MustNew(outShape, array.Promote(a.DType(), b.DType()))

	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		ai, bi := 0, 0
		rem := i
		for d, s := range outStrides {
			coord := rem / s
			rem %= s
			ai += coord * aStrides[d]
			bi += coord * bStrides[d]
		}
		result.SetFloat(i, f(a.FloatAt(ai), b.FloatAt(bi)))
	}
	return result
}

// broadcastStrides maps output dimensions to an operand's strides; missing
// and size-1 dimensions get stride 0 so they repeat across the output.
func broadcastStrides(in, out array.Shape) []int {
	inStrides := in.ComputeStrides()
	result := make([]int, len(out))
	offset := len(out) - len(in)
	for d := range out {
		j := d - offset
		switch {
		case j < 0:
			result[d] = 0
		case in[j] == 1 && out[d] > 1:
			result[d] = 0
		default:
			result[d] = inStrides[j]
		}
	}
	return result
}
