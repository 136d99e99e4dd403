package ops

import "github.com/manifold-ml/manifold/internal/array"

// ZerosLike returns a zero array with x's shape and dtype.
func ZerosLike(x *array.Array) *array.Array {
	return array.MustNew(x.Shape(), x.DType())
}

// OnesLike returns a one-filled array with x's shape and dtype.
func OnesLike(x *array.Array) *array.Array {
	out := array.MustNew(x.Shape(), x.DType())
	n := out.NumElements()
	for i := 0; i < n; i++ {
		out.SetFloat(i, 1)
	}
	return out
}

// reduceBroadcast reduces a gradient to the target operand shape, undoing
// any broadcasting applied during the forward pass.
func reduceBroadcast(grad *array.Array, target array.Shape, b array.Backend) *array.Array {
	if grad.Shape().Equal(target) {
		return grad
	}
	if target.IsScalar() {
		return b.Sum(grad)
	}

	// Sum away extra leading dimensions, then the dimensions the operand
	// held as size 1.
	for len(grad.Shape()) > len(target) {
		grad = b.SumDim(grad, 0, false)
	}
	for d := range target {
		if target[d] == 1 && grad.Shape()[d] > 1 {
			grad = b.SumDim(grad, d, true)
		}
	}
	if !grad.Shape().Equal(target) {
		grad = b.Reshape(grad, target)
	}
	return grad
}

// expandTo broadcasts a gradient up to the given shape by multiplying with
// ones, used by reduction backward passes.
func expandTo(grad *array.Array, shape array.Shape, b array.Backend) *array.Array {
	ones := array.MustNew(shape, grad.DType())
	n := ones.NumElements()
	for i := 0; i < n; i++ {
		ones.SetFloat(i, 1)
	}
	return b.Mul(ones, grad)
}
