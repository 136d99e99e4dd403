package cpu

import (
	"fmt"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/einsum"
)

// MatMul multiplies matrices, batched over broadcast leading dimensions.
// Both operands must have at least two dimensions.
func (be *Backend) MatMul(a, b *array.Array) *array.Array {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) < 2 || len(bShape) < 2 {
		panic(fmt.Sprintf("matmul: operands must be at least 2-D, got %v and %v", aShape, bShape))
	}
	if aShape[len(aShape)-1] != bShape[len(bShape)-2] {
		panic(fmt.Sprintf("matmul: inner dimensions do not match: %v and %v", aShape, bShape))
	}
	if _, _, err := array.BroadcastShapes(aShape[:len(aShape)-2], bShape[:len(bShape)-2]); err != nil {
		panic(fmt.Sprintf("matmul: incompatible batch dimensions: %v and %v", aShape, bShape))
	}
	return be.Einsum("...ij,...jk->...ik", a, b)
}

// Matvec applies a matrix (batch) to a vector (batch).
func (be *Backend) Matvec(a, b *array.Array) *array.Array {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) < 2 || len(bShape) < 1 {
		panic(fmt.Sprintf("matvec: need a matrix and a vector, got %v and %v", aShape, bShape))
	}
	if aShape[len(aShape)-1] != bShape[len(bShape)-1] {
		panic(fmt.Sprintf("matvec: inner dimensions do not match: %v and %v", aShape, bShape))
	}
	return be.Einsum("...ij,...j->...i", a, b)
}

// Dot computes the vector inner product, batched over leading dimensions.
func (be *Backend) Dot(a, b *array.Array) *array.Array {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) < 1 || len(bShape) < 1 {
		panic(fmt.Sprintf("dot: operands must be at least 1-D, got %v and %v", aShape, bShape))
	}
	if aShape[len(aShape)-1] != bShape[len(bShape)-1] {
		panic(fmt.Sprintf("dot: vector lengths do not match: %v and %v", aShape, bShape))
	}
	return be.Einsum("...i,...i->...", a, b)
}

// Cross computes the 3-D vector cross product, batched over equal leading
// dimensions.
func (be *Backend) Cross(a, b *array.Array) *array.Array {
	aShape, bShape := a.Shape(), b.Shape()
	if !aShape.Equal(bShape) {
		panic(fmt.Sprintf("cross: operand shapes differ: %v and %v", aShape, bShape))
	}
	if aShape[len(aShape)-1] != 3 {
		panic(fmt.Sprintf("cross: last dimension must be 3, got %v", aShape))
	}

	result := array.MustNew(aShape, array.Promote(a.DType(), b.DType()))
	for base := 0; base < a.NumElements(); base += 3 {
		a0, a1, a2 := a.FloatAt(base), a.FloatAt(base+1), a.FloatAt(base+2)
		b0, b1, b2 := b.FloatAt(base), b.FloatAt(base+1), b.FloatAt(base+2)
		result.SetFloat(base, a1*b2-a2*b1)
		result.SetFloat(base+1, a2*b0-a0*b2)
		result.SetFloat(base+2, a0*b1-a1*b0)
	}
	return result
}

// Outer computes the outer product of two 1-D vectors.
func (be *Backend) Outer(a, b *array.Array) *array.Array {
	if len(a.Shape()) != 1 || len(b.Shape()) != 1 {
		panic(fmt.Sprintf("outer: operands must be 1-D, got %v and %v", a.Shape(), b.Shape()))
	}
	return be.Einsum("i,j->ij", a, b)
}

// Trace sums the main diagonal of the trailing two dimensions.
func (be *Backend) Trace(x *array.Array) *array.Array {
	shape := x.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("trace: operand must be at least 2-D, got %v", shape))
	}
	rows, cols := shape[len(shape)-2], shape[len(shape)-1]
	diag := min(rows, cols)
	batch := shape[:len(shape)-2].Clone()

	result := array.MustNew(batch, x.DType())
	matSize := rows * cols
	for b := 0; b < batch.NumElements(); b++ {
		total := 0.0
		for i := 0; i < diag; i++ {
			total += x.FloatAt(b*matSize + i*cols + i)
		}
		result.SetFloat(b, total)
	}
	return result
}

// Einsum evaluates an Einstein-summation expression.
func (be *Backend) Einsum(subscripts string, operands ...*array.Array) *array.Array {
	result, err := einsum.Einsum(subscripts, operands...)
	if err != nil {
		panic(err.Error())
	}
	return result
}
