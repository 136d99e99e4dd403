package ops

import "github.com/manifold-ml/manifold/internal/array"

// MatMulOp is batched matrix multiplication: output = a @ b.
//
// gradA = outputGrad @ bᵀ and gradB = aᵀ @ outputGrad, with the transpose
// taken over the last two dimensions. Broadcast batch dimensions are summed
// back to each operand's shape.
type MatMulOp struct {
	inputs []*array.Array
	output *array.Array
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *array.Array) *MatMulOp {
	return &MatMulOp{inputs: []*array.Array{a, b}, output: output}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *array.Array, be array.Backend) []*array.Array {
	a, b := op.inputs[0], op.inputs[1]
	gradA := be.MatMul(outputGrad, swapLast2(b, be))
	gradB := be.MatMul(swapLast2(a, be), outputGrad)
	return []*array.Array{
		reduceBroadcast(gradA, a.Shape(), be),
		reduceBroadcast(gradB, b.Shape(), be),
	}
}

// Inputs returns [a, b].
func (op *MatMulOp) Inputs() []*array.Array { return op.inputs }

// Output returns a @ b.
func (op *MatMulOp) Output() *array.Array { return op.output }

// swapLast2 transposes the last two dimensions of x.
func swapLast2(x *array.Array, b array.Backend) *array.Array {
	rank := len(x.Shape())
	axes := make([]int, rank)
	for i := range axes {
		axes[i] = i
	}
	axes[rank-1], axes[rank-2] = axes[rank-2], axes[rank-1]
	return b.Transpose(x, axes...)
}
