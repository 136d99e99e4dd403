package ops

import "github.com/manifold-ml/manifold/internal/array"

// ReshapeOp is a view change: output = reshape(x, shape).
type ReshapeOp struct {
	input  *array.Array
	output *array.Array
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(x, output *array.Array) *ReshapeOp {
	return &ReshapeOp{input: x, output: output}
}

// Backward reshapes the output gradient back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	return []*array.Array{b.Reshape(outputGrad, op.input.Shape())}
}

// Inputs returns [x].
func (op *ReshapeOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns the reshaped array.
func (op *ReshapeOp) Output() *array.Array { return op.output }

// TransposeOp is a dimension permutation: output = transpose(x, axes).
type TransposeOp struct {
	input  *array.Array
	output *array.Array
	axes   []int
}

// NewTransposeOp creates a new TransposeOp. axes is the forward
// permutation.
func NewTransposeOp(x, output *array.Array, axes []int) *TransposeOp {
	return &TransposeOp{input: x, output: output, axes: axes}
}

// Backward applies the inverse permutation to the output gradient.
func (op *TransposeOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	inverse := make([]int, len(op.axes))
	for i, a := range op.axes {
		inverse[a] = i
	}
	return []*array.Array{b.Transpose(outputGrad, inverse...)}
}

// Inputs returns [x].
func (op *TransposeOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns the transposed array.
func (op *TransposeOp) Output() *array.Array { return op.output }

// SplitOp divides x into n equal parts along dimension 0.
type SplitOp struct {
	input   *array.Array
	outputs []*array.Array
}

// NewSplitOp creates a new SplitOp.
func NewSplitOp(x *array.Array, outputs []*array.Array) *SplitOp {
	return &SplitOp{input: x, outputs: outputs}
}

// Backward is unused for multi-output operations; the tape calls
// BackwardMulti instead.
func (op *SplitOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	return op.BackwardMulti([]*array.Array{outputGrad}, b)
}

// BackwardMulti concatenates the per-part gradients back along dimension 0.
// Parts with no gradient contribute zeros.
func (op *SplitOp) BackwardMulti(outputGrads []*array.Array, b array.Backend) []*array.Array {
	parts := make([]*array.Array, len(op.outputs))
	for i, out := range op.outputs {
		if i < len(outputGrads) && outputGrads[i] != nil {
			parts[i] = outputGrads[i]
		} else {
			parts[i] = ZerosLike(out)
		}
	}
	return []*array.Array{b.Concat(parts, 0)}
}

// Inputs returns [x].
func (op *SplitOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns the first part.
func (op *SplitOp) Output() *array.Array { return op.outputs[0] }

// Outputs returns all parts.
func (op *SplitOp) Outputs() []*array.Array { return op.outputs }

// ConcatOp joins arrays along one dimension: output = concat(xs, dim).
type ConcatOp struct {
	inputs []*array.Array
	output *array.Array
	dim    int
}

// NewConcatOp creates a new ConcatOp. dim is already normalized to be
// non-negative.
func NewConcatOp(xs []*array.Array, output *array.Array, dim int) *ConcatOp {
	return &ConcatOp{inputs: xs, output: output, dim: dim}
}

// Backward slices the output gradient back into per-input pieces.
func (op *ConcatOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	grads := make([]*array.Array, len(op.inputs))
	offset := 0
	for i, in := range op.inputs {
		size := in.Shape()[op.dim]
		indices := make([]int, size)
		for j := range indices {
			indices[j] = offset + j
		}
		grads[i] = b.Take(outputGrad, indices, op.dim)
		offset += size
	}
	return grads
}

// Inputs returns the concatenated arrays.
func (op *ConcatOp) Inputs() []*array.Array { return op.inputs }

// Output returns the joined array.
func (op *ConcatOp) Output() *array.Array { return op.output }
