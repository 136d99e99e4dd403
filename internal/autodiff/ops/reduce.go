package ops

import "github.com/manifold-ml/manifold/internal/array"

// SumOp is full reduction to a scalar: output = sum(x).
type SumOp struct {
	input  *array.Array
	output *array.Array
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *array.Array) *SumOp {
	return &SumOp{input: x, output: output}
}

// Backward broadcasts the scalar output gradient over the input shape.
func (op *SumOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	return []*array.Array{expandTo(outputGrad, op.input.Shape(), b)}
}

// Inputs returns [x].
func (op *SumOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns sum(x).
func (op *SumOp) Output() *array.Array { return op.output }

// SumDimOp is reduction along one dimension: output = sum(x, dim).
type SumDimOp struct {
	input   *array.Array
	output  *array.Array
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp. dim is already normalized to be
// non-negative.
func NewSumDimOp(x, output *array.Array, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{input: x, output: output, dim: dim, keepDim: keepDim}
}

// Backward broadcasts the output gradient along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	grad := outputGrad
	if !op.keepDim {
		// Reinsert the reduced dimension as size 1 so broadcasting can
		// expand it.
		kept := make(array.Shape, 0, len(op.input.Shape()))
		kept = append(kept, op.input.Shape()...)
		kept[op.dim] = 1
		grad = b.Reshape(grad, kept)
	}
	return []*array.Array{expandTo(grad, op.input.Shape(), b)}
}

// Inputs returns [x].
func (op *SumDimOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns sum(x, dim).
func (op *SumDimOp) Output() *array.Array { return op.output }

// MeanOp is full reduction to the scalar mean: output = mean(x).
type MeanOp struct {
	input  *array.Array
	output *array.Array
}

// NewMeanOp creates a new MeanOp.
func NewMeanOp(x, output *array.Array) *MeanOp {
	return &MeanOp{input: x, output: output}
}

// Backward spreads the output gradient uniformly over the input.
func (op *MeanOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	n := float64(op.input.NumElements())
	scaled := b.DivScalar(outputGrad, n)
	return []*array.Array{expandTo(scaled, op.input.Shape(), b)}
}

// Inputs returns [x].
func (op *MeanOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns mean(x).
func (op *MeanOp) Output() *array.Array { return op.output }
