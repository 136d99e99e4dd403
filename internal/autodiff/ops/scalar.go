package ops

import "github.com/manifold-ml/manifold/internal/array"

// ScalarOp covers the element-wise operations with a host scalar. The
// gradient with respect to the array operand is outputGrad times a
// constant factor: 1 for add/sub, s for mul, 1/s for div.
type ScalarOp struct {
	input  *array.Array
	output *array.Array
	factor float64
}

// NewAddScalarOp records output = x + s.
func NewAddScalarOp(x, output *array.Array) *ScalarOp {
	return &ScalarOp{input: x, output: output, factor: 1}
}

// NewSubScalarOp records output = x - s.
func NewSubScalarOp(x, output *array.Array) *ScalarOp {
	return &ScalarOp{input: x, output: output, factor: 1}
}

// NewMulScalarOp records output = x * s.
func NewMulScalarOp(x, output *array.Array, s float64) *ScalarOp {
	return &ScalarOp{input: x, output: output, factor: s}
}

// NewDivScalarOp records output = x / s.
func NewDivScalarOp(x, output *array.Array, s float64) *ScalarOp {
	return &ScalarOp{input: x, output: output, factor: 1 / s}
}

// NewNegOp records output = -x.
func NewNegOp(x, output *array.Array) *ScalarOp {
	return &ScalarOp{input: x, output: output, factor: -1}
}

// Backward scales the output gradient by the stored factor.
func (op *ScalarOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	return []*array.Array{b.MulScalar(outputGrad, op.factor)}
}

// Inputs returns [x].
func (op *ScalarOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns the operation result.
func (op *ScalarOp) Output() *array.Array { return op.output }
