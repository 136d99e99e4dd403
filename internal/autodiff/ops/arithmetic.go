package ops

import "github.com/manifold-ml/manifold/internal/array"

// AddOp is element-wise addition: output = a + b.
type AddOp struct {
	inputs []*array.Array
	output *array.Array
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *array.Array) *AddOp {
	return &AddOp{inputs: []*array.Array{a, b}, output: output}
}

// Backward computes input gradients for addition.
func (op *AddOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	return []*array.Array{
		reduceBroadcast(outputGrad, op.inputs[0].Shape(), b),
		reduceBroadcast(outputGrad, op.inputs[1].Shape(), b),
	}
}

// Inputs returns [a, b].
func (op *AddOp) Inputs() []*array.Array { return op.inputs }

// Output returns a + b.
func (op *AddOp) Output() *array.Array { return op.output }

// SubOp is element-wise subtraction: output = a - b.
type SubOp struct {
	inputs []*array.Array
	output *array.Array
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *array.Array) *SubOp {
	return &SubOp{inputs: []*array.Array{a, b}, output: output}
}

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	return []*array.Array{
		reduceBroadcast(outputGrad, op.inputs[0].Shape(), b),
		reduceBroadcast(b.Neg(outputGrad), op.inputs[1].Shape(), b),
	}
}

// Inputs returns [a, b].
func (op *SubOp) Inputs() []*array.Array { return op.inputs }

// Output returns a - b.
func (op *SubOp) Output() *array.Array { return op.output }

// MulOp is element-wise multiplication: output = a * b.
//
// d(a*b)/da = b and d(a*b)/db = a.
type MulOp struct {
	inputs []*array.Array
	output *array.Array
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *array.Array) *MulOp {
	return &MulOp{inputs: []*array.Array{a, b}, output: output}
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *array.Array, be array.Backend) []*array.Array {
	a, b := op.inputs[0], op.inputs[1]
	return []*array.Array{
		reduceBroadcast(be.Mul(outputGrad, b), a.Shape(), be),
		reduceBroadcast(be.Mul(outputGrad, a), b.Shape(), be),
	}
}

// Inputs returns [a, b].
func (op *MulOp) Inputs() []*array.Array { return op.inputs }

// Output returns a * b.
func (op *MulOp) Output() *array.Array { return op.output }

// DivOp is element-wise division: output = a / b.
//
// d(a/b)/da = 1/b and d(a/b)/db = -a/b².
type DivOp struct {
	inputs []*array.Array
	output *array.Array
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *array.Array) *DivOp {
	return &DivOp{inputs: []*array.Array{a, b}, output: output}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *array.Array, be array.Backend) []*array.Array {
	a, b := op.inputs[0], op.inputs[1]
	gradA := be.Div(outputGrad, b)
	gradB := be.Neg(be.Div(be.Mul(outputGrad, a), be.Mul(b, b)))
	return []*array.Array{
		reduceBroadcast(gradA, a.Shape(), be),
		reduceBroadcast(gradB, b.Shape(), be),
	}
}

// Inputs returns [a, b].
func (op *DivOp) Inputs() []*array.Array { return op.inputs }

// Output returns a / b.
func (op *DivOp) Output() *array.Array { return op.output }
