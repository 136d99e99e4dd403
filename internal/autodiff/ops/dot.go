package ops

import "github.com/manifold-ml/manifold/internal/array"

// DotOp is the inner product over the last dimension: output = sum(a*b, -1).
type DotOp struct {
	inputs []*array.Array
	output *array.Array
}

// NewDotOp creates a new DotOp.
func NewDotOp(a, b, output *array.Array) *DotOp {
	return &DotOp{inputs: []*array.Array{a, b}, output: output}
}

// Backward expands the output gradient along the contracted dimension and
// multiplies with the opposite operand.
func (op *DotOp) Backward(outputGrad *array.Array, be array.Backend) []*array.Array {
	a, b := op.inputs[0], op.inputs[1]

	// Reinsert the contracted dimension so broadcasting lines the gradient
	// up against each operand.
	expanded := outputGrad.Shape().Clone()
	expanded = append(expanded, 1)
	g := be.Reshape(outputGrad, expanded)

	return []*array.Array{
		reduceBroadcast(be.Mul(g, b), a.Shape(), be),
		reduceBroadcast(be.Mul(g, a), b.Shape(), be),
	}
}

// Inputs returns [a, b].
func (op *DotOp) Inputs() []*array.Array { return op.inputs }

// Output returns the inner product.
func (op *DotOp) Output() *array.Array { return op.output }
