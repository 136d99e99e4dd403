package ops

import (
	"math"

	"github.com/manifold-ml/manifold/internal/array"
)

// unaryOp is the shared node for element-wise math functions. backward maps
// (input value, output value) to the local derivative.
type unaryOp struct {
	input    *array.Array
	output   *array.Array
	backward func(x, y float64) float64
}

// Backward multiplies the output gradient by the local derivative,
// element by element.
func (op *unaryOp) Backward(outputGrad *array.Array, b array.Backend) []*array.Array {
	grad := array.MustNew(op.input.Shape(), op.input.DType())
	n := grad.NumElements()
	for i := 0; i < n; i++ {
		d := op.backward(op.input.FloatAt(i), op.output.FloatAt(i))
		grad.SetFloat(i, outputGrad.FloatAt(i)*d)
	}
	return []*array.Array{grad}
}

// Inputs returns [x].
func (op *unaryOp) Inputs() []*array.Array { return []*array.Array{op.input} }

// Output returns f(x).
func (op *unaryOp) Output() *array.Array { return op.output }

// NewExpOp records output = exp(x). d/dx = exp(x) = output.
func NewExpOp(x, output *array.Array) Operation {
	return &unaryOp{input: x, output: output, backward: func(_, y float64) float64 { return y }}
}

// NewLogOp records output = log(x). d/dx = 1/x.
func NewLogOp(x, output *array.Array) Operation {
	return &unaryOp{input: x, output: output, backward: func(x, _ float64) float64 { return 1 / x }}
}

// NewSqrtOp records output = sqrt(x). d/dx = 1/(2·sqrt(x)).
func NewSqrtOp(x, output *array.Array) Operation {
	return &unaryOp{input: x, output: output, backward: func(_, y float64) float64 { return 1 / (2 * y) }}
}

// NewSinOp records output = sin(x). d/dx = cos(x).
func NewSinOp(x, output *array.Array) Operation {
	return &unaryOp{input: x, output: output, backward: func(x, _ float64) float64 { return math.Cos(x) }}
}

// NewCosOp records output = cos(x). d/dx = -sin(x).
func NewCosOp(x, output *array.Array) Operation {
	return &unaryOp{input: x, output: output, backward: func(x, _ float64) float64 { return -math.Sin(x) }}
}

// NewAcosOp records output = acos(x). d/dx = -1/sqrt(1-x²).
func NewAcosOp(x, output *array.Array) Operation {
	return &unaryOp{input: x, output: output, backward: func(x, _ float64) float64 {
		return -1 / math.Sqrt(1-x*x)
	}}
}

// NewAbsOp records output = |x|. d/dx = sign(x), 0 at the origin.
func NewAbsOp(x, output *array.Array) Operation {
	return &unaryOp{input: x, output: output, backward: func(x, _ float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	}}
}

// NewClipOp records output = clip(x, lo, hi). The gradient passes through
// where the value was not clamped.
func NewClipOp(x, output *array.Array, lo, hi float64) Operation {
	return &unaryOp{input: x, output: output, backward: func(x, _ float64) float64 {
		if x < lo || x > hi {
			return 0
		}
		return 1
	}}
}
