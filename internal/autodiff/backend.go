package autodiff

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/autodiff/ops"
)

// Backend wraps another backend and records the differentiable operations
// it executes on a gradient tape. Structural and linear-algebra operations
// without a recorded adjoint (Einsum, Tile, Pad, Cast, the matrix
// factorizations) pass straight through.
type Backend[B array.Backend] struct {
	inner B
	tape  *GradientTape
}

// Compile-time check that the decorator implements the full interface.
var _ array.Backend = (*Backend[array.Backend])(nil)

// New creates an autodiff decorator around the given backend.
func New[B array.Backend](inner B) *Backend[B] {
	return &Backend[B]{inner: inner, tape: NewGradientTape()}
}

// Inner returns the wrapped backend.
func (b *Backend[B]) Inner() B { return b.inner }

// Tape returns the gradient tape.
func (b *Backend[B]) Tape() *GradientTape { return b.tape }

// Name identifies the decorated backend.
func (b *Backend[B]) Name() string { return "autodiff(" + b.inner.Name() + ")" }

// Add computes a + b with broadcasting.
func (b *Backend[B]) Add(x, y *array.Array) *array.Array {
	out := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, out))
	return out
}

// Sub computes a - b with broadcasting.
func (b *Backend[B]) Sub(x, y *array.Array) *array.Array {
	out := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, out))
	return out
}

// Mul computes a * b element-wise with broadcasting.
func (b *Backend[B]) Mul(x, y *array.Array) *array.Array {
	out := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, out))
	return out
}

// Div computes a / b element-wise with broadcasting.
func (b *Backend[B]) Div(x, y *array.Array) *array.Array {
	out := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, out))
	return out
}

// AddScalar computes x + s.
func (b *Backend[B]) AddScalar(x *array.Array, s float64) *array.Array {
	out := b.inner.AddScalar(x, s)
	b.tape.Record(ops.NewAddScalarOp(x, out))
	return out
}

// SubScalar computes x - s.
func (b *Backend[B]) SubScalar(x *array.Array, s float64) *array.Array {
	out := b.inner.SubScalar(x, s)
	b.tape.Record(ops.NewSubScalarOp(x, out))
	return out
}

// MulScalar computes x * s.
func (b *Backend[B]) MulScalar(x *array.Array, s float64) *array.Array {
	out := b.inner.MulScalar(x, s)
	b.tape.Record(ops.NewMulScalarOp(x, out, s))
	return out
}

// DivScalar computes x / s.
func (b *Backend[B]) DivScalar(x *array.Array, s float64) *array.Array {
	out := b.inner.DivScalar(x, s)
	b.tape.Record(ops.NewDivScalarOp(x, out, s))
	return out
}

// Neg computes -x.
func (b *Backend[B]) Neg(x *array.Array) *array.Array {
	out := b.inner.Neg(x)
	b.tape.Record(ops.NewNegOp(x, out))
	return out
}

// Exp computes e^x element-wise.
func (b *Backend[B]) Exp(x *array.Array) *array.Array {
	out := b.inner.Exp(x)
	b.tape.Record(ops.NewExpOp(x, out))
	return out
}

// Log computes the natural logarithm element-wise.
func (b *Backend[B]) Log(x *array.Array) *array.Array {
	out := b.inner.Log(x)
	b.tape.Record(ops.NewLogOp(x, out))
	return out
}

// Sqrt computes the square root element-wise.
func (b *Backend[B]) Sqrt(x *array.Array) *array.Array {
	out := b.inner.Sqrt(x)
	b.tape.Record(ops.NewSqrtOp(x, out))
	return out
}

// Sin computes the sine element-wise.
func (b *Backend[B]) Sin(x *array.Array) *array.Array {
	out := b.inner.Sin(x)
	b.tape.Record(ops.NewSinOp(x, out))
	return out
}

// Cos computes the cosine element-wise.
func (b *Backend[B]) Cos(x *array.Array) *array.Array {
	out := b.inner.Cos(x)
	b.tape.Record(ops.NewCosOp(x, out))
	return out
}

// Acos computes the arccosine element-wise.
func (b *Backend[B]) Acos(x *array.Array) *array.Array {
	out := b.inner.Acos(x)
	b.tape.Record(ops.NewAcosOp(x, out))
	return out
}

// Abs computes the absolute value element-wise.
func (b *Backend[B]) Abs(x *array.Array) *array.Array {
	out := b.inner.Abs(x)
	b.tape.Record(ops.NewAbsOp(x, out))
	return out
}

// Clip clamps values into [lo, hi].
func (b *Backend[B]) Clip(x *array.Array, lo, hi float64) *array.Array {
	out := b.inner.Clip(x, lo, hi)
	b.tape.Record(ops.NewClipOp(x, out, lo, hi))
	return out
}

// Sum reduces to the scalar total.
func (b *Backend[B]) Sum(x *array.Array) *array.Array {
	out := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, out))
	return out
}

// SumDim reduces along one dimension.
func (b *Backend[B]) SumDim(x *array.Array, dim int, keepDim bool) *array.Array {
	out := b.inner.SumDim(x, dim, keepDim)
	if dim < 0 {
		dim += len(x.Shape())
	}
	b.tape.Record(ops.NewSumDimOp(x, out, dim, keepDim))
	return out
}

// Mean reduces to the scalar mean.
func (b *Backend[B]) Mean(x *array.Array) *array.Array {
	out := b.inner.Mean(x)
	b.tape.Record(ops.NewMeanOp(x, out))
	return out
}

// MatMul computes batched matrix multiplication.
func (b *Backend[B]) MatMul(x, y *array.Array) *array.Array {
	out := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, out))
	return out
}

// Reshape returns x with a new shape.
func (b *Backend[B]) Reshape(x *array.Array, shape array.Shape) *array.Array {
	out := b.inner.Reshape(x, shape)
	b.tape.Record(ops.NewReshapeOp(x, out))
	return out
}

// Flatten returns x as a 1-D array.
func (b *Backend[B]) Flatten(x *array.Array) *array.Array {
	out := b.inner.Flatten(x)
	b.tape.Record(ops.NewReshapeOp(x, out))
	return out
}

// Transpose permutes the dimensions of x.
func (b *Backend[B]) Transpose(x *array.Array, axes ...int) *array.Array {
	out := b.inner.Transpose(x, axes...)
	if len(axes) == 0 {
		rank := len(x.Shape())
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	b.tape.Record(ops.NewTransposeOp(x, out, axes))
	return out
}

// Split divides x into n equal parts along dimension 0.
func (b *Backend[B]) Split(x *array.Array, n int) []*array.Array {
	outs := b.inner.Split(x, n)
	b.tape.Record(ops.NewSplitOp(x, outs))
	return outs
}

// Concat joins arrays along one dimension.
func (b *Backend[B]) Concat(xs []*array.Array, dim int) *array.Array {
	out := b.inner.Concat(xs, dim)
	if dim < 0 {
		dim += len(xs[0].Shape())
	}
	b.tape.Record(ops.NewConcatOp(xs, out, dim))
	return out
}

// Dot computes the inner product over the last dimension.
func (b *Backend[B]) Dot(x, y *array.Array) *array.Array {
	out := b.inner.Dot(x, y)
	b.tape.Record(ops.NewDotOp(x, y, out))
	return out
}

// Matvec, Cross, Outer, Trace, Einsum and the remaining operations are
// forwarded without recording. Differentiable code paths express them
// through the recorded primitives instead.

// Matvec computes batched matrix-vector products.
func (b *Backend[B]) Matvec(x, y *array.Array) *array.Array { return b.inner.Matvec(x, y) }

// Cross computes the 3-D cross product.
func (b *Backend[B]) Cross(x, y *array.Array) *array.Array { return b.inner.Cross(x, y) }

// Outer computes the outer product of two vectors.
func (b *Backend[B]) Outer(x, y *array.Array) *array.Array { return b.inner.Outer(x, y) }

// Trace sums the matrix diagonal.
func (b *Backend[B]) Trace(x *array.Array) *array.Array { return b.inner.Trace(x) }

// Einsum evaluates an Einstein-summation expression.
func (b *Backend[B]) Einsum(subscripts string, operands ...*array.Array) *array.Array {
	return b.inner.Einsum(subscripts, operands...)
}

// Tile repeats x along each dimension.
func (b *Backend[B]) Tile(x *array.Array, reps []int) *array.Array { return b.inner.Tile(x, reps) }

// Pad zero-pads x.
func (b *Backend[B]) Pad(x *array.Array, widths [][2]int) *array.Array {
	return b.inner.Pad(x, widths)
}

// Take gathers slices along an axis.
func (b *Backend[B]) Take(x *array.Array, indices []int, axis int) *array.Array {
	return b.inner.Take(x, indices, axis)
}

// Cast converts x to another data type.
func (b *Backend[B]) Cast(x *array.Array, dtype array.DataType) *array.Array {
	return b.inner.Cast(x, dtype)
}

// Cholesky computes the lower Cholesky factor.
func (b *Backend[B]) Cholesky(x *array.Array) *array.Array { return b.inner.Cholesky(x) }

// Eigvalsh computes eigenvalues of a symmetric matrix.
func (b *Backend[B]) Eigvalsh(x *array.Array) *array.Array { return b.inner.Eigvalsh(x) }

// Expm computes the matrix exponential.
func (b *Backend[B]) Expm(x *array.Array) *array.Array { return b.inner.Expm(x) }

// Logm computes the matrix logarithm.
func (b *Backend[B]) Logm(x *array.Array) *array.Array { return b.inner.Logm(x) }
