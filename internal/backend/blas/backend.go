// Package blas implements the gonum-powered engine. Dense kernels ride on
// gonum/mat and gonum/floats; layout operations reuse the reference cpu
// kernels since they are engine-independent element moves.
package blas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/backend/cpu"
	"github.com/manifold-ml/manifold/internal/einsum"
)

// Backend is the gonum engine.
type Backend struct {
	fallback *cpu.Backend
}

// Compile-time check that the engine implements the full interface.
var _ array.Backend = (*Backend)(nil)

// New creates a new blas engine.
func New() *Backend {
	return &Backend{fallback: cpu.New()}
}

// Name returns the engine name.
func (be *Backend) Name() string {
	return "blas"
}

// align materializes both operands in the broadcast output shape as
// float64 slices, so the dense gonum kernels can run on them directly.
func align(name string, a, b *array.Array) ([]float64, []float64, array.Shape, array.DataType) {
	outShape, _, err := array.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	return expand(a, outShape), expand(b, outShape), outShape, array.Promote(a.DType(), b.DType())
}

// expand copies x into a float64 slice laid out in the broadcast shape.
func expand(x *array.Array, outShape array.Shape) []float64 {
	inShape := x.Shape()
	if inShape.Equal(outShape) {
		return x.Floats()
	}
	inStrides := inShape.ComputeStrides()
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)
	for d := range outShape {
		j := d - offset
		switch {
		case j < 0, inShape[j] == 1 && outShape[d] > 1:
			strides[d] = 0
		default:
			strides[d] = inStrides[j]
		}
	}
	outStrides := outShape.ComputeStrides()
	out := make([]float64, outShape.NumElements())
	for i := range out {
		src := 0
		rem := i
		for d, s := range outStrides {
			coord := rem / s
			rem %= s
			src += coord * strides[d]
		}
		out[i] = x.FloatAt(src)
	}
	return out
}

func fromFloats(data []float64, shape array.Shape, dtype array.DataType) *array.Array {
	result := array.MustNew(shape, dtype)
	for i, v := range data {
		result.SetFloat(i, v)
	}
	return result
}

// Add performs element-wise addition with broadcasting.
func (be *Backend) Add(a, b *array.Array) *array.Array {
	av, bv, shape, dtype := align("add", a, b)
	floats.Add(av, bv)
	return fromFloats(av, shape, dtype)
}

// Sub performs element-wise subtraction with broadcasting.
func (be *Backend) Sub(a, b *array.Array) *array.Array {
	av, bv, shape, dtype := align("sub", a, b)
	floats.Sub(av, bv)
	return fromFloats(av, shape, dtype)
}

// Mul performs element-wise multiplication with broadcasting.
func (be *Backend) Mul(a, b *array.Array) *array.Array {
	av, bv, shape, dtype := align("mul", a, b)
	floats.Mul(av, bv)
	return fromFloats(av, shape, dtype)
}

// Div performs element-wise division with broadcasting.
func (be *Backend) Div(a, b *array.Array) *array.Array {
	av, bv, shape, dtype := align("div", a, b)
	floats.Div(av, bv)
	return fromFloats(av, shape, dtype)
}

// AddScalar adds a host scalar to every element.
func (be *Backend) AddScalar(x *array.Array, s float64) *array.Array {
	data := x.Floats()
	floats.AddConst(s, data)
	return fromFloats(data, x.Shape(), x.DType())
}

// SubScalar subtracts a host scalar from every element.
func (be *Backend) SubScalar(x *array.Array, s float64) *array.Array {
	return be.AddScalar(x, -s)
}

// MulScalar multiplies every element by a host scalar.
func (be *Backend) MulScalar(x *array.Array, s float64) *array.Array {
	data := x.Floats()
	floats.Scale(s, data)
	return fromFloats(data, x.Shape(), x.DType())
}

// DivScalar divides every element by a host scalar.
func (be *Backend) DivScalar(x *array.Array, s float64) *array.Array {
	return be.MulScalar(x, 1/s)
}

func (be *Backend) mapUnary(x *array.Array, f func(float64) float64) *array.Array {
	data := x.Floats()
	for i, v := range data {
		data[i] = f(v)
	}
	return fromFloats(data, x.Shape(), x.DType())
}

// Exp computes the element-wise exponential.
func (be *Backend) Exp(x *array.Array) *array.Array { return be.mapUnary(x, math.Exp) }

// Log computes the element-wise natural logarithm.
func (be *Backend) Log(x *array.Array) *array.Array { return be.mapUnary(x, math.Log) }

// Sqrt computes the element-wise square root.
func (be *Backend) Sqrt(x *array.Array) *array.Array { return be.mapUnary(x, math.Sqrt) }

// Sin computes the element-wise sine.
func (be *Backend) Sin(x *array.Array) *array.Array { return be.mapUnary(x, math.Sin) }

// Cos computes the element-wise cosine.
func (be *Backend) Cos(x *array.Array) *array.Array { return be.mapUnary(x, math.Cos) }

// Acos computes the element-wise arccosine.
func (be *Backend) Acos(x *array.Array) *array.Array { return be.mapUnary(x, math.Acos) }

// Abs computes the element-wise absolute value.
func (be *Backend) Abs(x *array.Array) *array.Array { return be.mapUnary(x, math.Abs) }

// Neg negates every element.
func (be *Backend) Neg(x *array.Array) *array.Array {
	return be.MulScalar(x, -1)
}

// Clip limits every element to [lo, hi].
func (be *Backend) Clip(x *array.Array, lo, hi float64) *array.Array {
	return be.fallback.Clip(x, lo, hi)
}

// Sum reduces all elements to a scalar.
func (be *Backend) Sum(x *array.Array) *array.Array {
	result := array.MustNew(array.Shape{}, x.DType())
	result.SetFloat(0, floats.Sum(x.Floats()))
	return result
}

// Mean reduces all elements to their arithmetic mean.
func (be *Backend) Mean(x *array.Array) *array.Array {
	return be.DivScalar(be.Sum(x), float64(x.NumElements()))
}

// SumDim sums along one dimension.
func (be *Backend) SumDim(x *array.Array, dim int, keepDim bool) *array.Array {
	return be.fallback.SumDim(x, dim, keepDim)
}

// MatMul multiplies matrices, batched over broadcast leading dimensions.
// The 2-D case runs on gonum's BLAS kernels.
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
	if len(aShape) == 2 && len(bShape) == 2 {
		var c mat.Dense
		c.Mul(asDense(a), asDense(b))
		return fromFloats(c.RawMatrix().Data, array.Shape{aShape[0], bShape[1]}, array.Promote(a.DType(), b.DType()))
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
	if len(aShape) == 2 && len(bShape) == 1 {
		var c mat.VecDense
		c.MulVec(asDense(a), mat.NewVecDense(bShape[0], b.Floats()))
		return fromFloats(c.RawVector().Data, array.Shape{aShape[0]}, array.Promote(a.DType(), b.DType()))
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
	if len(aShape) == 1 && len(bShape) == 1 {
		result := array.MustNew(array.Shape{}, array.Promote(a.DType(), b.DType()))
		result.SetFloat(0, floats.Dot(a.Floats(), b.Floats()))
		return result
	}
	return be.Einsum("...i,...i->...", a, b)
}

// Cross computes the 3-D vector cross product.
func (be *Backend) Cross(a, b *array.Array) *array.Array {
	return be.fallback.Cross(a, b)
}

// Outer computes the outer product of two 1-D vectors.
func (be *Backend) Outer(a, b *array.Array) *array.Array {
	if len(a.Shape()) != 1 || len(b.Shape()) != 1 {
		panic(fmt.Sprintf("outer: operands must be 1-D, got %v and %v", a.Shape(), b.Shape()))
	}
	la, lb := a.Shape()[0], b.Shape()[0]
	var c mat.Dense
	c.Outer(1, mat.NewVecDense(la, a.Floats()), mat.NewVecDense(lb, b.Floats()))
	return fromFloats(c.RawMatrix().Data, array.Shape{la, lb}, array.Promote(a.DType(), b.DType()))
}

// Trace sums the main diagonal of the trailing two dimensions.
func (be *Backend) Trace(x *array.Array) *array.Array {
	shape := x.Shape()
	if len(shape) == 2 && shape[0] == shape[1] {
		result := array.MustNew(array.Shape{}, x.DType())
		result.SetFloat(0, mat.Trace(asDense(x)))
		return result
	}
	return be.fallback.Trace(x)
}

// Einsum evaluates an Einstein-summation expression via the shared
// evaluator; gonum has no einsum of its own.
func (be *Backend) Einsum(subscripts string, operands ...*array.Array) *array.Array {
	result, err := einsum.Einsum(subscripts, operands...)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Layout operations are engine-independent element moves; reuse the
// reference kernels.

// Reshape returns an array with the same elements and a new shape.
func (be *Backend) Reshape(x *array.Array, shape array.Shape) *array.Array {
	return be.fallback.Reshape(x, shape)
}

// Flatten returns the elements as a 1-D array.
func (be *Backend) Flatten(x *array.Array) *array.Array {
	return be.fallback.Flatten(x)
}

// Transpose permutes the dimensions of x.
func (be *Backend) Transpose(x *array.Array, axes ...int) *array.Array {
	return be.fallback.Transpose(x, axes...)
}

// Split divides x into n equal parts along the leading dimension.
func (be *Backend) Split(x *array.Array, n int) []*array.Array {
	return be.fallback.Split(x, n)
}

// Concat joins arrays along a dimension.
func (be *Backend) Concat(xs []*array.Array, dim int) *array.Array {
	return be.fallback.Concat(xs, dim)
}

// Tile repeats x along each dimension according to reps.
func (be *Backend) Tile(x *array.Array, reps []int) *array.Array {
	return be.fallback.Tile(x, reps)
}

// Pad zero-pads x with widths[d] = [before, after] per dimension.
func (be *Backend) Pad(x *array.Array, widths [][2]int) *array.Array {
	return be.fallback.Pad(x, widths)
}

// Take gathers slices of x at the given indices along axis.
func (be *Backend) Take(x *array.Array, indices []int, axis int) *array.Array {
	return be.fallback.Take(x, indices, axis)
}

// Cast converts x to another element type.
func (be *Backend) Cast(x *array.Array, dtype array.DataType) *array.Array {
	return be.fallback.Cast(x, dtype)
}

func asDense(x *array.Array) *mat.Dense {
	shape := x.Shape()
	return mat.NewDense(shape[0], shape[1], x.Floats())
}
