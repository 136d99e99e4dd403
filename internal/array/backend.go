package array

// Backend is the engine interface: one implementation per numerical engine,
// selected once at startup. All geometric code is polymorphic over this
// interface; the autodiff decorator wraps any Backend to add gradient
// recording.
//
// Contracts every engine must honor:
//   - identical output shape for identical input shapes, values equal
//     within floating tolerance across engines;
//   - operations requiring compatible inner dimensions (MatMul, Matvec,
//     Dot, Cross) validate shapes explicitly and panic with a
//     shape-mismatch message, never compute on mismatched operands.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *Array) *Array
	Sub(a, b *Array) *Array
	Mul(a, b *Array) *Array
	Div(a, b *Array) *Array

	// Element-wise operations with a host scalar.
	AddScalar(x *Array, s float64) *Array
	SubScalar(x *Array, s float64) *Array
	MulScalar(x *Array, s float64) *Array
	DivScalar(x *Array, s float64) *Array

	// Element-wise math.
	Exp(x *Array) *Array
	Log(x *Array) *Array
	Sqrt(x *Array) *Array
	Sin(x *Array) *Array
	Cos(x *Array) *Array
	Acos(x *Array) *Array
	Abs(x *Array) *Array
	Neg(x *Array) *Array
	Clip(x *Array, lo, hi float64) *Array

	// Reductions.
	Sum(x *Array) *Array
	SumDim(x *Array, dim int, keepDim bool) *Array
	Mean(x *Array) *Array

	// Linear algebra. MatMul supports batched operands with broadcast
	// batch dimensions.
	MatMul(a, b *Array) *Array
	Matvec(a, b *Array) *Array
	Dot(a, b *Array) *Array
	Cross(a, b *Array) *Array
	Outer(a, b *Array) *Array
	Trace(x *Array) *Array
	Einsum(subscripts string, operands ...*Array) *Array

	// Structural operations.
	Reshape(x *Array, shape Shape) *Array
	Flatten(x *Array) *Array
	Transpose(x *Array, axes ...int) *Array
	Split(x *Array, n int) []*Array
	Concat(xs []*Array, dim int) *Array
	Tile(x *Array, reps []int) *Array
	Pad(x *Array, widths [][2]int) *Array
	Take(x *Array, indices []int, axis int) *Array
	Cast(x *Array, dtype DataType) *Array

	Linalg

	// Name identifies the engine (e.g. "cpu", "blas").
	Name() string
}

// Linalg groups the matrix-function surface of an engine. Expm and Logm are
// defined for matrices whose eigenvalues avoid the negative real axis,
// which covers the SPD and rotation inputs the geometry layer produces.
type Linalg interface {
	Cholesky(x *Array) *Array
	Eigvalsh(x *Array) *Array
	Expm(x *Array) *Array
	Logm(x *Array) *Array
}
