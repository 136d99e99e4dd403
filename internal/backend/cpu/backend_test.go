package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifold-ml/manifold/internal/array"
)

func TestAddBroadcast(t *testing.T) {
	be := New()

	tests := []struct {
		name string
		a, b *array.Array
		want []float64
	}{
		{
			"same shape",
			array.MustFromSlice([]float64{1, 2}, array.Shape{2}),
			array.MustFromSlice([]float64{10, 20}, array.Shape{2}),
			[]float64{11, 22},
		},
		{
			"row against matrix",
			array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3}),
			array.MustFromSlice([]float64{10, 20, 30}, array.Shape{3}),
			[]float64{11, 22, 33, 14, 25, 36},
		},
		{
			"column against matrix",
			array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3}),
			array.MustFromSlice([]float64{100, 200}, array.Shape{2, 1}),
			[]float64{101, 102, 103, 204, 205, 206},
		},
		{
			"scalar against matrix",
			array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2}),
			array.FromValue(5),
			[]float64{6, 7, 8, 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := be.Add(tt.a, tt.b)
			assert.InDeltaSlice(t, tt.want, out.Floats(), 1e-12)
		})
	}
}

func TestBinaryShapeMismatchPanics(t *testing.T) {
	be := New()
	a := array.Ones(array.Shape{2, 3})
	b := array.Ones(array.Shape{2, 4})
	assert.Panics(t, func() { be.Add(a, b) })
	assert.Panics(t, func() { be.Mul(a, b) })
}

func TestScalarOps(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 2, 3}, array.Shape{3})

	assert.InDeltaSlice(t, []float64{3, 4, 5}, be.AddScalar(x, 2).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, be.SubScalar(x, 2).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{2, 4, 6}, be.MulScalar(x, 2).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1.5}, be.DivScalar(x, 2).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{-1, -2, -3}, be.Neg(x).Floats(), 1e-12)
}

func TestMathOps(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{0, 1}, array.Shape{2})

	assert.InDeltaSlice(t, []float64{1, math.E}, be.Exp(x).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, math.Sin(1)}, be.Sin(x).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{1, math.Cos(1)}, be.Cos(x).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{math.Pi / 2, 0}, be.Acos(x).Floats(), 1e-12)

	y := array.MustFromSlice([]float64{4, 9}, array.Shape{2})
	assert.InDeltaSlice(t, []float64{2, 3}, be.Sqrt(y).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{math.Log(4), math.Log(9)}, be.Log(y).Floats(), 1e-12)

	z := array.MustFromSlice([]float64{-2, 0.5, 3}, array.Shape{3})
	assert.InDeltaSlice(t, []float64{2, 0.5, 3}, be.Abs(z).Floats(), 1e-12)
	assert.InDeltaSlice(t, []float64{-1, 0.5, 1}, be.Clip(z, -1, 1).Floats(), 1e-12)
	assert.Panics(t, func() { be.Clip(z, 1, -1) })
}

func TestReductions(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3})

	assert.InDelta(t, 21, be.Sum(x).Float(), 1e-12)
	assert.InDelta(t, 3.5, be.Mean(x).Float(), 1e-12)

	rows := be.SumDim(x, 0, false)
	assert.True(t, rows.Shape().Equal(array.Shape{3}))
	assert.InDeltaSlice(t, []float64{5, 7, 9}, rows.Floats(), 1e-12)

	cols := be.SumDim(x, 1, true)
	assert.True(t, cols.Shape().Equal(array.Shape{2, 1}))
	assert.InDeltaSlice(t, []float64{6, 15}, cols.Floats(), 1e-12)

	neg := be.SumDim(x, -1, false)
	assert.InDeltaSlice(t, []float64{6, 15}, neg.Floats(), 1e-12)
}

func TestMatMul(t *testing.T) {
	be := New()
	a := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})
	b := array.MustFromSlice([]float64{5, 6, 7, 8}, array.Shape{2, 2})

	out := be.MatMul(a, b)
	assert.InDeltaSlice(t, []float64{19, 22, 43, 50}, out.Floats(), 1e-12)
}

func TestMatMulInnerDimMismatchPanics(t *testing.T) {
	be := New()
	a := array.Ones(array.Shape{2, 3})
	b := array.Ones(array.Shape{4, 2})
	assert.Panics(t, func() { be.MatMul(a, b) })
}

func TestMatvec(t *testing.T) {
	be := New()
	m := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})
	v := array.MustFromSlice([]float64{1, 1}, array.Shape{2})

	assert.InDeltaSlice(t, []float64{3, 7}, be.Matvec(m, v).Floats(), 1e-12)
}

func TestDot(t *testing.T) {
	be := New()
	a := array.MustFromSlice([]float64{1, 2, 3}, array.Shape{3})
	b := array.MustFromSlice([]float64{4, 5, 6}, array.Shape{3})

	assert.InDelta(t, 32, be.Dot(a, b).Float(), 1e-12)

	batched := be.Dot(array.Ones(array.Shape{2, 2}), array.Ones(array.Shape{2, 2}))
	assert.True(t, batched.Shape().Equal(array.Shape{2}))
	assert.InDeltaSlice(t, []float64{2, 2}, batched.Floats(), 1e-12)

	assert.Panics(t, func() {
		be.Dot(array.Ones(array.Shape{3}), array.Ones(array.Shape{4}))
	})
}

func TestCross(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 0, 0}, array.Shape{3})
	y := array.MustFromSlice([]float64{0, 1, 0}, array.Shape{3})

	assert.InDeltaSlice(t, []float64{0, 0, 1}, be.Cross(x, y).Floats(), 1e-12)

	assert.Panics(t, func() {
		be.Cross(array.Ones(array.Shape{4}), array.Ones(array.Shape{4}))
	})
}

func TestOuterAndTrace(t *testing.T) {
	be := New()
	a := array.MustFromSlice([]float64{1, 2}, array.Shape{2})
	b := array.MustFromSlice([]float64{3, 4}, array.Shape{2})

	assert.InDeltaSlice(t, []float64{3, 4, 6, 8}, be.Outer(a, b).Floats(), 1e-12)

	m := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})
	assert.InDelta(t, 5, be.Trace(m).Float(), 1e-12)
}

func TestEinsumDelegation(t *testing.T) {
	be := New()
	a := array.Ones(array.Shape{2, 2})

	out := be.Einsum("ij->ji", a)
	assert.True(t, out.Shape().Equal(array.Shape{2, 2}))

	assert.Panics(t, func() { be.Einsum("ij,jk", a, a) })
}

func TestManipulation(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3})

	r := be.Reshape(x, array.Shape{3, 2})
	assert.True(t, r.Shape().Equal(array.Shape{3, 2}))
	assert.Equal(t, x.Floats(), r.Floats())

	f := be.Flatten(x)
	assert.True(t, f.Shape().Equal(array.Shape{6}))

	tr := be.Transpose(x)
	assert.True(t, tr.Shape().Equal(array.Shape{3, 2}))
	assert.InDeltaSlice(t, []float64{1, 4, 2, 5, 3, 6}, tr.Floats(), 1e-12)

	parts := be.Split(x, 2)
	require.Len(t, parts, 2)
	assert.True(t, parts[0].Shape().Equal(array.Shape{1, 3}))
	assert.InDeltaSlice(t, []float64{4, 5, 6}, parts[1].Floats(), 1e-12)

	joined := be.Concat(parts, 0)
	assert.Equal(t, x.Floats(), joined.Floats())
}

func TestTile(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 2}, array.Shape{2})

	out := be.Tile(x, []int{3})
	assert.True(t, out.Shape().Equal(array.Shape{6}))
	assert.InDeltaSlice(t, []float64{1, 2, 1, 2, 1, 2}, out.Floats(), 1e-12)
}

func TestPad(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})

	out := be.Pad(x, [][2]int{{1, 1}, {1, 1}})
	assert.True(t, out.Shape().Equal(array.Shape{4, 4}))
	want := []float64{
		0, 0, 0, 0,
		0, 1, 2, 0,
		0, 3, 4, 0,
		0, 0, 0, 0,
	}
	assert.InDeltaSlice(t, want, out.Floats(), 1e-12)
}

func TestTake(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{3, 2})

	out := be.Take(x, []int{2, 0}, 0)
	assert.True(t, out.Shape().Equal(array.Shape{2, 2}))
	assert.InDeltaSlice(t, []float64{5, 6, 1, 2}, out.Floats(), 1e-12)

	cols := be.Take(x, []int{1}, 1)
	assert.True(t, cols.Shape().Equal(array.Shape{3, 1}))
	assert.InDeltaSlice(t, []float64{2, 4, 6}, cols.Floats(), 1e-12)

	assert.Panics(t, func() { be.Take(x, []int{5}, 0) })
}

func TestCast(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1.5, 2.5}, array.Shape{2})

	out := be.Cast(x, array.Float32)
	assert.Equal(t, array.Float32, out.DType())
	assert.InDeltaSlice(t, []float64{1.5, 2.5}, out.Floats(), 1e-6)
}

func TestCholesky(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{4, 2, 2, 5}, array.Shape{2, 2})

	l := be.Cholesky(x)
	assert.InDeltaSlice(t, []float64{2, 0, 1, 2}, l.Floats(), 1e-12)

	notPD := array.MustFromSlice([]float64{1, 2, 2, 1}, array.Shape{2, 2})
	assert.Panics(t, func() { be.Cholesky(notPD) })
}

func TestEigvalsh(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{2, 1, 1, 2}, array.Shape{2, 2})

	eigs := be.Eigvalsh(x)
	assert.InDeltaSlice(t, []float64{1, 3}, eigs.Floats(), 1e-9)
}

func TestExpmDiagonal(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{1, 0, 0, 2}, array.Shape{2, 2})

	out := be.Expm(x)
	assert.InDeltaSlice(t, []float64{math.E, 0, 0, math.Exp(2)}, out.Floats(), 1e-9)
}

func TestLogmDiagonal(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{
		2, 0, 0,
		0, 3, 0,
		0, 0, 4,
	}, array.Shape{3, 3})

	out := be.Logm(x)
	want := []float64{
		math.Log(2), 0, 0,
		0, math.Log(3), 0,
		0, 0, math.Log(4),
	}
	assert.InDeltaSlice(t, want, out.Floats(), 1e-9)
}

func TestExpmLogmRoundTrip(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{
		0.5, 0.1,
		0.1, 0.3,
	}, array.Shape{2, 2})

	back := be.Logm(be.Expm(x))
	assert.InDeltaSlice(t, x.Floats(), back.Floats(), 1e-8)
}
