package blas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/backend/cpu"
)

// Both engines must agree on shape and value for identical inputs; the
// pure-Go engine is the reference.
func TestParityWithReferenceEngine(t *testing.T) {
	ref := cpu.New()
	be := New()

	a := array.MustFromSlice([]float64{1, -2, 3, 4, 0.5, -6}, array.Shape{2, 3})
	b := array.MustFromSlice([]float64{2, 2, 2}, array.Shape{3})
	pos := array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3})

	tests := []struct {
		name string
		want *array.Array
		got  *array.Array
	}{
		{"add broadcast", ref.Add(a, b), be.Add(a, b)},
		{"sub broadcast", ref.Sub(a, b), be.Sub(a, b)},
		{"mul broadcast", ref.Mul(a, b), be.Mul(a, b)},
		{"div broadcast", ref.Div(a, b), be.Div(a, b)},
		{"add scalar", ref.AddScalar(a, 3), be.AddScalar(a, 3)},
		{"mul scalar", ref.MulScalar(a, -2), be.MulScalar(a, -2)},
		{"exp", ref.Exp(a), be.Exp(a)},
		{"log", ref.Log(pos), be.Log(pos)},
		{"sqrt", ref.Sqrt(pos), be.Sqrt(pos)},
		{"abs", ref.Abs(a), be.Abs(a)},
		{"neg", ref.Neg(a), be.Neg(a)},
		{"clip", ref.Clip(a, -1, 1), be.Clip(a, -1, 1)},
		{"sum", ref.Sum(a), be.Sum(a)},
		{"mean", ref.Mean(a), be.Mean(a)},
		{"sumdim", ref.SumDim(a, 1, false), be.SumDim(a, 1, false)},
		{"transpose", ref.Transpose(a), be.Transpose(a)},
		{"reshape", ref.Reshape(a, array.Shape{3, 2}), be.Reshape(a, array.Shape{3, 2})},
		{"tile", ref.Tile(b, []int{2}), be.Tile(b, []int{2})},
		{"pad", ref.Pad(a, [][2]int{{0, 1}, {1, 0}}), be.Pad(a, [][2]int{{0, 1}, {1, 0}})},
		{"take", ref.Take(a, []int{1, 0}, 0), be.Take(a, []int{1, 0}, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.got.Shape().Equal(tt.want.Shape()),
				"shape %v != %v", tt.got.Shape(), tt.want.Shape())
			assert.InDeltaSlice(t, tt.want.Floats(), tt.got.Floats(), 1e-12)
		})
	}
}

func TestMatMulParity(t *testing.T) {
	ref := cpu.New()
	be := New()

	a := array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3})
	b := array.MustFromSlice([]float64{7, 8, 9, 10, 11, 12}, array.Shape{3, 2})

	want := ref.MatMul(a, b)
	got := be.MatMul(a, b)
	require.True(t, got.Shape().Equal(want.Shape()))
	assert.InDeltaSlice(t, want.Floats(), got.Floats(), 1e-12)
}

func TestMatvecDotOuterTraceParity(t *testing.T) {
	ref := cpu.New()
	be := New()

	m := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})
	v := array.MustFromSlice([]float64{5, 6}, array.Shape{2})

	assert.InDeltaSlice(t, ref.Matvec(m, v).Floats(), be.Matvec(m, v).Floats(), 1e-12)
	assert.InDelta(t, ref.Dot(v, v).Float(), be.Dot(v, v).Float(), 1e-12)
	assert.InDeltaSlice(t, ref.Outer(v, v).Floats(), be.Outer(v, v).Floats(), 1e-12)
	assert.InDelta(t, ref.Trace(m).Float(), be.Trace(m).Float(), 1e-12)
}

func TestEinsumParity(t *testing.T) {
	ref := cpu.New()
	be := New()

	a := array.Ones(array.Shape{2, 2})
	b := array.Ones(array.Shape{2, 2})

	want := ref.Einsum("...i,...i->...", a, b)
	got := be.Einsum("...i,...i->...", a, b)
	require.True(t, got.Shape().Equal(want.Shape()))
	assert.InDeltaSlice(t, want.Floats(), got.Floats(), 1e-12)
}

func TestCholesky(t *testing.T) {
	be := New()
	x := array.MustFromSlice([]float64{4, 2, 2, 5}, array.Shape{2, 2})

	l := be.Cholesky(x)
	assert.InDeltaSlice(t, []float64{2, 0, 1, 2}, l.Floats(), 1e-12)

	notPD := array.MustFromSlice([]float64{1, 2, 2, 1}, array.Shape{2, 2})
	assert.Panics(t, func() { be.Cholesky(notPD) })
}

func TestEigvalshParity(t *testing.T) {
	ref := cpu.New()
	be := New()

	x := array.MustFromSlice([]float64{2, 1, 0, 1, 3, 1, 0, 1, 2}, array.Shape{3, 3})
	assert.InDeltaSlice(t, ref.Eigvalsh(x).Floats(), be.Eigvalsh(x).Floats(), 1e-9)
}

func TestExpmLogmSymmetric(t *testing.T) {
	ref := cpu.New()
	be := New()

	x := array.MustFromSlice([]float64{0.5, 0.1, 0.1, 0.3}, array.Shape{2, 2})

	assert.InDeltaSlice(t, ref.Expm(x).Floats(), be.Expm(x).Floats(), 1e-9)

	spd := be.Expm(x)
	assert.InDeltaSlice(t, x.Floats(), be.Logm(spd).Floats(), 1e-9)
}

func TestExpmNonSymmetricFallsBack(t *testing.T) {
	ref := cpu.New()
	be := New()

	x := array.MustFromSlice([]float64{0, 1, 0, 0}, array.Shape{2, 2})
	assert.InDeltaSlice(t, ref.Expm(x).Floats(), be.Expm(x).Floats(), 1e-9)
}

func TestName(t *testing.T) {
	assert.Equal(t, "blas", New().Name())
	assert.Equal(t, "cpu", cpu.New().Name())
}
