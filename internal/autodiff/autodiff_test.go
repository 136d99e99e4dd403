package autodiff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/backend/cpu"
)

func TestValueAndGradSquare(t *testing.T) {
	// f(x) = sum(x^2), df/dx = 2x
	f := func(b array.Backend, x *array.Array) *array.Array {
		return b.Sum(b.Mul(x, x))
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{1, 2, 3}, array.Shape{3})
	value, grad := vg(x)

	assert.InDelta(t, 14.0, value.Float(), 1e-12)
	assert.InDeltaSlice(t, []float64{2, 4, 6}, grad.Floats(), 1e-12)
}

func TestValueAndGradChain(t *testing.T) {
	// f(x) = sum(exp(2x)), df/dx = 2 exp(2x)
	f := func(b array.Backend, x *array.Array) *array.Array {
		return b.Sum(b.Exp(b.MulScalar(x, 2)))
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{0, 0.5, -1}, array.Shape{3})
	value, grad := vg(x)

	want := math.Exp(0) + math.Exp(1) + math.Exp(-2)
	assert.InDelta(t, want, value.Float(), 1e-12)
	g := grad.Floats()
	require.Len(t, g, 3)
	assert.InDelta(t, 2*math.Exp(0), g[0], 1e-12)
	assert.InDelta(t, 2*math.Exp(1), g[1], 1e-12)
	assert.InDelta(t, 2*math.Exp(-2), g[2], 1e-12)
}

func TestValueAndGradBroadcast(t *testing.T) {
	// Row vector broadcast against a matrix: gradient sums over rows.
	m := array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3})
	f := func(b array.Backend, x *array.Array) *array.Array {
		return b.Sum(b.Mul(m, x))
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{1, 1, 1}, array.Shape{3})
	_, grad := vg(x)

	require.True(t, grad.Shape().Equal(array.Shape{3}))
	assert.InDeltaSlice(t, []float64{5, 7, 9}, grad.Floats(), 1e-12)
}

func TestValueAndGradMatMul(t *testing.T) {
	// f(W) = sum(x @ W), df/dW = x^T @ ones
	x := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})
	f := func(b array.Backend, w *array.Array) *array.Array {
		return b.Sum(b.MatMul(x, w))
	}
	vg := ValueAndGrad(cpu.New(), f)

	w := array.MustFromSlice([]float64{1, 0, 0, 1}, array.Shape{2, 2})
	value, grad := vg(w)

	assert.InDelta(t, 10.0, value.Float(), 1e-12)
	// Column sums of x, repeated per output column.
	assert.InDeltaSlice(t, []float64{4, 4, 6, 6}, grad.Floats(), 1e-12)
}

func TestValueAndGradDot(t *testing.T) {
	y := array.MustFromSlice([]float64{2, -1, 3}, array.Shape{3})
	f := func(b array.Backend, x *array.Array) *array.Array {
		return b.Dot(x, y)
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{1, 1, 1}, array.Shape{3})
	value, grad := vg(x)

	assert.InDelta(t, 4.0, value.Float(), 1e-12)
	assert.InDeltaSlice(t, []float64{2, -1, 3}, grad.Floats(), 1e-12)
}

func TestValueAndGradClip(t *testing.T) {
	f := func(b array.Backend, x *array.Array) *array.Array {
		return b.Sum(b.Clip(x, -1, 1))
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{-2, 0.5, 3}, array.Shape{3})
	_, grad := vg(x)

	assert.InDeltaSlice(t, []float64{0, 1, 0}, grad.Floats(), 1e-12)
}

func TestValueAndGradUnusedParam(t *testing.T) {
	f := func(b array.Backend, x *array.Array) *array.Array {
		return array.FromValue(7)
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{1, 2}, array.Shape{2})
	value, grad := vg(x)

	assert.InDelta(t, 7.0, value.Float(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0}, grad.Floats(), 1e-12)
}

func TestValueAndGradReusedInput(t *testing.T) {
	// x appears in two branches, gradients must accumulate.
	f := func(b array.Backend, x *array.Array) *array.Array {
		return b.Sum(b.Add(b.Mul(x, x), b.MulScalar(x, 3)))
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{1, 2}, array.Shape{2})
	_, grad := vg(x)

	// d/dx (x^2 + 3x) = 2x + 3
	assert.InDeltaSlice(t, []float64{5, 7}, grad.Floats(), 1e-12)
}

func TestValueAndGradHost(t *testing.T) {
	f := func(b array.Backend, x *array.Array) *array.Array {
		return b.Sum(b.Mul(x, x))
	}
	vg := ValueAndGradHost(cpu.New(), f, array.Shape{2, 2})

	value, grad := vg([]float64{1, 2, 3, 4})

	assert.InDelta(t, 30.0, value, 1e-12)
	assert.InDeltaSlice(t, []float64{2, 4, 6, 8}, grad, 1e-12)
}

func TestTapeRecordingToggle(t *testing.T) {
	ad := New(cpu.New())
	x := array.MustFromSlice([]float64{1, 2}, array.Shape{2})

	ad.Mul(x, x)
	assert.Equal(t, 0, ad.Tape().NumOps(), "nothing should be recorded before StartRecording")

	ad.Tape().StartRecording()
	ad.Mul(x, x)
	assert.Equal(t, 1, ad.Tape().NumOps())

	ad.Tape().StopRecording()
	ad.Mul(x, x)
	assert.Equal(t, 1, ad.Tape().NumOps())
}

func TestSplitConcatRoundTripGradient(t *testing.T) {
	f := func(b array.Backend, x *array.Array) *array.Array {
		parts := b.Split(x, 2)
		// Weight the halves differently so the gradient shows the routing.
		top := b.MulScalar(parts[0], 2)
		return b.Sum(b.Concat([]*array.Array{top, parts[1]}, 0))
	}
	vg := ValueAndGrad(cpu.New(), f)

	x := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{4})
	_, grad := vg(x)

	assert.InDeltaSlice(t, []float64{2, 2, 1, 1}, grad.Floats(), 1e-12)
}
