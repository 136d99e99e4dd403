package einsum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifold-ml/manifold/internal/array"
)

func TestEinsumMatMul(t *testing.T) {
	a := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})
	b := array.MustFromSlice([]float64{5, 6, 7, 8}, array.Shape{2, 2})

	out, err := Einsum("ij,jk->ik", a, b)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(array.Shape{2, 2}))
	assert.InDeltaSlice(t, []float64{19, 22, 43, 50}, out.Floats(), 1e-12)
}

func TestEinsumBatchedInnerProduct(t *testing.T) {
	a := array.Ones(array.Shape{2, 2})
	b := array.Ones(array.Shape{2, 2})

	out, err := Einsum("...i,...i->...", a, b)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(array.Shape{2}))
	assert.InDeltaSlice(t, []float64{2, 2}, out.Floats(), 1e-12)
}

func TestEinsumOuter(t *testing.T) {
	a := array.MustFromSlice([]float64{1, 2}, array.Shape{2})
	b := array.MustFromSlice([]float64{3, 4, 5}, array.Shape{3})

	out, err := Einsum("i,j->ij", a, b)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(array.Shape{2, 3}))
	assert.InDeltaSlice(t, []float64{3, 4, 5, 6, 8, 10}, out.Floats(), 1e-12)
}

func TestEinsumTrace(t *testing.T) {
	a := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})

	out, err := Einsum("ii->", a)
	require.NoError(t, err)
	assert.True(t, out.Shape().IsScalar())
	assert.InDelta(t, 5, out.Float(), 1e-12)
}

func TestEinsumTransposeOutput(t *testing.T) {
	a := array.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, array.Shape{2, 3})

	out, err := Einsum("ij->ji", a)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(array.Shape{3, 2}))
	assert.InDeltaSlice(t, []float64{1, 4, 2, 5, 3, 6}, out.Floats(), 1e-12)
}

func TestEinsumBatchedMatMulBroadcast(t *testing.T) {
	// One batched operand against one unbatched.
	a := array.MustFromSlice([]float64{
		1, 0, 0, 1, // identity
		2, 0, 0, 2, // double
	}, array.Shape{2, 2, 2})
	b := array.MustFromSlice([]float64{1, 2, 3, 4}, array.Shape{2, 2})

	out, err := Einsum("...ij,...jk->...ik", a, b)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(array.Shape{2, 2, 2}))
	assert.InDeltaSlice(t, []float64{1, 2, 3, 4, 2, 4, 6, 8}, out.Floats(), 1e-12)
}

func TestEinsumScaleBatch(t *testing.T) {
	x := array.MustFromSlice([]float64{1, 2, 3}, array.Shape{3})
	v := array.MustFromSlice([]float64{10, 20}, array.Shape{2})

	out, err := Einsum("n,i->ni", x, v)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(array.Shape{3, 2}))
	assert.InDeltaSlice(t, []float64{10, 20, 20, 40, 30, 60}, out.Floats(), 1e-12)
}

func TestEinsumErrors(t *testing.T) {
	a := array.Ones(array.Shape{2, 3})
	b := array.Ones(array.Shape{4, 2})

	tests := []struct {
		name       string
		subscripts string
		operands   []*array.Array
	}{
		{"missing output", "ij,jk", []*array.Array{a, b}},
		{"label size mismatch", "ij,jk->ik", []*array.Array{a, b}},
		{"operand count mismatch", "ij->ij", []*array.Array{a, b}},
		{"unknown output label", "ij->ik", []*array.Array{a}},
		{"repeated output label", "ij->ii", []*array.Array{a}},
		{"dropped batch dims", "...i,...i->i", []*array.Array{array.Ones(array.Shape{2, 3}), array.Ones(array.Shape{2, 3})}},
		{"rank mismatch", "i->i", []*array.Array{a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Einsum(tt.subscripts, tt.operands...)
			require.Error(t, err)
		})
	}
}
