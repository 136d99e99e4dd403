package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 0, Shape{2, 0, 3}.NumElements())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		wantErr bool
	}{
		{"equal", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{"scalar against matrix", Shape{}, Shape{2, 3}, Shape{2, 3}, false},
		{"trailing one", Shape{2, 1}, Shape{2, 3}, Shape{2, 3}, false},
		{"missing leading dim", Shape{3}, Shape{2, 3}, Shape{2, 3}, false},
		{"both expand", Shape{2, 1, 4}, Shape{3, 1}, Shape{2, 3, 4}, false},
		{"incompatible", Shape{2, 3}, Shape{2, 4}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestIsArray(t *testing.T) {
	a := MustNew(Shape{2}, Float64)
	assert.True(t, IsArray(a))
	assert.False(t, IsArray(3.0))
	assert.False(t, IsArray([]float64{1, 2}))
	assert.False(t, IsArray(nil))
	assert.False(t, IsArray(*a))
}

func TestFromSliceLengthMismatch(t *testing.T) {
	_, err := FromSlice([]float64{1, 2, 3}, Shape{2, 2})
	require.Error(t, err)
}

func TestAccessors(t *testing.T) {
	a := MustFromSlice([]float64{1, 2, 3, 4}, Shape{2, 2})
	assert.Equal(t, 2.0, a.FloatAt(1))

	a.SetFloat(1, 9)
	assert.Equal(t, 9.0, a.FloatAt(1))
	assert.Equal(t, []float64{1, 9, 3, 4}, a.Floats())
}

func TestFloat32Accessors(t *testing.T) {
	a := MustNew(Shape{3}, Float32)
	a.SetFloat(2, 1.5)
	assert.Equal(t, 1.5, a.FloatAt(2))
	assert.Equal(t, float32(1.5), a.AsFloat32()[2])
}

func TestCloneIsIndependent(t *testing.T) {
	a := MustFromSlice([]float64{1, 2}, Shape{2})
	b := a.Clone()
	b.SetFloat(0, 7)
	assert.Equal(t, 1.0, a.FloatAt(0))
	assert.Equal(t, 7.0, b.FloatAt(0))
}

func TestScalarFloat(t *testing.T) {
	assert.Equal(t, 4.5, FromValue(4.5).Float())
}

func TestPromote(t *testing.T) {
	assert.Equal(t, Float64, Promote(Float32, Float64))
	assert.Equal(t, Float32, Promote(Float32, Float32))
}

func TestEye(t *testing.T) {
	assert.Equal(t, []float64{1, 0, 0, 1}, Eye(2).Floats())
}

func TestLinspace(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3).Floats(), 1e-15)
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1).Floats())
}
