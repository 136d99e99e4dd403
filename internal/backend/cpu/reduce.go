package cpu

import (
	"fmt"

	"github.com/manifold-ml/manifold/internal/array"
)

// Sum reduces all elements to a scalar.
func (be *Backend) Sum(x *array.Array) *array.Array {
	total := 0.0
	n := x.NumElements()
	for i := 0; i < n; i++ {
		total += x.FloatAt(i)
	}
	result := array.MustNew(array.Shape{}, x.DType())
	result.SetFloat(0, total)
	return result
}

// Mean reduces all elements to their arithmetic mean.
func (be *Backend) Mean(x *array.Array) *array.Array {
	return be.DivScalar(be.Sum(x), float64(x.NumElements()))
}

// SumDim sums along one dimension. With keepDim the reduced dimension stays
// as size 1, otherwise it is removed.
func (be *Backend) SumDim(x *array.Array, dim int, keepDim bool) *array.Array {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumdim: invalid dimension %d for shape %v", dim, x.Shape()))
	}

	outShape := array.Shape{}
	for d, size := range shape {
		switch {
		case d != dim:
			outShape = append(outShape, size)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	result := array.MustNew(outShape, x.DType())

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	mid := shape[dim]
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			total := 0.0
			for m := 0; m < mid; m++ {
				total += x.FloatAt((o*mid+m)*inner + in)
			}
			result.SetFloat(o*inner+in, total)
		}
	}
	return result
}
