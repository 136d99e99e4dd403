package cpu

import (
	"fmt"

	"github.com/manifold-ml/manifold/internal/array"
)

// Reshape returns an array with the same elements and a new shape.
func (be *Backend) Reshape(x *array.Array, shape array.Shape) *array.Array {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if x.NumElements() != shape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			x.Shape(), shape))
	}
	return x.WithShape(shape)
}

// Flatten returns the elements as a 1-D array.
func (be *Backend) Flatten(x *array.Array) *array.Array {
	return x.WithShape(array.Shape{x.NumElements()})
}

// Transpose permutes the dimensions of x. With no axes given, the dimension
// order is reversed.
func (be *Backend) Transpose(x *array.Array, axes ...int) *array.Array {
	shape := x.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %d-D array", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	outShape := make(array.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	result := array.MustNew(outShape, x.DType())

	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	n := x.NumElements()
	for i := 0; i < n; i++ {
		srcIdx := 0
		rem := i
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * inStrides[axes[d]]
		}
		result.SetFloat(i, x.FloatAt(srcIdx))
	}
	return result
}

// Split divides x into n equal parts along the leading dimension.
func (be *Backend) Split(x *array.Array, n int) []*array.Array {
	shape := x.Shape()
	if len(shape) == 0 {
		panic("split: cannot split a scalar")
	}
	if n <= 0 || shape[0]%n != 0 {
		panic(fmt.Sprintf("split: leading dimension %d is not divisible into %d parts", shape[0], n))
	}

	partShape := shape.Clone()
	partShape[0] = shape[0] / n
	partElems := partShape.NumElements()

	parts := make([]*array.Array, n)
	for p := 0; p < n; p++ {
		part := array.MustNew(partShape, x.DType())
		for i := 0; i < partElems; i++ {
			part.SetFloat(i, x.FloatAt(p*partElems+i))
		}
		parts[p] = part
	}
	return parts
}

// Concat joins arrays along a dimension. All shapes must agree except in
// the concatenation dimension.
func (be *Backend) Concat(xs []*array.Array, dim int) *array.Array {
	if len(xs) == 0 {
		panic("concat: no arrays given")
	}
	first := xs[0].Shape()
	if dim < 0 {
		dim += len(first)
	}
	if dim < 0 || dim >= len(first) {
		panic(fmt.Sprintf("concat: invalid dimension %d for shape %v", dim, first))
	}

	outShape := first.Clone()
	dtype := xs[0].DType()
	for _, x := range xs[1:] {
		shape := x.Shape()
		if len(shape) != len(first) {
			panic(fmt.Sprintf("concat: rank mismatch: %v vs %v", first, shape))
		}
		for d := range shape {
			if d != dim && shape[d] != first[d] {
				panic(fmt.Sprintf("concat: shapes %v and %v differ outside dimension %d", first, shape, dim))
			}
		}
		outShape[dim] += shape[dim]
		dtype = array.Promote(dtype, x.DType())
	}

	result := array.MustNew(outShape, dtype)
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := dim + 1; d < len(outShape); d++ {
		inner *= outShape[d]
	}

	offset := 0
	for _, x := range xs {
		mid := x.Shape()[dim]
		for o := 0; o < outer; o++ {
			for m := 0; m < mid; m++ {
				for in := 0; in < inner; in++ {
					v := x.FloatAt((o*mid+m)*inner + in)
					result.SetFloat((o*outShape[dim]+offset+m)*inner+in, v)
				}
			}
		}
		offset += mid
	}
	return result
}

// Tile repeats x along each dimension according to reps. When reps is
// longer than the rank of x, leading size-1 dimensions are assumed.
func (be *Backend) Tile(x *array.Array, reps []int) *array.Array {
	shape := x.Shape()
	if len(reps) < len(shape) {
		padded := make([]int, len(shape))
		copy(padded[len(shape)-len(reps):], reps)
		for i := 0; i < len(shape)-len(reps); i++ {
			padded[i] = 1
		}
		reps = padded
	}
	srcShape := shape.Clone()
	for len(srcShape) < len(reps) {
		srcShape = append(array.Shape{1}, srcShape...)
	}

	outShape := make(array.Shape, len(reps))
	for d := range reps {
		if reps[d] <= 0 {
			panic(fmt.Sprintf("tile: invalid repetition %d at dimension %d", reps[d], d))
		}
		outShape[d] = srcShape[d] * reps[d]
	}

	result := array.MustNew(outShape, x.DType())
	srcStrides := srcShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		srcIdx := 0
		rem := i
		for d := range outShape {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += (coord % srcShape[d]) * srcStrides[d]
		}
		result.SetFloat(i, x.FloatAt(srcIdx))
	}
	return result
}

// Pad zero-pads x with widths[d] = [before, after] per dimension.
func (be *Backend) Pad(x *array.Array, widths [][2]int) *array.Array {
	shape := x.Shape()
	if len(widths) != len(shape) {
		panic(fmt.Sprintf("pad: got %d width pairs for %d-D array", len(widths), len(shape)))
	}

	outShape := make(array.Shape, len(shape))
	for d := range shape {
		if widths[d][0] < 0 || widths[d][1] < 0 {
			panic(fmt.Sprintf("pad: negative width %v at dimension %d", widths[d], d))
		}
		outShape[d] = widths[d][0] + shape[d] + widths[d][1]
	}

	result := array.MustNew(outShape, x.DType())
	inStrides := shape.ComputeStrides()
	n := x.NumElements()
	outStrides := outShape.ComputeStrides()
	for i := 0; i < n; i++ {
		dstIdx := 0
		rem := i
		for d := range shape {
			coord := rem / inStrides[d]
			rem %= inStrides[d]
			dstIdx += (coord + widths[d][0]) * outStrides[d]
		}
		result.SetFloat(dstIdx, x.FloatAt(i))
	}
	return result
}

// Take gathers slices of x at the given indices along axis.
func (be *Backend) Take(x *array.Array, indices []int, axis int) *array.Array {
	shape := x.Shape()
	if axis < 0 {
		axis += len(shape)
	}
	if axis < 0 || axis >= len(shape) {
		panic(fmt.Sprintf("take: invalid axis %d for shape %v", axis, shape))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= shape[axis] {
			panic(fmt.Sprintf("take: index %d out of range for dimension %d of size %d", idx, axis, shape[axis]))
		}
	}

	outShape := shape.Clone()
	outShape[axis] = len(indices)
	result := array.MustNew(outShape, x.DType())

	outer := 1
	for d := 0; d < axis; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := axis + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	for o := 0; o < outer; o++ {
		for m, idx := range indices {
			for in := 0; in < inner; in++ {
				v := x.FloatAt((o*shape[axis]+idx)*inner + in)
				result.SetFloat((o*len(indices)+m)*inner+in, v)
			}
		}
	}
	return result
}

// Cast converts x to another element type.
func (be *Backend) Cast(x *array.Array, dtype array.DataType) *array.Array {
	result := array.MustNew(x.Shape(), dtype)
	n := x.NumElements()
	for i := 0; i < n; i++ {
		result.SetFloat(i, x.FloatAt(i))
	}
	return result
}
