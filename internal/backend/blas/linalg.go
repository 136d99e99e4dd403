package blas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/manifold-ml/manifold/internal/array"
)

func asSym(name string, x *array.Array) *mat.SymDense {
	shape := x.Shape()
	if len(shape) != 2 || shape[0] != shape[1] {
		panic(fmt.Sprintf("%s: operand must be a square matrix, got %v", name, shape))
	}
	n := shape[0]
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, x.FloatAt(i*n+j))
		}
	}
	return sym
}

func isSymmetric(x *array.Array) bool {
	shape := x.Shape()
	if len(shape) != 2 || shape[0] != shape[1] {
		return false
	}
	n := shape[0]
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(x.FloatAt(i*n+j)-x.FloatAt(j*n+i)) > 1e-12 {
				return false
			}
		}
	}
	return true
}

// Cholesky computes the lower-triangular factor L with L Lᵀ = x.
// Panics when x is not positive definite.
func (be *Backend) Cholesky(x *array.Array) *array.Array {
	var chol mat.Cholesky
	if ok := chol.Factorize(asSym("cholesky", x)); !ok {
		panic("cholesky: matrix is not positive definite")
	}
	var l mat.TriDense
	chol.LTo(&l)
	n := x.Shape()[0]
	result := array.MustNew(array.Shape{n, n}, x.DType())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			result.SetFloat(i*n+j, l.At(i, j))
		}
	}
	return result
}

// Eigvalsh computes the eigenvalues of a symmetric matrix in ascending
// order.
func (be *Backend) Eigvalsh(x *array.Array) *array.Array {
	var eig mat.EigenSym
	if ok := eig.Factorize(asSym("eigvalsh", x), false); !ok {
		panic("eigvalsh: eigendecomposition failed")
	}
	values := eig.Values(nil)
	n := len(values)
	result := array.MustNew(array.Shape{n}, x.DType())
	for i, v := range values {
		result.SetFloat(i, v)
	}
	return result
}

// Expm computes the matrix exponential. Symmetric inputs go through the
// spectral decomposition; the general case falls back to the reference
// scaling-and-squaring kernel.
func (be *Backend) Expm(x *array.Array) *array.Array {
	if !isSymmetric(x) {
		return be.fallback.Expm(x)
	}
	return be.symMatFunc("expm", x, math.Exp)
}

// Logm computes the principal matrix logarithm. Symmetric positive
// definite inputs go through the spectral decomposition; the general case
// falls back to the reference inverse-scaling kernel.
func (be *Backend) Logm(x *array.Array) *array.Array {
	if !isSymmetric(x) {
		return be.fallback.Logm(x)
	}
	return be.symMatFunc("logm", x, math.Log)
}

// symMatFunc applies f to the eigenvalues of a symmetric matrix:
// f(A) = V f(Λ) Vᵀ.
func (be *Backend) symMatFunc(name string, x *array.Array, f func(float64) float64) *array.Array {
	var eig mat.EigenSym
	if ok := eig.Factorize(asSym(name, x), true); !ok {
		panic(fmt.Sprintf("%s: eigendecomposition failed", name))
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	n := len(values)
	scaled := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		fv := f(values[j])
		for i := 0; i < n; i++ {
			scaled.Set(i, j, vectors.At(i, j)*fv)
		}
	}
	var out mat.Dense
	out.Mul(scaled, vectors.T())

	result := array.MustNew(array.Shape{n, n}, x.DType())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			result.SetFloat(i*n+j, out.At(i, j))
		}
	}
	return result
}
