package cpu

import (
	"fmt"
	"math"
	"sort"

	"github.com/manifold-ml/manifold/internal/array"
)

// squareMatrix validates that x is a square 2-D matrix and returns its
// order together with a float64 copy of its elements.
func squareMatrix(name string, x *array.Array) (int, []float64) {
	shape := x.Shape()
	if len(shape) != 2 || shape[0] != shape[1] {
		panic(fmt.Sprintf("%s: operand must be a square matrix, got %v", name, shape))
	}
	return shape[0], x.Floats()
}

func matrixResult(n int, data []float64, dtype array.DataType) *array.Array {
	result := array.MustNew(array.Shape{n, n}, dtype)
	for i, v := range data {
		result.SetFloat(i, v)
	}
	return result
}

// Cholesky computes the lower-triangular factor L with L Lᵀ = x.
// Panics when x is not positive definite.
func (be *Backend) Cholesky(x *array.Array) *array.Array {
	n, a := squareMatrix("cholesky", x)
	l := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i*n+j]
			for k := 0; k < j; k++ {
				sum -= l[i*n+k] * l[j*n+k]
			}
			if i == j {
				if sum <= 0 {
					panic(fmt.Sprintf("cholesky: matrix is not positive definite (pivot %d: %g)", i, sum))
				}
				l[i*n+i] = math.Sqrt(sum)
			} else {
				l[i*n+j] = sum / l[j*n+j]
			}
		}
	}
	return matrixResult(n, l, x.DType())
}

// Eigvalsh computes the eigenvalues of a symmetric matrix in ascending
// order, using cyclic Jacobi rotations.
func (be *Backend) Eigvalsh(x *array.Array) *array.Array {
	n, a := squareMatrix("eigvalsh", x)

	const maxSweeps = 64
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += a[i*n+j] * a[i*n+j]
			}
		}
		if off < 1e-30 {
			break
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				apq := a[p*n+q]
				if math.Abs(apq) < 1e-300 {
					continue
				}
				theta := (a[q*n+q] - a[p*n+p]) / (2 * apq)
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c
				for k := 0; k < n; k++ {
					akp := a[k*n+p]
					akq := a[k*n+q]
					a[k*n+p] = c*akp - s*akq
					a[k*n+q] = s*akp + c*akq
				}
				for k := 0; k < n; k++ {
					apk := a[p*n+k]
					aqk := a[q*n+k]
					a[p*n+k] = c*apk - s*aqk
					a[q*n+k] = s*apk + c*aqk
				}
			}
		}
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = a[i*n+i]
	}
	sort.Float64s(values)

	result := array.MustNew(array.Shape{n}, x.DType())
	for i, v := range values {
		result.SetFloat(i, v)
	}
	return result
}

// Expm computes the matrix exponential by scaling and squaring with a
// truncated Taylor series.
func (be *Backend) Expm(x *array.Array) *array.Array {
	n, a := squareMatrix("expm", x)

	norm := matNorm1(n, a)
	squarings := 0
	for norm > 0.5 {
		norm /= 2
		squarings++
	}
	scale := math.Ldexp(1, -squarings)
	scaled := make([]float64, n*n)
	for i, v := range a {
		scaled[i] = v * scale
	}

	// exp(B) = Σ Bᵏ/k! with ‖B‖ ≤ 0.5; 20 terms reach double precision.
	result := matIdentity(n)
	term := matIdentity(n)
	for k := 1; k <= 20; k++ {
		term = matMulSq(n, term, scaled)
		for i := range term {
			term[i] /= float64(k)
		}
		for i := range result {
			result[i] += term[i]
		}
	}

	for s := 0; s < squarings; s++ {
		result = matMulSq(n, result, result)
	}
	return matrixResult(n, result, x.DType())
}

// Logm computes the principal matrix logarithm by inverse scaling and
// squaring: repeated Denman–Beavers square roots bring the matrix near the
// identity, where a truncated Mercator series applies.
// Defined for matrices with no eigenvalues on the closed negative real axis.
func (be *Backend) Logm(x *array.Array) *array.Array {
	n, a := squareMatrix("logm", x)

	roots := 0
	current := append([]float64(nil), a...)
	for {
		shifted := append([]float64(nil), current...)
		for i := 0; i < n; i++ {
			shifted[i*n+i] -= 1
		}
		if matNorm1(n, shifted) < 0.25 || roots >= 40 {
			break
		}
		current = matSqrtDB(n, current)
		roots++
	}

	// log(I+X) = Σ (-1)^(k+1) Xᵏ/k with ‖X‖ < 0.25.
	diff := current
	for i := 0; i < n; i++ {
		diff[i*n+i] -= 1
	}
	result := make([]float64, n*n)
	power := matIdentity(n)
	sign := 1.0
	for k := 1; k <= 40; k++ {
		power = matMulSq(n, power, diff)
		for i := range result {
			result[i] += sign * power[i] / float64(k)
		}
		sign = -sign
	}

	factor := math.Ldexp(1, roots)
	for i := range result {
		result[i] *= factor
	}
	return matrixResult(n, result, x.DType())
}

// matSqrtDB computes a matrix square root by Denman–Beavers iteration.
func matSqrtDB(n int, a []float64) []float64 {
	y := append([]float64(nil), a...)
	z := matIdentity(n)
	for iter := 0; iter < 60; iter++ {
		yInv := matInverse(n, y)
		zInv := matInverse(n, z)
		nextY := make([]float64, n*n)
		nextZ := make([]float64, n*n)
		for i := range nextY {
			nextY[i] = 0.5 * (y[i] + zInv[i])
			nextZ[i] = 0.5 * (z[i] + yInv[i])
		}
		delta := 0.0
		for i := range nextY {
			delta += math.Abs(nextY[i] - y[i])
		}
		y, z = nextY, nextZ
		if delta < 1e-14 {
			break
		}
	}
	return y
}

// matInverse inverts a matrix by Gauss–Jordan elimination with partial
// pivoting.
func matInverse(n int, a []float64) []float64 {
	aug := append([]float64(nil), a...)
	inv := matIdentity(n)

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug[row*n+col]) > math.Abs(aug[pivot*n+col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot*n+col]) < 1e-300 {
			panic("linalg: singular matrix")
		}
		if pivot != col {
			swapRows(n, aug, pivot, col)
			swapRows(n, inv, pivot, col)
		}
		p := aug[col*n+col]
		for k := 0; k < n; k++ {
			aug[col*n+k] /= p
			inv[col*n+k] /= p
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row*n+col]
			if factor == 0 {
				continue
			}
			for k := 0; k < n; k++ {
				aug[row*n+k] -= factor * aug[col*n+k]
				inv[row*n+k] -= factor * inv[col*n+k]
			}
		}
	}
	return inv
}

func swapRows(n int, a []float64, i, j int) {
	for k := 0; k < n; k++ {
		a[i*n+k], a[j*n+k] = a[j*n+k], a[i*n+k]
	}
}

func matIdentity(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}
	return m
}

func matMulSq(n int, a, b []float64) []float64 {
	c := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a[i*n+k]
			if aik == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				c[i*n+j] += aik * b[k*n+j]
			}
		}
	}
	return c
}

// matNorm1 returns the maximum absolute column sum.
func matNorm1(n int, a []float64) float64 {
	best := 0.0
	for j := 0; j < n; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += math.Abs(a[i*n+j])
		}
		best = math.Max(best, sum)
	}
	return best
}
