package geometry

import (
	"fmt"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/random"
)

// minEigenvalue is the smallest eigenvalue allowed after projection onto
// the positive definite cone.
const minEigenvalue = 1e-10

// SPDMatrices is the manifold of n-by-n symmetric positive definite
// matrices with the log-Euclidean metric. Tangent vectors are symmetric
// matrices expressed in matrix-log coordinates, where the metric is flat:
// geodesics are straight lines between matrix logarithms and parallel
// transport is the identity.
type SPDMatrices struct {
	n int
}

// NewSPDMatrices creates the space of n-by-n SPD matrices.
func NewSPDMatrices(n int) *SPDMatrices {
	return &SPDMatrices{n: n}
}

// N returns the matrix size.
func (s *SPDMatrices) N() int { return s.n }

// PointShape returns the shape of a single point.
func (s *SPDMatrices) PointShape() array.Shape { return array.Shape{s.n, s.n} }

// RandomPoint draws points as matrix exponentials of random symmetric
// matrices.
func (s *SPDMatrices) RandomPoint(b array.Backend, g *random.Generator, n int) *array.Array {
	var ambient *array.Array
	if n == 1 {
		ambient = g.Normal(0, 1, s.n, s.n)
	} else {
		ambient = g.Normal(0, 1, n, s.n, s.n)
	}
	return s.mapMatrices(ambient, func(m *array.Array) *array.Array {
		return b.Expm(s.symmetrize(m))
	})
}

// Projection symmetrizes the matrix and shifts its spectrum into the
// positive definite cone when needed.
func (s *SPDMatrices) Projection(b array.Backend, point *array.Array) *array.Array {
	return s.mapMatrices(point, func(m *array.Array) *array.Array {
		sym := s.symmetrize(m)
		eigs := b.Eigvalsh(sym)
		smallest := eigs.FloatAt(0)
		if smallest >= minEigenvalue {
			return sym
		}
		shifted := sym.Clone()
		shift := minEigenvalue - smallest
		for i := 0; i < s.n; i++ {
			idx := i*s.n + i
			shifted.SetFloat(idx, shifted.FloatAt(idx)+shift)
		}
		return shifted
	})
}

// ToTangent symmetrizes an ambient matrix.
func (s *SPDMatrices) ToTangent(b array.Backend, vector, basePoint *array.Array) *array.Array {
	return s.mapMatrices(vector, s.symmetrize)
}

// Exp maps a tangent vector at basePoint to Expm(Logm(p) + v).
func (s *SPDMatrices) Exp(b array.Backend, tangent, basePoint *array.Array) *array.Array {
	return s.mapMatrices2(tangent, basePoint, func(v, p *array.Array) *array.Array {
		logP := b.Logm(p)
		return b.Expm(b.Add(logP, v))
	})
}

// Log returns Logm(q) − Logm(p), the tangent vector at basePoint pointing
// toward point.
func (s *SPDMatrices) Log(b array.Backend, point, basePoint *array.Array) *array.Array {
	return s.mapMatrices2(point, basePoint, func(q, p *array.Array) *array.Array {
		return b.Sub(b.Logm(q), b.Logm(p))
	})
}

// SquaredDist computes the squared Frobenius distance between matrix
// logarithms. The result drops both matrix dimensions, keeping any batch
// axis.
func (s *SPDMatrices) SquaredDist(b array.Backend, x, y *array.Array) *array.Array {
	diff := s.Log(b, x, y)
	sq := b.Mul(diff, diff)
	// Sum the two trailing matrix dimensions.
	sq = b.SumDim(sq, -1, false)
	return b.SumDim(sq, -1, false)
}

// Dist computes the log-Euclidean distance.
func (s *SPDMatrices) Dist(b array.Backend, x, y *array.Array) *array.Array {
	return b.Sqrt(s.SquaredDist(b, x, y))
}

// ParallelTransport is the identity: the log-Euclidean metric is flat in
// log coordinates.
func (s *SPDMatrices) ParallelTransport(b array.Backend, tangent, basePoint, endPoint *array.Array) *array.Array {
	return tangent
}

// symmetrize returns (m + mᵀ)/2.
func (s *SPDMatrices) symmetrize(m *array.Array) *array.Array {
	out := array.MustNew(array.Shape{s.n, s.n}, m.DType())
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			v := (m.FloatAt(i*s.n+j) + m.FloatAt(j*s.n+i)) / 2
			out.SetFloat(i*s.n+j, v)
		}
	}
	return out
}

// mapMatrices applies f to each matrix of a possibly batched operand.
func (s *SPDMatrices) mapMatrices(x *array.Array, f func(*array.Array) *array.Array) *array.Array {
	shape := x.Shape()
	switch len(shape) {
	case 2:
		return f(x)
	case 3:
		out := array.MustNew(shape.Clone(), x.DType())
		size := s.n * s.n
		for i := 0; i < shape[0]; i++ {
			r := f(s.matrixAt(x, i))
			for j := 0; j < size; j++ {
				out.SetFloat(i*size+j, r.FloatAt(j))
			}
		}
		return out
	default:
		panic(fmt.Sprintf("spd: operand must be a matrix or a batch of matrices, got shape %v", shape))
	}
}

// mapMatrices2 applies f pairwise, broadcasting a single matrix against a
// batch on the other side.
func (s *SPDMatrices) mapMatrices2(x, y *array.Array, f func(a, b *array.Array) *array.Array) *array.Array {
	xBatched := len(x.Shape()) == 3
	yBatched := len(y.Shape()) == 3
	if !xBatched && !yBatched {
		return f(x, y)
	}

	count := 0
	if xBatched {
		count = x.Shape()[0]
	}
	if yBatched {
		if count != 0 && y.Shape()[0] != count {
			panic(fmt.Sprintf("spd: batch sizes differ, %v vs %v", x.Shape(), y.Shape()))
		}
		count = y.Shape()[0]
	}

	outShape := array.Shape{count, s.n, s.n}
	out := array.MustNew(outShape, x.DType())
	size := s.n * s.n
	for i := 0; i < count; i++ {
		xi, yi := x, y
		if xBatched {
			xi = s.matrixAt(x, i)
		}
		if yBatched {
			yi = s.matrixAt(y, i)
		}
		r := f(xi, yi)
		for j := 0; j < size; j++ {
			out.SetFloat(i*size+j, r.FloatAt(j))
		}
	}
	return out
}

// matrixAt copies matrix i out of a batch.
func (s *SPDMatrices) matrixAt(x *array.Array, i int) *array.Array {
	size := s.n * s.n
	out := array.MustNew(array.Shape{s.n, s.n}, x.DType())
	for j := 0; j < size; j++ {
		out.SetFloat(j, x.FloatAt(i*size+j))
	}
	return out
}
