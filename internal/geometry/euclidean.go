package geometry

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/random"
)

// Euclidean is flat d-dimensional space with the standard inner product.
// Geodesics are straight lines and parallel transport is the identity.
type Euclidean struct {
	dim int
}

// NewEuclidean creates d-dimensional Euclidean space.
func NewEuclidean(dim int) *Euclidean {
	return &Euclidean{dim: dim}
}

// Dim returns the dimension.
func (e *Euclidean) Dim() int { return e.dim }

// PointShape returns the shape of a single point.
func (e *Euclidean) PointShape() array.Shape { return array.Shape{e.dim} }

// RandomPoint draws points from the standard normal distribution.
func (e *Euclidean) RandomPoint(b array.Backend, g *random.Generator, n int) *array.Array {
	if n == 1 {
		return g.Normal(0, 1, e.dim)
	}
	return g.Normal(0, 1, n, e.dim)
}

// Projection is the identity: every ambient value is a point.
func (e *Euclidean) Projection(b array.Backend, point *array.Array) *array.Array {
	return point
}

// ToTangent is the identity: every ambient vector is tangent.
func (e *Euclidean) ToTangent(b array.Backend, vector, basePoint *array.Array) *array.Array {
	return vector
}

// Exp translates the base point by the tangent vector.
func (e *Euclidean) Exp(b array.Backend, tangent, basePoint *array.Array) *array.Array {
	return b.Add(basePoint, tangent)
}

// Log returns the displacement from basePoint to point.
func (e *Euclidean) Log(b array.Backend, point, basePoint *array.Array) *array.Array {
	return b.Sub(point, basePoint)
}

// SquaredDist computes the squared Euclidean distance.
func (e *Euclidean) SquaredDist(b array.Backend, x, y *array.Array) *array.Array {
	diff := b.Sub(x, y)
	return b.Dot(diff, diff)
}

// Dist computes the Euclidean distance.
func (e *Euclidean) Dist(b array.Backend, x, y *array.Array) *array.Array {
	return b.Sqrt(e.SquaredDist(b, x, y))
}

// ParallelTransport is the identity in flat space.
func (e *Euclidean) ParallelTransport(b array.Backend, tangent, basePoint, endPoint *array.Array) *array.Array {
	return tangent
}
