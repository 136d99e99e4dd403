// Package geometry defines the manifold and metric protocol consumed by
// the estimators, together with the built-in spaces: Euclidean space, the
// hypersphere and symmetric positive definite matrices.
//
// Every operation takes the backend explicitly so the same geometry runs
// over any engine, including the autodiff decorator during gradient
// computation. Point arguments may carry a leading batch axis; base points
// broadcast against batched operands.
package geometry

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/random"
)

// Manifold is a space of points with a tangent space at every point.
type Manifold interface {
	// PointShape returns the shape of a single point.
	PointShape() array.Shape

	// RandomPoint draws n points. The result is batched along a leading
	// axis when n > 1 and has PointShape otherwise.
	RandomPoint(b array.Backend, g *random.Generator, n int) *array.Array

	// Projection maps an ambient value to the closest point on the
	// manifold.
	Projection(b array.Backend, point *array.Array) *array.Array

	// ToTangent projects an ambient vector into the tangent space at
	// basePoint.
	ToTangent(b array.Backend, vector, basePoint *array.Array) *array.Array
}

// Metric is a Riemannian metric on a manifold.
type Metric interface {
	// Exp follows the geodesic from basePoint in the direction of tangent
	// for unit time.
	Exp(b array.Backend, tangent, basePoint *array.Array) *array.Array

	// Log returns the tangent vector at basePoint pointing toward point,
	// inverse to Exp.
	Log(b array.Backend, point, basePoint *array.Array) *array.Array

	// SquaredDist computes the squared geodesic distance between x and y.
	SquaredDist(b array.Backend, x, y *array.Array) *array.Array

	// Dist computes the geodesic distance between x and y.
	Dist(b array.Backend, x, y *array.Array) *array.Array

	// ParallelTransport moves tangent from basePoint to endPoint along
	// the connecting geodesic.
	ParallelTransport(b array.Backend, tangent, basePoint, endPoint *array.Array) *array.Array
}

// Space is a manifold equipped with its canonical metric.
type Space interface {
	Manifold
	Metric
}

// expandDims reshapes a batch of scalars (n,) so it broadcasts against a
// batch of points (n, *pointShape).
func expandDims(b array.Backend, x *array.Array, pointRank int) *array.Array {
	shape := x.Shape().Clone()
	for i := 0; i < pointRank; i++ {
		shape = append(shape, 1)
	}
	return b.Reshape(x, shape)
}
