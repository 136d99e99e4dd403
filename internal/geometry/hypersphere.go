package geometry

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/random"
)

const (
	// normEps keeps vector norms differentiable at zero.
	normEps = 1e-24

	// cosClip bounds inner products away from ±1 so Acos and its
	// gradient stay finite at coincident or antipodal points.
	cosClip = 1e-10
)

// Hypersphere is the unit sphere S^dim embedded in dim+1 ambient
// dimensions, with the round metric induced by the ambient inner product.
type Hypersphere struct {
	dim int
}

// NewHypersphere creates the unit sphere of the given intrinsic dimension.
func NewHypersphere(dim int) *Hypersphere {
	return &Hypersphere{dim: dim}
}

// Dim returns the intrinsic dimension.
func (s *Hypersphere) Dim() int { return s.dim }

// PointShape returns the ambient shape of a single point.
func (s *Hypersphere) PointShape() array.Shape { return array.Shape{s.dim + 1} }

// RandomPoint draws points uniformly by normalizing standard normal
// vectors.
func (s *Hypersphere) RandomPoint(b array.Backend, g *random.Generator, n int) *array.Array {
	var ambient *array.Array
	if n == 1 {
		ambient = g.Normal(0, 1, s.dim+1)
	} else {
		ambient = g.Normal(0, 1, n, s.dim+1)
	}
	return s.Projection(b, ambient)
}

// Projection normalizes an ambient vector onto the sphere.
func (s *Hypersphere) Projection(b array.Backend, point *array.Array) *array.Array {
	norm := b.Sqrt(b.AddScalar(b.Dot(point, point), normEps))
	return b.Div(point, expandDims(b, norm, 1))
}

// ToTangent removes the component of vector along the base point. The base
// point must lie on the sphere.
func (s *Hypersphere) ToTangent(b array.Backend, vector, basePoint *array.Array) *array.Array {
	inner := b.Dot(vector, basePoint)
	return b.Sub(vector, b.Mul(expandDims(b, inner, 1), basePoint))
}

// Exp follows the great circle from basePoint in the direction of tangent:
// cos(‖v‖)·x + sin(‖v‖)/‖v‖·v.
func (s *Hypersphere) Exp(b array.Backend, tangent, basePoint *array.Array) *array.Array {
	norm := b.Sqrt(b.AddScalar(b.Dot(tangent, tangent), normEps))
	cosPart := b.Mul(expandDims(b, b.Cos(norm), 1), basePoint)
	sinc := b.Div(b.Sin(norm), norm)
	sinPart := b.Mul(expandDims(b, sinc, 1), tangent)
	return b.Add(cosPart, sinPart)
}

// Log returns the tangent vector at basePoint pointing toward point:
// θ/sin(θ)·(y − cos(θ)·x) with θ the angle between the points.
func (s *Hypersphere) Log(b array.Backend, point, basePoint *array.Array) *array.Array {
	inner := b.Clip(b.Dot(basePoint, point), -1+cosClip, 1-cosClip)
	theta := b.Acos(inner)
	ratio := b.Div(theta, b.Sin(theta))
	rejection := b.Sub(point, b.Mul(expandDims(b, inner, 1), basePoint))
	return b.Mul(expandDims(b, ratio, 1), rejection)
}

// SquaredDist computes the squared arc length between two points.
func (s *Hypersphere) SquaredDist(b array.Backend, x, y *array.Array) *array.Array {
	theta := s.angle(b, x, y)
	return b.Mul(theta, theta)
}

// Dist computes the arc length between two points.
func (s *Hypersphere) Dist(b array.Backend, x, y *array.Array) *array.Array {
	return s.angle(b, x, y)
}

func (s *Hypersphere) angle(b array.Backend, x, y *array.Array) *array.Array {
	inner := b.Clip(b.Dot(x, y), -1+cosClip, 1-cosClip)
	return b.Acos(inner)
}

// ParallelTransport moves tangent along the geodesic from basePoint to
// endPoint. The component along the geodesic direction rotates with the
// base point; the orthogonal component is unchanged.
func (s *Hypersphere) ParallelTransport(b array.Backend, tangent, basePoint, endPoint *array.Array) *array.Array {
	direction := s.Log(b, endPoint, basePoint)
	theta := b.Sqrt(b.AddScalar(b.Dot(direction, direction), normEps))
	unit := b.Div(direction, expandDims(b, theta, 1))

	along := b.Dot(tangent, unit)
	rotated := b.Sub(
		b.Mul(expandDims(b, b.SubScalar(b.Cos(theta), 1), 1), unit),
		b.Mul(expandDims(b, b.Sin(theta), 1), basePoint),
	)
	return b.Add(tangent, b.Mul(expandDims(b, along, 1), rotated))
}
