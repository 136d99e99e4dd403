package geometry

import "github.com/manifold-ml/manifold/internal/array"

// FrechetOptions bounds the Karcher flow. Zero values fall back to the
// defaults below.
type FrechetOptions struct {
	MaxIterations int
	Tolerance     float64
	StepSize      float64
}

const (
	defaultFrechetIterations = 64
	defaultFrechetTolerance  = 1e-10
)

// FrechetMean computes the point minimizing the sum of squared geodesic
// distances to the given points via Karcher flow: repeatedly average the
// log maps at the current estimate and step along the result. points is
// batched along the leading axis.
func FrechetMean(b array.Backend, metric Metric, points *array.Array, opts FrechetOptions) *array.Array {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = defaultFrechetIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultFrechetTolerance
	}
	if opts.StepSize <= 0 {
		opts.StepSize = 1
	}

	shape := points.Shape()
	n := shape[0]
	mean := b.Reshape(b.Take(points, []int{0}, 0), shape[1:])

	for iter := 0; iter < opts.MaxIterations; iter++ {
		logs := metric.Log(b, points, mean)
		direction := b.DivScalar(b.SumDim(logs, 0, false), float64(n))

		sqNorm := b.Sum(b.Mul(direction, direction)).Float()
		if sqNorm < opts.Tolerance*opts.Tolerance {
			break
		}
		mean = metric.Exp(b, b.MulScalar(direction, opts.StepSize), mean)
	}
	return mean
}

// Variance computes the mean squared geodesic distance of points to base.
func Variance(b array.Backend, metric Metric, points, base *array.Array) float64 {
	sq := metric.SquaredDist(b, points, base)
	return b.Mean(sq).Float()
}
