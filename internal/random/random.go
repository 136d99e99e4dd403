// Package random provides seeded random sampling over arrays: uniform,
// normal and multivariate-normal draws plus discrete choice. A Generator
// owns its source explicitly; the package-level functions share one
// process-wide generator and are not safe for unsynchronized concurrent
// use.
package random

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/manifold-ml/manifold/internal/array"
)

// ErrInvalidBounds reports a uniform draw with low >= high.
var ErrInvalidBounds = errors.New("random: low must be strictly less than high")

// Generator draws samples from an explicit, reseedable source.
type Generator struct {
	src *rand.Rand
}

// NewGenerator creates a generator seeded with the given value.
func NewGenerator(seed uint64) *Generator {
	g := &Generator{}
	g.Seed(seed)
	return g
}

// Seed resets the generator state. The same seed reproduces the same draw
// sequence.
func (g *Generator) Seed(seed uint64) {
	g.src = rand.New(rand.NewPCG(seed, seed))
}

// normalizeSize turns a variadic size into a shape. No size means a single
// scalar draw.
func normalizeSize(size []int) array.Shape {
	if len(size) == 0 {
		return array.Shape{}
	}
	return array.Shape(size)
}

// Uniform draws from the continuous uniform distribution on [low, high).
// Returns ErrInvalidBounds when low >= high.
func (g *Generator) Uniform(low, high float64, size ...int) (*array.Array, error) {
	if low >= high {
		return nil, fmt.Errorf("%w: got [%g, %g)", ErrInvalidBounds, low, high)
	}
	dist := distuv.Uniform{Min: low, Max: high, Src: g.src}
	out := array.Zeros(normalizeSize(size))
	data := out.AsFloat64()
	for i := range data {
		data[i] = dist.Rand()
	}
	return out, nil
}

// Normal draws from the normal distribution with the given location and
// scale.
func (g *Generator) Normal(loc, scale float64, size ...int) *array.Array {
	dist := distuv.Normal{Mu: loc, Sigma: scale, Src: g.src}
	out := array.Zeros(normalizeSize(size))
	data := out.AsFloat64()
	for i := range data {
		data[i] = dist.Rand()
	}
	return out
}

// Rand draws from the uniform distribution on [0, 1).
func (g *Generator) Rand(size ...int) *array.Array {
	out := array.Zeros(normalizeSize(size))
	data := out.AsFloat64()
	for i := range data {
		data[i] = g.src.Float64()
	}
	return out
}

// MultivariateNormal draws n jointly normal vectors with the given mean and
// covariance. mean must be 1-D with d elements and cov a d-by-d matrix; the
// result has shape (n, d). Fails when cov is not symmetric positive
// definite.
func (g *Generator) MultivariateNormal(mean, cov *array.Array, n int) (*array.Array, error) {
	meanShape := mean.Shape()
	covShape := cov.Shape()
	if len(meanShape) != 1 {
		return nil, fmt.Errorf("random: mean must be 1-D, got shape %v", meanShape)
	}
	d := meanShape[0]
	if len(covShape) != 2 || covShape[0] != d || covShape[1] != d {
		return nil, fmt.Errorf("random: covariance must have shape [%d %d], got %v", d, d, covShape)
	}

	sigma := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			sigma.SetSym(i, j, cov.FloatAt(i*d+j))
		}
	}
	dist, ok := distmv.NewNormal(mean.Floats(), sigma, g.src)
	if !ok {
		return nil, fmt.Errorf("random: covariance matrix is not positive definite")
	}

	out := array.Zeros(array.Shape{n, d})
	data := out.AsFloat64()
	buf := make([]float64, d)
	for i := 0; i < n; i++ {
		dist.Rand(buf)
		copy(data[i*d:(i+1)*d], buf)
	}
	return out, nil
}

// Choice draws count elements uniformly with replacement from the first
// axis of population when population is an array. Any other value is
// returned unchanged, as is the population itself when count is not
// positive: shapes cannot hold a zero-length axis, so there is no empty
// draw to return.
func (g *Generator) Choice(population any, count int) any {
	p, ok := population.(*array.Array)
	if !ok {
		return population
	}
	shape := p.Shape()
	if len(shape) == 0 || count <= 0 {
		return p
	}

	rows := shape[0]
	rowSize := 1
	for _, d := range shape[1:] {
		rowSize *= d
	}
	outShape := append(array.Shape{count}, shape[1:]...)
	out := array.MustNew(outShape, p.DType())
	for i := 0; i < count; i++ {
		row := g.src.IntN(rows)
		for j := 0; j < rowSize; j++ {
			out.SetFloat(i*rowSize+j, p.FloatAt(row*rowSize+j))
		}
	}
	return out
}

// defaultGenerator backs the package-level functions.
var defaultGenerator = NewGenerator(0)

// Default returns the process-wide generator.
func Default() *Generator {
	return defaultGenerator
}

// Seed reseeds the process-wide generator.
func Seed(seed uint64) {
	defaultGenerator.Seed(seed)
}

// Uniform draws from [low, high) using the process-wide generator.
func Uniform(low, high float64, size ...int) (*array.Array, error) {
	return defaultGenerator.Uniform(low, high, size...)
}

// Normal draws from a normal distribution using the process-wide generator.
func Normal(loc, scale float64, size ...int) *array.Array {
	return defaultGenerator.Normal(loc, scale, size...)
}

// Rand draws from [0, 1) using the process-wide generator.
func Rand(size ...int) *array.Array {
	return defaultGenerator.Rand(size...)
}

// MultivariateNormal draws jointly normal vectors using the process-wide
// generator.
func MultivariateNormal(mean, cov *array.Array, n int) (*array.Array, error) {
	return defaultGenerator.MultivariateNormal(mean, cov, n)
}

// Choice draws with replacement using the process-wide generator.
func Choice(population any, count int) any {
	return defaultGenerator.Choice(population, count)
}
